package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/movielist/internal/middleware"
)

func newTokenCmd(a *app) *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for watchlist writes over HTTP",
		Long: `Issue a bearer token signed with APP_SECRET.
The HTTP API only checks it when WRITE_AUTH=true.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := middleware.GenerateWriteToken(subject, a.cfg.AppSecret, a.cfg.TokenExpiry)
			if err != nil {
				return fmt.Errorf("生成 token 失败: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "cli", "token subject")
	return cmd
}
