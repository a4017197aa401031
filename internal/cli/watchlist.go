package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/user/movielist/internal/model"
)

func newListCmd(a *app) *cobra.Command {
	var status, sort string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the watchlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseFilter(status, sort)
			if err != nil {
				return err
			}
			if err := a.needStore(); err != nil {
				return err
			}
			defer a.close()

			entries, err := a.watchlist.All(filter)
			if err != nil {
				return err
			}
			return printEntries(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "filter: all, planned or completed")
	cmd.Flags().StringVar(&sort, "sort", model.SortAdded, "order: added, title or year")
	return cmd
}

func parseFilter(status, sort string) (model.WatchlistFilter, error) {
	var f model.WatchlistFilter
	if status != "" && status != "all" {
		s, err := model.ParseWatchStatus(status)
		if err != nil {
			return f, err
		}
		f.Status = s
	}
	switch sort {
	case model.SortAdded, model.SortTitle, model.SortYear:
		f.Sort = sort
	default:
		return f, fmt.Errorf("无效的排序方式: %q", sort)
	}
	return f, nil
}

func printEntries(w io.Writer, entries []*model.WatchlistEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "watchlist is empty")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "IMDB ID\tTITLE\tYEAR\tSTATUS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.IMDbID, e.Title, e.Year, e.Status)
	}
	return tw.Flush()
}

type entryFlags struct {
	title, year, poster string
}

func (f *entryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "title to store")
	cmd.Flags().StringVar(&f.year, "year", "", "release year to store")
	cmd.Flags().StringVar(&f.poster, "poster", "", "poster URL to store")
}

// fill 未给出标题时尝试从 OMDb 补全，失败只记录日志
func (f *entryFlags) fill(ctx context.Context, a *app, e *model.WatchlistEntry) {
	e.Title, e.Year, e.Poster = f.title, f.year, f.poster
	if e.Title != "" || a.cfg.OMDbAPIKey == "" {
		return
	}
	if err := a.needOMDb(); err != nil {
		return
	}
	d, err := a.details.Get(ctx, e.IMDbID)
	if err != nil {
		log.Printf("[CLI] 获取详情失败 (%s): %v", e.IMDbID, err)
		return
	}
	e.Title, e.Poster = d.Title, d.Poster
	if e.Year == "" {
		e.Year = d.Year
	}
}

func newAddCmd(a *app) *cobra.Command {
	var (
		flags  entryFlags
		status string
	)

	cmd := &cobra.Command{
		Use:   "add <imdbID>",
		Short: "Add or overwrite a watchlist entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := model.ParseWatchStatus(status)
			if err != nil {
				return err
			}
			if err := a.needStore(); err != nil {
				return err
			}
			defer a.close()

			e := &model.WatchlistEntry{IMDbID: strings.TrimSpace(args[0]), Status: st}
			flags.fill(cmd.Context(), a, e)
			if err := a.watchlist.Add(e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", describe(e), e.Status)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&status, "status", string(model.StatusPlanned), "planned or completed")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <imdbID>",
		Aliases: []string{"rm"},
		Short:   "Remove a watchlist entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.needStore(); err != nil {
				return err
			}
			defer a.close()

			if err := a.watchlist.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
}

func newToggleCmd(a *app) *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "toggle <imdbID>",
		Short: "Remove the title if present, otherwise add it as planned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.needStore(); err != nil {
				return err
			}
			defer a.close()

			e := &model.WatchlistEntry{IMDbID: strings.TrimSpace(args[0])}
			present, err := a.watchlist.IsPresent(e.IMDbID)
			if err != nil {
				return err
			}
			if !present {
				flags.fill(cmd.Context(), a, e)
			}
			added, err := a.watchlist.Toggle(e)
			if err != nil {
				return err
			}
			if added {
				fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", describe(e), model.StatusPlanned)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", e.IMDbID)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <imdbID> <planned|completed>",
		Short: "Change the watch status of an entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := model.ParseWatchStatus(args[1])
			if err != nil {
				return err
			}
			if err := a.needStore(); err != nil {
				return err
			}
			defer a.close()

			updated, err := a.watchlist.UpdateStatus(args[0], st)
			if err != nil {
				return err
			}
			if !updated {
				return fmt.Errorf("%s is not in the watchlist", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[0], st)
			return nil
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the watchlist every time it changes",
		Long: `Print the current watchlist, then reprint it after every change
made through this process until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.needStore(); err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			feed, err := a.watchlist.Subscribe(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for entries := range feed {
				fmt.Fprintf(out, "--- %d entries ---\n", len(entries))
				if err := printEntries(out, entries); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func describe(e *model.WatchlistEntry) string {
	if e.Title == "" {
		return e.IMDbID
	}
	if e.Year == "" {
		return fmt.Sprintf("%s %s", e.IMDbID, e.Title)
	}
	return fmt.Sprintf("%s %s (%s)", e.IMDbID, e.Title, e.Year)
}
