package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/user/movielist/internal/service"
)

func newSearchCmd(a *app) *cobra.Command {
	var mediaType string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search OMDb by title",
		Long: `Search OMDb by title and print the matches.
Titles already in the watchlist are marked with their status.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.needOMDb(); err != nil {
				return err
			}
			if err := a.needStore(); err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			session := service.NewSearchSession(a.omdb, a.cfg.MediaType)
			defer session.Close()

			state := session.SearchType(ctx, strings.Join(args, " "), mediaType)
			return printSearchState(cmd, a, state)
		},
	}
	cmd.Flags().StringVarP(&mediaType, "type", "t", "", "media type: movie, series or episode")
	return cmd
}

func printSearchState(cmd *cobra.Command, a *app, state service.SearchState) error {
	out := cmd.OutOrStdout()
	if state.Error != "" {
		fmt.Fprintln(out, state.Error)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "IMDB ID\tTITLE\tYEAR\tTYPE\tWATCHLIST")
	for _, r := range state.Results {
		mark := "-"
		status, ok, err := a.watchlist.Status(r.IMDbID)
		if err != nil {
			return err
		}
		if ok {
			mark = string(status)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.IMDbID, r.Title, r.Year, r.Type, mark)
	}
	return tw.Flush()
}

func newDetailCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detail <imdbID>",
		Short: "Show full OMDb details for a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.needOMDb(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			d, err := a.details.Get(ctx, args[0])
			if errors.Is(err, service.ErrNotFound) {
				return fmt.Errorf("%s: not found", args[0])
			}
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return errors.New(service.SearchErrorMessage(err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", d.Title, d.Year)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			rows := [][2]string{
				{"IMDb", d.IMDbID},
				{"Type", d.Type},
				{"Rated", d.Rated},
				{"Released", d.Released},
				{"Runtime", d.Runtime},
				{"Genre", d.Genre},
				{"Director", d.Director},
				{"Actors", d.Actors},
				{"Rating", d.IMDbRating},
			}
			for _, row := range rows {
				if row[1] == "" || row[1] == "N/A" {
					continue
				}
				fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if d.Plot != "" && d.Plot != "N/A" {
				fmt.Fprintf(out, "\n%s\n", d.Plot)
			}
			return nil
		},
	}
}
