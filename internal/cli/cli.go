// Package cli implements courtctl, a command line client for one-off
// availability searches against the configured upstream.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/court-availability-service/internal/config"
	"github.com/preston-bernstein/court-availability-service/internal/domain/venues"
	"github.com/preston-bernstein/court-availability-service/internal/logging"
	"github.com/preston-bernstein/court-availability-service/internal/server"
	"github.com/preston-bernstein/court-availability-service/internal/timeutil"
)

// Searcher runs one availability search.
type Searcher interface {
	Search(ctx context.Context, q venues.AvailabilityQuery) ([]venues.ClubWithAvailability, error)
}

// SearcherFactory builds a Searcher for cfg. The closer runs once the command finishes.
type SearcherFactory func(cfg config.Config, logger *slog.Logger) (Searcher, io.Closer)

func defaultFactory(cfg config.Config, logger *slog.Logger) (Searcher, io.Closer) {
	return server.NewSearchService(cfg, logger, nil)
}

// NewRootCommand returns the courtctl command tree wired to the real upstream.
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(version, defaultFactory)
}

func newRootCommand(version string, factory SearcherFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "courtctl",
		Short:         "Query court availability",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSearchCommand(factory))
	return root
}

type searchOptions struct {
	placeID  string
	date     string
	provider string
	logLevel string
	asJSON   bool
}

func newSearchCommand(factory SearcherFactory) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search",
		Short: "List clubs with free courts for a place and date",
		Example: "  courtctl search --place-id ChIJW9fXNZNTtpURV6VYAumGQOw --date 2022-08-25\n" +
			"  courtctl search --place-id ChIJW9fXNZNTtpURV6VYAumGQOw --date 2022-08-25 --json",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, factory, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.placeID, "place-id", "p", "", "place identifier to search")
	cmd.Flags().StringVarP(&opts.date, "date", "d", "", "calendar date, YYYY-MM-DD or RFC3339")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "override the configured provider (alquilatucancha, fixture)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the raw JSON response")
	_ = cmd.MarkFlagRequired("place-id")
	return cmd
}

func runSearch(cmd *cobra.Command, factory SearcherFactory, opts searchOptions) error {
	cfg := config.Load()
	if opts.provider != "" {
		cfg.Provider = opts.provider
	}
	cfg.Metrics.Enabled = false

	logger := logging.NewLogger(logging.Config{
		Level:   opts.logLevel,
		Format:  cfg.Log.Format,
		Service: "courtctl",
		Output:  cmd.ErrOrStderr(),
	})

	svc, closer := factory(cfg, logger)
	if closer != nil {
		defer closer.Close()
	}

	clubs, err := svc.Search(cmd.Context(), venues.AvailabilityQuery{
		PlaceID: opts.placeID,
		Date:    timeutil.ParseQueryDate(opts.date),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(clubs)
	}
	return writeTable(out, clubs)
}

func writeTable(out io.Writer, clubs []venues.ClubWithAvailability) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLUB\tNAME\tCOURT\tCOURT NAME\tFREE SLOTS")
	for _, club := range clubs {
		for _, court := range club.Courts {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%d\n",
				club.ID, attributeText(club.Attributes, "name"),
				court.ID, attributeText(court.Attributes, "name"),
				len(court.Available),
			)
		}
	}
	return tw.Flush()
}

// attributeText renders a string attribute, or the raw JSON for any other shape.
func attributeText(attrs venues.Attributes, key string) string {
	raw, ok := attrs[key]
	if !ok {
		return "-"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
