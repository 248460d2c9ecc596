package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/histview/internal/store"
)

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions
	Source      string
	SourceTitle string
	URL         string
	Title       string
	At          string // RFC 3339; empty means now
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a page visit",
		Long: `Record a page visit in the history database.

A second visit to the same page from the same source on the same UTC day
updates the existing entry instead of adding one.

Examples:
  histview record --source work --url https://go.dev/doc/ --title "Documentation"
  histview record --source work --url https://go.dev/ --at 2024-03-01T09:00:00Z`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", "", "source (profile) the visit belongs to (required)")
	cmd.Flags().StringVar(&opts.SourceTitle, "source-title", "", "display name of the source")
	cmd.Flags().StringVar(&opts.URL, "url", "", "page URL (required)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "page title")
	cmd.Flags().StringVar(&opts.At, "at", "", "visit time in RFC 3339 (default: now)")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func runRecord(opts *RecordOptions, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	visitedAt := time.Now()
	if opts.At != "" {
		t, err := time.Parse(time.RFC3339, opts.At)
		if err != nil {
			return out.Fail(ExitCommandError, CodeBadArgs, fmt.Sprintf("invalid --at: %v", err), nil)
		}
		visitedAt = t
	}

	ws, err := openWorkspace(opts.RootOptions)
	if err != nil {
		return err
	}
	defer ws.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	item, err := ws.store.RecordVisit(ctx, store.Visit{
		SourceID:    opts.Source,
		SourceTitle: opts.SourceTitle,
		PageURL:     opts.URL,
		PageTitle:   opts.Title,
		VisitedAt:   visitedAt,
	})
	if err != nil {
		return out.Fail(ExitCommandError, CodeStoreFailure, err.Error(), nil)
	}
	out.VerboseLog("recorded %s", item.ID)

	return out.Render(newItemView(item), func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Recorded %s %s\n", shortID(item.ID), item.PageURL)
		return err
	})
}
