package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/histview/internal/history"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Source string
	Filter string
	All    bool
}

// ListResult is the JSON payload of the list command.
type ListResult struct {
	SourceID   string     `json:"source_id,omitempty"`
	ShowAll    bool       `json:"show_all"`
	SearchTerm string     `json:"search_term,omitempty"`
	Total      int        `json:"total"`
	Items      []ItemView `json:"items"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visible history",
		Long: `List the history the screen would show, newest first.

Only the active source is shown unless the "show all sources" preference is
on or --all is given. --all does not change the stored preference.

Examples:
  histview list --source work
  histview list --filter golang --all --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", "", "active source (default: the last one used)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only items whose title or URL contains this text")
	cmd.Flags().BoolVar(&opts.All, "all", false, "show every source for this listing")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	ws, err := openWorkspace(opts.RootOptions)
	if err != nil {
		return err
	}
	defer ws.Close()

	sourceID, err := ws.sourceID(opts.Source)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to save preferences", err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	eng, err := ws.startEngine(ctx, sourceID)
	if err != nil {
		return WrapExitError(ExitFailure, "engine failed", err)
	}
	defer eng.Dispose()
	out.Session = eng.SessionID()

	state := eng.State()
	if opts.Filter != "" {
		state, err = eng.SubmitAndWait(ctx, history.FilterChanged{SearchTerm: opts.Filter})
		if err != nil {
			return WrapExitError(ExitFailure, "engine failed", err)
		}
	}
	if opts.All {
		state.ShowAll = true
	}

	visible := state.Visible()
	result := ListResult{
		SourceID:   state.CurrentSourceID,
		ShowAll:    state.ShowAll,
		SearchTerm: state.SearchTerm,
		Total:      len(state.Items),
		Items:      itemViews(visible),
	}

	return out.Render(result, func(w io.Writer) error {
		if err := printItems(w, visible, false); err != nil {
			return err
		}
		if opts.Verbose {
			fmt.Fprintf(w, "%d of %d items\n", len(visible), len(state.Items))
		}
		return nil
	})
}
