package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/histview/internal/effects"
	"github.com/roach88/histview/internal/history"
)

// ShowAllResult is the JSON payload of the show-all command.
type ShowAllResult struct {
	ShowAll bool `json:"show_all"`
	Visible int  `json:"visible"`
}

// NewShowAllCommand creates the show-all command.
func NewShowAllCommand(rootOpts *RootOptions) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "show-all <true|false>",
		Short: "Show history from every source, or only the active one",
		Long: `Set the "show all sources" preference.

The toggle goes through the history engine like a tap on the screen's
checkbox; the preference file is written by the resulting effect.

Examples:
  histview show-all true
  histview show-all false --source work`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowAll(rootOpts, source, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "active source (default: the last one used)")

	return cmd
}

func runShowAll(opts *RootOptions, source, arg string, cmd *cobra.Command) error {
	out := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	value, err := strconv.ParseBool(arg)
	if err != nil {
		return out.Fail(ExitCommandError, CodeBadArgs, fmt.Sprintf("invalid value %q: want true or false", arg), nil)
	}

	ws, err := openWorkspace(opts)
	if err != nil {
		return err
	}
	defer ws.Close()

	sourceID, err := ws.sourceID(source)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to save preferences", err)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	eng, err := ws.startEngine(ctx, sourceID)
	if err != nil {
		return engineFailure(out, err)
	}
	defer eng.Dispose()
	out.Session = eng.SessionID()

	sub := eng.ObserveEffects()
	defer sub.Close()

	state, err := eng.SubmitAndWait(ctx, history.ShowAllToggled{Checked: value})
	if err != nil {
		return engineFailure(out, err)
	}

	exec := effects.NewExecutor(effects.Handlers{Preferences: ws.prefs}, slog.Default())
	eff, err := nextEffect(ctx, sub)
	if err != nil {
		return engineFailure(out, err)
	}
	if err := exec.Execute(ctx, eff); err != nil {
		return WrapExitError(ExitCommandError, "failed to save preferences", err)
	}

	result := ShowAllResult{ShowAll: state.ShowAll, Visible: len(state.Visible())}
	return out.Render(result, func(w io.Writer) error {
		if result.ShowAll {
			_, err := fmt.Fprintf(w, "Showing all sources (%d items).\n", result.Visible)
			return err
		}
		_, err := fmt.Fprintf(w, "Showing source %q only (%d items).\n", state.CurrentSourceID, result.Visible)
		return err
	})
}
