package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/histview/internal/effects"
	"github.com/roach88/histview/internal/engine"
	"github.com/roach88/histview/internal/history"
)

// DefaultDeleteTimeout bounds how long delete waits for the engine.
const DefaultDeleteTimeout = 30 * time.Second

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	Source  string
	All     bool
	Yes     bool
	Timeout time.Duration
}

// DeleteResult is the JSON payload of the delete command.
type DeleteResult struct {
	Scope     string   `json:"scope"`
	Requested int      `json:"requested"`
	Deleted   int64    `json:"deleted"`
	IDs       []string `json:"ids,omitempty"`
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete [ids...]",
		Short: "Delete history items",
		Long: `Delete the given items, or all history with --all.

Items are named by id or by a unique id prefix as shown by "histview list".
The deletion runs the same two steps as the screen: the items are selected,
a confirmation is requested, and only a confirmed request deletes anything.
Without --yes the confirmation is read from stdin.

Exit codes:
  0 - Items deleted (or nothing to delete)
  1 - Deletion declined or timed out
  2 - Command error (unknown item, bad arguments, etc.)

Examples:
  histview delete 3f2a9c1b0d4e
  histview delete --all --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", "", "active source (default: the last one used)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "delete all history")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "confirm without asking")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", DefaultDeleteTimeout, "how long to wait for the engine")

	return cmd
}

func runDelete(opts *DeleteOptions, refs []string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	switch {
	case opts.All && len(refs) > 0:
		return out.Fail(ExitCommandError, CodeBadArgs, "give item ids or --all, not both", nil)
	case !opts.All && len(refs) == 0:
		return out.Fail(ExitCommandError, CodeBadArgs, "nothing to delete: give item ids or --all", nil)
	}

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
	ctx, cancelTimeout := context.WithTimeout(ctx, opts.Timeout)
	defer cancelTimeout()

	eng, err := ws.startEngine(ctx, sourceID)
	if err != nil {
		return engineFailure(out, err)
	}
	defer eng.Dispose()
	out.Session = eng.SessionID()

	sub := eng.ObserveEffects()
	defer sub.Close()

	state := eng.State()
	result := DeleteResult{Scope: history.DeleteAll.String()}

	if opts.All {
		if len(state.Items) == 0 {
			return renderDeleted(out, result)
		}
		if _, err := eng.SubmitAndWait(ctx, history.DeleteButtonPressed{}); err != nil {
			return engineFailure(out, err)
		}
	} else {
		result.Scope = history.DeleteSelected.String()
		targets, err := resolveTargets(state.Items, refs)
		if err != nil {
			return out.Fail(ExitCommandError, CodeUnknownItem, err.Error(), nil)
		}
		for _, it := range targets {
			if _, err := eng.SubmitAndWait(ctx, history.ItemLongClicked{Item: it}); err != nil {
				return engineFailure(out, err)
			}
			result.IDs = append(result.IDs, it.ID)
		}
		if _, err := eng.SubmitAndWait(ctx, history.DeleteSelectedItemsPressed{}); err != nil {
			return engineFailure(out, err)
		}
	}

	confirmer := &promptConfirmer{
		in:  bufio.NewReader(cmd.InOrStdin()),
		out: cmd.ErrOrStderr(),
		yes: opts.Yes,
	}
	deleter := &countingDeleter{Deleter: ws.store}
	exec := effects.NewExecutor(effects.Handlers{
		Confirmer: confirmer,
		Deleter:   deleter,
	}, slog.Default())

	if err := runUntilDeleted(ctx, exec, sub, confirmer, deleter, &result); err != nil {
		if errors.Is(err, errDeclined) {
			return out.Fail(ExitFailure, CodeDeclined, "deletion declined", nil)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return out.Fail(ExitFailure, CodeTimeout, "timed out waiting for deletion", nil)
		}
		return out.Fail(ExitCommandError, CodeStoreFailure, err.Error(), nil)
	}

	return renderDeleted(out, result)
}

var errDeclined = errors.New("declined")

// runUntilDeleted executes effects until the engine's DeleteItems effect
// has run.
func runUntilDeleted(ctx context.Context, exec *effects.Executor, sub *engine.EffectSubscription,
	confirmer *promptConfirmer, deleter *countingDeleter, result *DeleteResult) error {
	for {
		eff, err := nextEffect(ctx, sub)
		if err != nil {
			return err
		}
		if del, ok := eff.(history.DeleteItems); ok {
			result.Requested = len(del.TargetIDs())
		}
		if err := exec.Execute(ctx, eff); err != nil {
			return err
		}

		switch eff.(type) {
		case history.ShowDeleteConfirmation:
			if !confirmer.confirmed {
				return errDeclined
			}
		case history.DeleteItems:
			result.Deleted = deleter.deleted
			return nil
		}
	}
}

// resolveTargets resolves each reference once, in argument order.
func resolveTargets(items []history.Item, refs []string) ([]history.Item, error) {
	seen := make(map[string]bool, len(refs))
	var targets []history.Item
	for _, ref := range refs {
		it, err := resolveItem(items, ref)
		if err != nil {
			return nil, err
		}
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		targets = append(targets, it)
	}
	return targets, nil
}

func renderDeleted(out *OutputFormatter, result DeleteResult) error {
	return out.Render(result, func(w io.Writer) error {
		if result.Requested == 0 {
			_, err := fmt.Fprintln(w, "Nothing to delete.")
			return err
		}
		_, err := fmt.Fprintf(w, "Deleted %d item(s).\n", result.Deleted)
		return err
	})
}

func engineFailure(out *OutputFormatter, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return out.Fail(ExitFailure, CodeTimeout, "timed out waiting for the engine", nil)
	}
	return WrapExitError(ExitFailure, "engine failed", err)
}
