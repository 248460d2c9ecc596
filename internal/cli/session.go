package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/histview/internal/effects"
	"github.com/roach88/histview/internal/engine"
	"github.com/roach88/histview/internal/history"
	"github.com/roach88/histview/internal/store"
)

const sessionHelp = `Commands:
  ls              list visible items
  tap N           tap item N (selects and opens it; only toggles while selecting)
  hold N          long-press item N (toggles its selection)
  filter [TEXT]   filter by title or URL; no text clears the filter
  all on|off      show every source, or only the active one
  del             delete all history (asks for confirmation)
  delsel          delete the selected items (asks for confirmation)
  yes             confirm the pending deletion
  esc             leave selection mode, or leave the screen
  quit            end the session
  help            show this help`

// NewSessionCommand creates the session command.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Browse history interactively",
		Long: `Browse history interactively from stdin, one command per line.

The session is a text rendering of the history screen: every command is
turned into the same action a tap, long-press or toggle would produce.
Other processes recording visits show up live.

` + sessionHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(rootOpts, source, cmd)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "active source (default: the last one used)")

	return cmd
}

func runSession(opts *RootOptions, source string, cmd *cobra.Command) error {
	if opts.Format != "text" {
		return NewExitError(ExitCommandError, "session supports text output only")
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
		return WrapExitError(ExitFailure, "engine failed", err)
	}
	defer eng.Dispose()

	s := &session{
		eng:   eng,
		store: ws.store,
		sub:   eng.ObserveEffects(),
		out:   cmd.OutOrStdout(),
	}
	defer s.sub.Close()
	s.exec = effects.NewExecutor(effects.Handlers{
		Navigator:   s,
		Opener:      s,
		Confirmer:   s,
		Deleter:     s,
		Preferences: ws.prefs,
	}, slog.Default())

	slog.Debug("session started", "session", eng.SessionID(), "source", sourceID)
	return s.loop(ctx, cmd.InOrStdin())
}

// session is the interactive screen. It is also the collaborator for the
// effects the screen handles itself.
type session struct {
	eng   *engine.Engine
	exec  *effects.Executor
	sub   *engine.EffectSubscription
	store *store.Store
	out   io.Writer

	pending *history.ShowDeleteConfirmation
	done    bool
}

func (s *session) loop(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := s.list(); err != nil {
		return err
	}
	for !s.done {
		fmt.Fprint(s.out, "> ")
		select {
		case <-ctx.Done():
			return nil
		case <-s.eng.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out)
				return nil
			}
			if err := s.handle(ctx, line); err != nil {
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
		}
	}
	return nil
}

// handle runs one command line.
func (s *session) handle(ctx context.Context, line string) error {
	verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch verb {
	case "":
		return nil
	case "help", "?":
		fmt.Fprintln(s.out, sessionHelp)
		return nil
	case "ls":
		return s.list()
	case "quit", "q":
		s.done = true
		return nil
	case "tap", "hold":
		it, err := s.visibleItem(arg)
		if err != nil {
			return err
		}
		if verb == "tap" {
			return s.submit(ctx, history.ItemClicked{Item: it}, true)
		}
		return s.submit(ctx, history.ItemLongClicked{Item: it}, true)
	case "filter":
		return s.submit(ctx, history.FilterChanged{SearchTerm: arg}, true)
	case "all":
		switch arg {
		case "on":
			return s.submit(ctx, history.ShowAllToggled{Checked: true}, true)
		case "off":
			return s.submit(ctx, history.ShowAllToggled{Checked: false}, true)
		}
		return fmt.Errorf("usage: all on|off")
	case "del":
		return s.submit(ctx, history.DeleteButtonPressed{}, false)
	case "delsel":
		return s.submit(ctx, history.DeleteSelectedItemsPressed{}, false)
	case "yes":
		return s.confirm(ctx)
	case "esc":
		if s.eng.State().IsInSelectionState() {
			return s.submit(ctx, history.RequestExitSelectionMode{}, true)
		}
		return s.submit(ctx, history.RequestExit{}, false)
	}
	return fmt.Errorf("unknown command %q (try help)", verb)
}

// submit reduces the action, runs the effects it produced and optionally
// prints the list.
func (s *session) submit(ctx context.Context, action history.Action, relist bool) error {
	if _, err := s.eng.SubmitAndWait(ctx, action); err != nil {
		return err
	}
	s.drain(ctx)
	if relist && !s.done {
		return s.list()
	}
	return nil
}

// drain executes every effect already delivered to the session.
func (s *session) drain(ctx context.Context) {
	for {
		select {
		case eff, ok := <-s.sub.C:
			if !ok {
				s.done = true
				return
			}
			if err := s.exec.Execute(ctx, eff); err != nil {
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
		default:
			return
		}
	}
}

func (s *session) confirm(ctx context.Context) error {
	if s.pending == nil {
		return fmt.Errorf("nothing to confirm")
	}
	dialog := *s.pending
	s.pending = nil

	dialog.Sink = waitingSink{ctx: ctx, eng: s.eng}
	if !dialog.Confirm() {
		return fmt.Errorf("confirmation was not accepted")
	}
	s.drain(ctx)
	return s.list()
}

func (s *session) list() error {
	state := s.eng.State()
	if state.IsInSelectionState() {
		fmt.Fprintf(s.out, "%d selected\n", len(state.SelectedIDs()))
	}
	return printItems(s.out, state.Visible(), true)
}

func (s *session) visibleItem(arg string) (history.Item, error) {
	visible := s.eng.State().Visible()
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(visible) {
		return history.Item{}, fmt.Errorf("no item %q: pick 1-%d", arg, len(visible))
	}
	return visible[n-1], nil
}

func (s *session) NavigateAway(ctx context.Context) error {
	fmt.Fprintln(s.out, "bye")
	s.done = true
	return nil
}

func (s *session) Open(ctx context.Context, item history.Item) error {
	fmt.Fprintf(s.out, "open %s\n", item.PageURL)
	return nil
}

func (s *session) ConfirmDelete(ctx context.Context, dialog history.ShowDeleteConfirmation) error {
	if dialog.Count == 0 {
		fmt.Fprintln(s.out, "Nothing to delete.")
		return nil
	}
	s.pending = &dialog
	fmt.Fprintf(s.out, "Delete %d item(s)? Type yes to confirm.\n", dialog.Count)
	return nil
}

// Delete removes the items and waits until the engine has seen the store
// without them, so the next listing is current.
func (s *session) Delete(ctx context.Context, ids []string) (int64, error) {
	n, err := s.store.Delete(ctx, ids)
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(s.out, "Deleted %d item(s).\n", n)
	if n == 0 {
		return 0, nil
	}

	gone := make(map[string]bool, len(ids))
	for _, id := range ids {
		gone[id] = true
	}
	_, err = s.eng.WaitForState(ctx, func(st history.State) bool {
		for _, it := range st.Items {
			if gone[it.ID] {
				return false
			}
		}
		return true
	})
	return n, err
}

// waitingSink submits an action and returns once the engine has processed it.
type waitingSink struct {
	ctx context.Context
	eng *engine.Engine
}

func (w waitingSink) Submit(action history.Action) bool {
	_, err := w.eng.SubmitAndWait(w.ctx, action)
	return err == nil
}
