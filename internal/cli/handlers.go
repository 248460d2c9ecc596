package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/histview/internal/effects"
	"github.com/roach88/histview/internal/engine"
	"github.com/roach88/histview/internal/history"
)

// promptConfirmer asks on in/out before confirming a deletion.
// With yes set it confirms without asking.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
	yes bool

	confirmed bool
}

func (p *promptConfirmer) ConfirmDelete(ctx context.Context, dialog history.ShowDeleteConfirmation) error {
	if !p.yes {
		fmt.Fprintf(p.out, "Delete %d item(s) (%s)? [y/N] ", dialog.Count, dialog.Scope)
		line, err := p.in.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read confirmation: %w", err)
		}
		if !isYes(line) {
			return nil
		}
	}
	p.confirmed = dialog.Confirm()
	return nil
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// countingDeleter records what the wrapped deleter removed.
type countingDeleter struct {
	effects.Deleter

	deleted int64
}

func (d *countingDeleter) Delete(ctx context.Context, ids []string) (int64, error) {
	n, err := d.Deleter.Delete(ctx, ids)
	d.deleted += n
	return n, err
}

// nextEffect waits for the next effect on sub.
func nextEffect(ctx context.Context, sub *engine.EffectSubscription) (history.Effect, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case eff, ok := <-sub.C:
		if !ok {
			return nil, fmt.Errorf("effect stream closed")
		}
		return eff, nil
	}
}
