package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/histview/internal/history"
	"github.com/roach88/histview/internal/testutil"
)

func TestPromptConfirmer(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		yes     bool
		confirm bool
		prompt  bool
	}{
		{name: "yes flag skips prompt", yes: true, confirm: true},
		{name: "y confirms", input: "y\n", confirm: true, prompt: true},
		{name: "YES confirms", input: " YES \n", confirm: true, prompt: true},
		{name: "n declines", input: "n\n", prompt: true},
		{name: "empty declines", input: "\n", prompt: true},
		{name: "eof declines", input: "", prompt: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &testutil.RecordingSink{}
			var out bytes.Buffer
			c := &promptConfirmer{
				in:  bufio.NewReader(strings.NewReader(tt.input)),
				out: &out,
				yes: tt.yes,
			}

			dialog := history.ShowDeleteConfirmation{Scope: history.DeleteSelected, Count: 2, Sink: sink}
			require.NoError(t, c.ConfirmDelete(context.Background(), dialog))

			assert.Equal(t, tt.confirm, c.confirmed)
			assert.Equal(t, tt.prompt, out.Len() > 0)
			if tt.confirm {
				assert.Equal(t, []history.Action{history.ConfirmDeleteClicked{Scope: history.DeleteSelected}}, sink.Actions())
			} else {
				assert.Empty(t, sink.Actions())
			}
		})
	}
}

type fakeDeleter struct{ n int64 }

func (f fakeDeleter) Delete(ctx context.Context, ids []string) (int64, error) {
	return f.n, nil
}

func TestCountingDeleter(t *testing.T) {
	d := &countingDeleter{Deleter: fakeDeleter{n: 2}}

	_, err := d.Delete(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	_, err = d.Delete(context.Background(), []string{"c", "d"})
	require.NoError(t, err)

	assert.Equal(t, int64(4), d.deleted)
}
