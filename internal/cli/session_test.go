package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSessionScript(t *testing.T, env *cliEnv, lines ...string) string {
	t.Helper()
	out, err := env.run(t, strings.Join(lines, "\n")+"\n", "session", "--source", "work")
	require.NoError(t, err, out)
	return out
}

func TestSessionTapSelectsAndOpensItem(t *testing.T) {
	env := newCLIEnv(t)
	seedHistory(t, env)

	// Newest first: 1 is the blog, 2 the docs.
	out := runSessionScript(t, env, "tap 2", "tap 2", "quit")
	assert.Contains(t, out, "open "+urlGo)
	assert.Contains(t, out, "1 selected", "the first tap also selects the item")
	assert.Equal(t, 1, strings.Count(out, "open "), "the second tap only deselects")
}

func TestSessionSelectAndDelete(t *testing.T) {
	env := newCLIEnv(t)
	seedHistory(t, env)

	out := runSessionScript(t, env, "hold 1", "tap 1", "hold 2", "delsel", "yes", "quit")
	assert.NotContains(t, out, "open ", "taps while selecting only toggle")
	assert.Contains(t, out, "Delete 1 item(s)? Type yes to confirm.")
	assert.Contains(t, out, "Deleted 1 item(s).")

	result := listJSON(t, env, "--all")
	assert.Equal(t, []string{urlNews, urlBlog}, urls(result.Items))
}

func TestSessionEscLeavesSelectionThenScreen(t *testing.T) {
	env := newCLIEnv(t)
	seedHistory(t, env)

	out := runSessionScript(t, env, "hold 1", "esc", "esc", "ls")
	assert.Contains(t, out, "1 selected")
	assert.Contains(t, out, "bye")
	assert.Equal(t, 1, strings.Count(out, "bye"))
}

func TestSessionShowAllAndFilter(t *testing.T) {
	env := newCLIEnv(t)
	seedHistory(t, env)

	out := runSessionScript(t, env, "all on", "filter news", "quit")
	assert.Contains(t, out, urlNews)

	result := listJSON(t, env)
	assert.True(t, result.ShowAll, "toggle is persisted by the effect")
}

func TestSessionConfirmWithoutDialog(t *testing.T) {
	env := newCLIEnv(t)
	seedHistory(t, env)

	out := runSessionScript(t, env, "yes", "bogus", "tap 9", "quit")
	assert.Contains(t, out, "error: nothing to confirm")
	assert.Contains(t, out, `error: unknown command "bogus"`)
	assert.Contains(t, out, `error: no item "9"`)
}

func TestSessionDeleteAllDeclinedByQuitting(t *testing.T) {
	env := newCLIEnv(t)
	seedHistory(t, env)

	out := runSessionScript(t, env, "del", "quit")
	assert.Contains(t, out, "Delete 3 item(s)?")

	result := listJSON(t, env, "--all")
	assert.Len(t, result.Items, 3)
}

func TestSessionEndOfInput(t *testing.T) {
	env := newCLIEnv(t)
	seedHistory(t, env)

	out, err := env.run(t, "", "session", "--source", "work")
	require.NoError(t, err)
	assert.Contains(t, out, urlBlog)
}

func TestSessionRejectsJSON(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "", "--format", "json", "session")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
