package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRegCommands_SubcommandsWinOverArgs(t *testing.T) {
	c := New(nil)
	raw := `[{"command":"net","args":["STRING <ignored>"],"subcommands":[{"name":"list","args":["STRING [filter]"]}]}]`
	require.NoError(t, c.AddRegCommands([]byte(raw)))

	cmds := c.Commands()
	require.Len(t, cmds, 1)
	assert.True(t, cmds[0].IsGroup())
	assert.Nil(t, cmds[0].Args())
	require.Len(t, cmds[0].Subcommands(), 1)
	assert.Equal(t, "list", cmds[0].Subcommands()[0].Name)
}

func TestAddRegCommands_InvalidArgDropped(t *testing.T) {
	c := New(nil)
	raw := `[{"command":"ls","args":["STRING [path]","garbage"]}]`
	require.NoError(t, c.AddRegCommands([]byte(raw)))

	cmds := c.Commands()
	require.Len(t, cmds, 1)
	assert.Len(t, cmds[0].Args(), 1)
	assert.Equal(t, "arguments not parsed", c.LastError())
}

func TestAddRegCommands_Replaces(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.AddRegCommands([]byte(`[{"command":"a"}]`)))
	require.NoError(t, c.AddRegCommands([]byte(`[{"command":"b"}]`)))

	cmds := c.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "b", cmds[0].Name)
}

func TestExtModule_CollisionKeepsBoth(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.AddRegCommands([]byte(`[{"command":"shell"}]`)))
	require.NoError(t, c.AddExtModule("/tmp/ext.json", "ext", []json.RawMessage{
		json.RawMessage(`{"command":"shell"}`),
	}, nil))

	// Both exist independently; resolution order is the dispatcher's job,
	// but the catalog keeps both without merging them.
	assert.Len(t, c.Commands(), 1)
	assert.Len(t, c.ExtModules()["/tmp/ext.json"].Commands, 1)
}

func TestExtModule_InsertionOrderPreserved(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.AddExtModule("/a.json", "a", nil, nil))
	require.NoError(t, c.AddExtModule("/b.json", "b", nil, nil))
	require.NoError(t, c.AddExtModule("/a.json", "a-reloaded", nil, nil))

	ordered := c.ExtModulesOrdered()
	require.Len(t, ordered, 2)
	assert.Equal(t, "a-reloaded", ordered[0].Name)
	assert.Equal(t, "b", ordered[1].Name)
}

func TestRemoveExtModule(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.AddExtModule("/a.json", "a", nil, nil))
	c.RemoveExtModule("/a.json")

	assert.Empty(t, c.ExtModules())
	assert.Empty(t, c.ExtModulesOrdered())
}

func TestCommandLines(t *testing.T) {
	c := New(nil)
	raw := `[{"command":"net","subcommands":[{"name":"list"}]},{"command":"ls"}]`
	require.NoError(t, c.AddRegCommands([]byte(raw)))

	lines := c.CommandLines()
	assert.Contains(t, lines, "net list")
	assert.Contains(t, lines, "ls")
	assert.Contains(t, lines, "help net")
	assert.Contains(t, lines, "help net list")
	assert.NotContains(t, lines, "net")
}

func TestParseConstant(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.AddExtModule("/x.json", "x", nil, []json.RawMessage{
		json.RawMessage(`{"name":"archmap","map":{"x64":"amd64","x86":"386"}}`),
	}))

	mod := c.ExtModules()["/x.json"]
	require.Contains(t, mod.Constants, "archmap")
	assert.Equal(t, "amd64", mod.Constants["archmap"].Map["x64"])
}
