package mcp_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/prototype-lab/internal/lab"
	labmcp "github.com/ajitpratap0/prototype-lab/internal/mcp"
	"github.com/ajitpratap0/prototype-lab/internal/models"
)

// rosterOut mirrors the JSON every roster-returning tool emits.
type rosterOut struct {
	Players []models.PlayerSnapshot `json:"players"`
	Lines   []string                `json:"lines"`
	Clone   *models.PlayerSnapshot  `json:"clone"`
	Created int                     `json:"created"`
	Renamed bool                    `json:"renamed"`
}

func newMCPServer(t *testing.T) (*labmcp.Server, *lab.Lab) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l := lab.NewLab(lab.DefaultConfig(), logger)
	return labmcp.NewServer(l, 10, logger), l
}

// makeReq builds a CallToolRequest with the given arguments.
func makeReq(toolName string, args map[string]any) mcpgo.CallToolRequest {
	req := mcpgo.CallToolRequest{}
	req.Params.Name = toolName
	req.Params.Arguments = args
	return req
}

// textContent extracts the first TextContent string from a CallToolResult.
func textContent(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content, "expected at least one content item")
	tc, ok := result.Content[0].(mcpgo.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return tc.Text
}

func decode(t *testing.T, result *mcpgo.CallToolResult) rosterOut {
	t.Helper()
	require.False(t, result.IsError, "unexpected tool error: %s", textContent(t, result))
	var out rosterOut
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &out))
	return out
}

func TestMCPList(t *testing.T) {
	srv, _ := newMCPServer(t)
	result, err := srv.HandleList(context.Background(), makeReq("list_players", nil))
	require.NoError(t, err)

	out := decode(t, result)
	require.Len(t, out.Players, 1)
	assert.Equal(t, "Hero", out.Players[0].Name)
	assert.Equal(t, []string{"00 - Hero | HP:100 | XP:0 | Lvl:1"}, out.Lines)
}

func TestMCPClone_DefaultsToOriginal(t *testing.T) {
	srv, l := newMCPServer(t)
	result, err := srv.HandleClone(context.Background(), makeReq("clone_player", map[string]any{}))
	require.NoError(t, err)

	out := decode(t, result)
	require.NotNil(t, out.Clone)
	assert.Equal(t, "Hero (clone)", out.Clone.Name)
	assert.NotEqual(t, l.Original().ID(), out.Clone.ID)
	assert.Len(t, out.Players, 2)
}

func TestMCPClone_ByIndex(t *testing.T) {
	srv, _ := newMCPServer(t)
	ctx := context.Background()
	_, err := srv.HandleClone(ctx, makeReq("clone_player", nil))
	require.NoError(t, err)

	result, err := srv.HandleClone(ctx, makeReq("clone_player", map[string]any{"index": float64(1)}))
	require.NoError(t, err)
	out := decode(t, result)
	assert.Equal(t, "Hero (clone) (clone)", out.Clone.Name)
}

func TestMCPClone_BadIndexIsToolError(t *testing.T) {
	srv, _ := newMCPServer(t)
	result, err := srv.HandleClone(context.Background(), makeReq("clone_player", map[string]any{"index": 42}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), lab.ErrNoSelection.Error())
}

func TestMCPClone_NonNumericIndexIsRejected(t *testing.T) {
	srv, l := newMCPServer(t)
	ctx := context.Background()

	for _, idx := range []any{"abc", 1.5, true} {
		result, err := srv.HandleClone(ctx, makeReq("clone_player", map[string]any{"index": idx}))
		require.NoError(t, err)
		assert.True(t, result.IsError, "index %v", idx)
		assert.Contains(t, textContent(t, result), "index must be a whole number")
	}
	assert.Equal(t, 1, l.Len(), "a bad index must not clone the original")
}

func TestMCPClone_NumericStringIndex(t *testing.T) {
	srv, _ := newMCPServer(t)
	result, err := srv.HandleClone(context.Background(), makeReq("clone_player", map[string]any{"index": "0"}))
	require.NoError(t, err)
	assert.Equal(t, "Hero (clone)", decode(t, result).Clone.Name)
}

func TestMCPIndexedTools_RejectNonNumericIndex(t *testing.T) {
	srv, l := newMCPServer(t)
	ctx := context.Background()
	_, err := l.MassClone(2)
	require.NoError(t, err)

	calls := map[string]func(context.Context, mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error){
		"apply_action":  srv.HandleApply,
		"remove_player": srv.HandleRemove,
		"rename_player": srv.HandleRename,
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			result, err := call(ctx, makeReq(name, map[string]any{"index": "two", "action": "heal", "name": "X"}))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, textContent(t, result), "index must be a whole number")
		})
	}
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, "Hero", l.Original().Name())
}

func TestMCPMassClone_NonNumericCountIsRejected(t *testing.T) {
	srv, l := newMCPServer(t)
	result, err := srv.HandleMassClone(context.Background(), makeReq("mass_clone", map[string]any{"count": "lots"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), "count must be a whole number")
	assert.Equal(t, 1, l.Len())
}

func TestMCPMassClone(t *testing.T) {
	srv, l := newMCPServer(t)
	ctx := context.Background()

	result, err := srv.HandleMassClone(ctx, makeReq("mass_clone", map[string]any{"count": 3}))
	require.NoError(t, err)
	assert.Equal(t, 3, decode(t, result).Created)

	result, err = srv.HandleMassClone(ctx, makeReq("mass_clone", nil))
	require.NoError(t, err)
	assert.Equal(t, 10, decode(t, result).Created)
	assert.Equal(t, 14, l.Len())
}

func TestMCPMassClone_AboveCap(t *testing.T) {
	srv, l := newMCPServer(t)
	result, err := srv.HandleMassClone(context.Background(), makeReq("mass_clone", map[string]any{"count": 5000}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, 1, l.Len())
}

func TestMCPApply(t *testing.T) {
	srv, _ := newMCPServer(t)
	result, err := srv.HandleApply(context.Background(), makeReq("apply_action", map[string]any{
		"index":  0,
		"action": "level_up",
	}))
	require.NoError(t, err)
	out := decode(t, result)
	assert.Equal(t, "00 - Hero | HP:110 | XP:0 | Lvl:2", out.Lines[0])
}

func TestMCPApply_Errors(t *testing.T) {
	srv, _ := newMCPServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing index", map[string]any{"action": "heal"}, lab.ErrNoSelection.Error()},
		{"bad action", map[string]any{"index": 0, "action": "explode"}, "invalid action"},
		{"out of range", map[string]any{"index": 3, "action": "heal"}, lab.ErrNoSelection.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := srv.HandleApply(ctx, makeReq("apply_action", tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, textContent(t, result), tt.want)
		})
	}
}

func TestMCPRemove(t *testing.T) {
	srv, l := newMCPServer(t)
	ctx := context.Background()
	_, err := l.MassClone(2)
	require.NoError(t, err)

	result, err := srv.HandleRemove(ctx, makeReq("remove_player", map[string]any{"index": 0}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), lab.ErrOriginalProtected.Error())
	assert.Equal(t, 3, l.Len())

	result, err = srv.HandleRemove(ctx, makeReq("remove_player", map[string]any{"index": 2}))
	require.NoError(t, err)
	assert.Len(t, decode(t, result).Players, 2)
}

func TestMCPRename(t *testing.T) {
	srv, l := newMCPServer(t)
	ctx := context.Background()

	result, err := srv.HandleRename(ctx, makeReq("rename_player", map[string]any{"index": 0, "name": " Paladin "}))
	require.NoError(t, err)
	assert.True(t, decode(t, result).Renamed)
	assert.Equal(t, "Paladin", l.Original().Name())

	result, err = srv.HandleRename(ctx, makeReq("rename_player", map[string]any{"index": 0, "name": "   "}))
	require.NoError(t, err)
	assert.False(t, decode(t, result).Renamed)
	assert.Equal(t, "Paladin", l.Original().Name())
}

func TestMCPClear(t *testing.T) {
	srv, l := newMCPServer(t)
	_, err := l.MassClone(4)
	require.NoError(t, err)

	result, err := srv.HandleClear(context.Background(), makeReq("clear_clones", nil))
	require.NoError(t, err)
	assert.Len(t, decode(t, result).Players, 1)
	assert.Equal(t, 1, l.Len())
}

func TestMCPServer_NotNil(t *testing.T) {
	srv, _ := newMCPServer(t)
	assert.NotNil(t, srv.MCPServer())
}
