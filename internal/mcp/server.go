// Package mcp implements the Model Context Protocol server for prototype-lab.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ajitpratap0/prototype-lab/internal/lab"
	"github.com/ajitpratap0/prototype-lab/internal/models"
)

// Server wraps an MCPServer around a single lab. Tool calls are serialised
// because the lab is not safe for concurrent use.
type Server struct {
	mcp       *mcpserver.MCPServer
	mu        sync.Mutex
	lab       *lab.Lab
	massCount int
	logger    *slog.Logger
}

// NewServer creates a new MCP server driving l. massCount is used by
// mass_clone when the caller gives no count.
func NewServer(l *lab.Lab, massCount int, logger *slog.Logger) *Server {
	s := &Server{
		lab:       l,
		massCount: massCount,
		logger:    logger,
	}

	mcpSrv := mcpserver.NewMCPServer(
		"prototype-lab",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	mcpSrv.AddTool(buildListTool(), s.handleList)
	mcpSrv.AddTool(buildCloneTool(), s.handleClone)
	mcpSrv.AddTool(buildMassCloneTool(), s.handleMassClone)
	mcpSrv.AddTool(buildClearTool(), s.handleClear)
	mcpSrv.AddTool(buildApplyTool(), s.handleApply)
	mcpSrv.AddTool(buildRemoveTool(), s.handleRemove)
	mcpSrv.AddTool(buildRenameTool(), s.handleRename)

	s.mcp = mcpSrv
	return s
}

// MCPServer returns the underlying mcp-go MCPServer for use with ServeStdio.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// HandleList is the exported handler for the "list_players" tool.
// It is exposed for direct testing without the mcp-go transport layer.
func (s *Server) HandleList(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleList(ctx, req)
}

// HandleClone is the exported handler for the "clone_player" tool.
func (s *Server) HandleClone(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleClone(ctx, req)
}

// HandleMassClone is the exported handler for the "mass_clone" tool.
func (s *Server) HandleMassClone(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleMassClone(ctx, req)
}

// HandleClear is the exported handler for the "clear_clones" tool.
func (s *Server) HandleClear(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleClear(ctx, req)
}

// HandleApply is the exported handler for the "apply_action" tool.
func (s *Server) HandleApply(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleApply(ctx, req)
}

// HandleRemove is the exported handler for the "remove_player" tool.
func (s *Server) HandleRemove(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleRemove(ctx, req)
}

// HandleRename is the exported handler for the "rename_player" tool.
func (s *Server) HandleRename(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleRename(ctx, req)
}

// --- helpers ---

// rosterResult marshals the roster plus extra fields as a tool text result.
// Callers must hold s.mu.
func (s *Server) rosterResult(extra map[string]any) (*mcpgo.CallToolResult, error) {
	result := map[string]any{
		"players": s.lab.Snapshot(),
		"lines":   s.lab.Lines(),
	}
	for k, v := range extra {
		result[k] = v
	}
	b, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("mcp: marshaling result: %w", err)
	}
	return mcpgo.NewToolResultText(string(b)), nil
}

// advisory turns a lab advisory into a tool error result.
func advisory(err error) *mcpgo.CallToolResult {
	return mcpgo.NewToolResultError(err.Error())
}

// intArg reads an optional integer argument. present is false when the key
// is absent; a value that is not a whole number is an error.
func intArg(req mcpgo.CallToolRequest, key string) (n int, present bool, err error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case int:
		return v, true, nil
	case int64:
		return int(v), true, nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, true, fmt.Errorf("%s must be a whole number, got %v", key, v)
		}
		return int(v), true, nil
	case json.Number:
		i, convErr := v.Int64()
		if convErr != nil {
			return 0, true, fmt.Errorf("%s must be a whole number, got %q", key, v.String())
		}
		return int(i), true, nil
	case string:
		i, convErr := strconv.Atoi(strings.TrimSpace(v))
		if convErr != nil {
			return 0, true, fmt.Errorf("%s must be a whole number, got %q", key, v)
		}
		return i, true, nil
	default:
		return 0, true, fmt.Errorf("%s must be a whole number, got %T", key, raw)
	}
}

// --- tool definitions ---

func buildListTool() mcpgo.Tool {
	return mcpgo.NewTool("list_players",
		mcpgo.WithDescription("List every player. Index 0 is the original; all others are clones."),
	)
}

func buildCloneTool() mcpgo.Tool {
	return mcpgo.NewTool("clone_player",
		mcpgo.WithDescription("Clone a player and append the clone. Clones get a new id and the name suffix \" (clone)\"."),
		mcpgo.WithNumber("index",
			mcpgo.Description("Index of the player to clone (default: the original)"),
		),
	)
}

func buildMassCloneTool() mcpgo.Tool {
	return mcpgo.NewTool("mass_clone",
		mcpgo.WithDescription("Clone the original player several times."),
		mcpgo.WithNumber("count",
			mcpgo.Description("Number of clones to create (default: configured mass count)"),
		),
	)
}

func buildClearTool() mcpgo.Tool {
	return mcpgo.NewTool("clear_clones",
		mcpgo.WithDescription("Remove every clone and keep the original."),
	)
}

func buildApplyTool() mcpgo.Tool {
	return mcpgo.NewTool("apply_action",
		mcpgo.WithDescription("Apply an action to one player: damage, heal, experience or level_up."),
		mcpgo.WithNumber("index",
			mcpgo.Required(),
			mcpgo.Description("Index of the target player"),
		),
		mcpgo.WithString("action",
			mcpgo.Required(),
			mcpgo.Description("One of damage, heal, experience, level_up"),
		),
	)
}

func buildRemoveTool() mcpgo.Tool {
	return mcpgo.NewTool("remove_player",
		mcpgo.WithDescription("Remove a clone. The original (index 0) cannot be removed."),
		mcpgo.WithNumber("index",
			mcpgo.Required(),
			mcpgo.Description("Index of the clone to remove"),
		),
	)
}

func buildRenameTool() mcpgo.Tool {
	return mcpgo.NewTool("rename_player",
		mcpgo.WithDescription("Rename a player. Blank names are ignored."),
		mcpgo.WithNumber("index",
			mcpgo.Required(),
			mcpgo.Description("Index of the player to rename"),
		),
		mcpgo.WithString("name",
			mcpgo.Required(),
			mcpgo.Description("New display name"),
		),
	)
}

// --- tool handlers ---

func (s *Server) handleList(_ context.Context, _ mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rosterResult(nil)
}

// handleClone clones the indexed player, or the original when no index is given.
func (s *Server) handleClone(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	sel, ok, err := intArg(req, "index")
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	if !ok {
		sel = lab.NoSelection
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.lab.Clone(sel)
	if err != nil {
		return advisory(err), nil
	}
	s.logger.Info("mcp: cloned player", "id", p.ID(), "name", p.Name())
	return s.rosterResult(map[string]any{"clone": p.Snapshot()})
}

func (s *Server) handleMassClone(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	count, ok, err := intArg(req, "count")
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	if !ok {
		count = s.massCount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.lab.MassClone(count)
	if err != nil {
		return advisory(err), nil
	}
	s.logger.Info("mcp: mass cloned original", "count", n)
	return s.rosterResult(map[string]any{"created": n})
}

func (s *Server) handleClear(_ context.Context, _ mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lab.ClearClones()
	s.logger.Info("mcp: cleared clones")
	return s.rosterResult(nil)
}

func (s *Server) handleApply(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	sel, ok, err := intArg(req, "index")
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return advisory(lab.ErrNoSelection), nil
	}
	action := models.Action(strings.TrimSpace(req.GetString("action", "")))
	if !action.IsValid() {
		return mcpgo.NewToolResultErrorf("invalid action %q: must be one of damage, heal, experience, level_up", action), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lab.Apply(sel, action); err != nil {
		return advisory(err), nil
	}
	return s.rosterResult(nil)
}

func (s *Server) handleRemove(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	sel, ok, err := intArg(req, "index")
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return advisory(lab.ErrOriginalProtected), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lab.Remove(sel); err != nil {
		if errors.Is(err, lab.ErrOriginalProtected) {
			s.logger.Warn("mcp: refused to remove original", "index", sel)
		}
		return advisory(err), nil
	}
	return s.rosterResult(nil)
}

// handleRename reports renamed=false for blank names instead of failing.
func (s *Server) handleRename(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	sel, ok, err := intArg(req, "index")
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return advisory(lab.ErrNoSelection), nil
	}
	name := req.GetString("name", "")

	s.mu.Lock()
	defer s.mu.Unlock()

	renamed := s.lab.Rename(sel, name)
	return s.rosterResult(map[string]any{"renamed": renamed})
}
