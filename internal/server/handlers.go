package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medai/medmcp/internal/intent"
	"github.com/medai/medmcp/internal/session"
	"github.com/medai/medmcp/internal/tool"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// statusFor maps engine errors onto HTTP statuses. Timeouts are checked
// before the system class because the registry reports them as sentinels,
// not as internal failures.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, tool.ErrToolNotFound), errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound, "not_found"
	case tool.IsClientError(err):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, tool.ErrTimeout):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, tool.ErrShutdown):
		return http.StatusServiceUnavailable, "unavailable"
	case tool.IsSystemError(err):
		return http.StatusBadGateway, "internal"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status, kind := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", c.Request.URL.Path, "err", err)
	}
	c.JSON(status, gin.H{"error": errorBody{Kind: kind, Message: err.Error()}})
}

func (s *Server) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Kind: "invalid_input", Message: msg}})
}

type toolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Type        string         `json:"type,omitempty"`
	InputSchema map[string]any `json:"inputSchema,omitempty"`
}

func (s *Server) handleDiscoverTools(c *gin.Context) {
	includeSchemas, _ := strconv.ParseBool(c.DefaultQuery("include_schemas", "false"))

	all := s.registry.All()
	infos := make([]toolInfo, 0, len(all))
	for _, t := range all {
		info := toolInfo{Name: t.Name(), Description: t.Description()}
		if tm, ok := t.(tool.ToolMetadata); ok {
			info.Type = tm.Kind()
		}
		if includeSchemas {
			info.InputSchema = t.Parameters()
		}
		infos = append(infos, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"tools": infos,
		"count": len(infos),
		"server_info": gin.H{
			"name":        serverName,
			"version":     serverVersion,
			"description": serverDescription,
		},
	})
}

func (s *Server) handleToolSchema(c *gin.Context) {
	name := c.Param("name")
	t, err := s.registry.Get(name)
	if err != nil {
		s.writeError(c, err)
		return
	}
	resp := gin.H{
		"name":        t.Name(),
		"description": t.Description(),
		"inputSchema": t.Parameters(),
		"examples":    examplesFor(name),
	}
	if tm, ok := t.(tool.ToolMetadata); ok && tm.Kind() != "" {
		resp["type"] = tm.Kind()
	}
	c.JSON(http.StatusOK, resp)
}

type executeCall struct {
	ToolName   string          `json:"tool_name"`
	Parameters json.RawMessage `json:"parameters"`
}

// executeRequest covers both invocation shapes: a single call with
// tool_name/parameters at the top level, or a batch under tool_calls with an
// optional session to record outcomes in.
type executeRequest struct {
	ToolName   string          `json:"tool_name"`
	Parameters json.RawMessage `json:"parameters"`
	ToolCalls  []executeCall   `json:"tool_calls"`
	SessionID  string          `json:"session_id"`
}

func (s *Server) handleExecute(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body: "+err.Error())
		return
	}
	switch {
	case len(req.ToolCalls) > 0:
		s.executeBatch(c, req)
	case req.ToolName != "":
		s.executeSingle(c, req)
	default:
		s.badRequest(c, "either tool_name or tool_calls must be provided")
	}
}

func (s *Server) executeSingle(c *gin.Context, req executeRequest) {
	res := s.registry.Execute(c.Request.Context(), tool.ToolCall{
		ToolName: req.ToolName,
		Args:     req.Parameters,
	})
	if res.Failed() {
		s.writeError(c, res.Error)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tool_name":   res.ToolName,
		"parameters":  res.Args,
		"result":      res.Result,
		"executed_at": res.ExecutedAt,
	})
}

type batchResult struct {
	ToolName      string          `json:"tool_name"`
	Success       bool            `json:"success"`
	Result        json.RawMessage `json:"result,omitempty"`
	Error         string          `json:"error,omitempty"`
	ExecutionTime time.Time       `json:"execution_time"`
}

type batchResponse struct {
	Results   []batchResult `json:"results"`
	SessionID string        `json:"session_id,omitempty"`
	Errors    []string      `json:"errors"`
}

// executeBatch runs every call regardless of individual failures and always
// answers 200; per-call errors live inside the result slots. Outcomes are
// appended to the session history when a live session id is supplied; an
// expired or unknown session is ignored.
func (s *Server) executeBatch(c *gin.Context, req executeRequest) {
	calls := make([]tool.ToolCall, len(req.ToolCalls))
	for i, tc := range req.ToolCalls {
		calls[i] = tool.ToolCall{
			ID:       strconv.Itoa(i),
			ToolName: tc.ToolName,
			Args:     tc.Parameters,
		}
	}
	results := s.registry.ExecuteBatch(c.Request.Context(), calls)

	resp := batchResponse{
		Results:   make([]batchResult, 0, len(results)),
		SessionID: req.SessionID,
		Errors:    []string{},
	}
	for _, res := range results {
		br := batchResult{
			ToolName:      res.ToolName,
			Success:       !res.Failed(),
			ExecutionTime: res.ExecutedAt,
		}
		status := "completed"
		if res.Failed() {
			br.Error = res.Error.Error()
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: %s", res.ToolName, res.Error))
			status = "failed"
		} else {
			br.Result = res.Result
		}
		resp.Results = append(resp.Results, br)

		if req.SessionID != "" {
			_ = s.sessions.AppendHistory(req.SessionID, session.HistoryEntry{
				Role:     "tool",
				ToolName: res.ToolName,
				Content:  status,
			})
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var req struct {
		UserRole string `json:"user_role"`
	}
	// An empty body means a guest session.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.badRequest(c, "invalid request body: "+err.Error())
		return
	}
	role, err := session.ParseRole(req.UserRole)
	if err != nil {
		s.badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusCreated, s.sessions.Create(role))
}

func (s *Server) handleGetSession(c *gin.Context) {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	s.sessions.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

type chatResponse struct {
	Intent        string   `json:"intent"`
	SuggestedTool string   `json:"suggested_tool,omitempty"`
	Suggestions   []string `json:"suggestions"`
}

// handleChat classifies a free-text message and answers with the tool that
// serves it plus follow-up prompts tuned to the caller's role.
func (s *Server) handleChat(c *gin.Context) {
	var req struct {
		Message   string `json:"message"`
		SessionID string `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.badRequest(c, "message is required")
		return
	}

	role := session.RoleGuest
	if req.SessionID != "" {
		if sess, err := s.sessions.Get(req.SessionID); err == nil {
			role = sess.Role
		}
		_ = s.sessions.AppendHistory(req.SessionID, session.HistoryEntry{
			Role:    "user",
			Content: req.Message,
		})
	}

	in := intent.Classify(req.Message)
	c.JSON(http.StatusOK, chatResponse{
		Intent:        string(in),
		SuggestedTool: intent.SuggestedTool(in),
		Suggestions:   intent.Suggestions(in, string(role)),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
