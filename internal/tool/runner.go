package tool

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	apperrors "github.com/narender4sm/inspector-assistant/internal/errors"
	"github.com/narender4sm/inspector-assistant/internal/logger"
)

// Runner handles the full tool lifecycle: lookup, input validation, execution.
type Runner struct {
	registry *Registry
}

func NewRunner(registry *Registry) *Runner {
	return &Runner{registry: registry}
}

// Execute runs a named tool. Unknown names and invalid input are reported as
// categorized errors; the caller decides how to surface them.
func (r *Runner) Execute(ctx context.Context, toolName string, input json.RawMessage) (json.RawMessage, error) {
	t, ok := r.registry.Get(toolName)
	if !ok {
		return nil, apperrors.NotFound("tool not found: " + NormalizeToolName(toolName))
	}
	resolvedName := NormalizeToolName(t.Name())

	if err := ValidateInput(t.Parameters(), input); err != nil {
		slog.Warn("Tool input validation failed", "tool", resolvedName, "error", err)
		return nil, apperrors.InvalidInput(err.Error())
	}

	start := time.Now()
	sessionID := logger.GetSessionID(ctx)
	slog.Info("Executing tool", "tool", resolvedName, "session_id", sessionID)

	result, err := t.Execute(ctx, input)

	duration := time.Since(start)
	if err != nil {
		slog.Error("Tool execution failed", "tool", resolvedName, "error", err, "duration", duration, "session_id", sessionID)
		return nil, apperrors.Wrap(err, "tool execution")
	}

	slog.Info("Tool execution success", "tool", resolvedName, "duration", duration, "session_id", sessionID)
	return result, nil
}
