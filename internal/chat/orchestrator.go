package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/narender4sm/inspector-assistant/internal/concurrency"
	apperrors "github.com/narender4sm/inspector-assistant/internal/errors"
	"github.com/narender4sm/inspector-assistant/internal/logger"
	"github.com/narender4sm/inspector-assistant/internal/model"
	"github.com/narender4sm/inspector-assistant/internal/model/contract"
	"github.com/narender4sm/inspector-assistant/internal/tool"
)

// State of the orchestrator within one user turn.
type State int

const (
	StateIdle State = iota
	StateAwaitingModel
	StateExecutingTools
)

const (
	// NoOutputReply is returned when the model finishes a turn with empty text.
	NoOutputReply = "I processed the request but received no text output."

	// ErrorReply is the single user-facing string for any turn-fatal failure.
	ErrorReply = "I encountered an error while communicating with the inspection database. Please ensure your API key is valid."
)

// TranscriptSink receives every committed turn, for persistence.
type TranscriptSink interface {
	RecordMessage(ctx context.Context, sessionID string, msg contract.Message) error
}

type Options struct {
	Model         string
	SystemPrompt  string
	MaxToolRounds int
	Sink          TranscriptSink
}

// Orchestrator drives the multi-turn exchange with the model: send user text,
// execute any requested tool calls, feed the results back, and repeat until
// the model yields plain text. It owns the session exclusively and processes
// one user turn at a time.
type Orchestrator struct {
	router model.Router
	runner *tool.Runner
	defs   []contract.ToolDef

	modelName     string
	system        string
	maxToolRounds int
	sink          TranscriptSink

	mu      sync.Mutex
	session *Session
	state   State
}

func NewOrchestrator(router model.Router, runner *tool.Runner, defs []contract.ToolDef, opts Options) *Orchestrator {
	maxRounds := opts.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = 8
	}

	return &Orchestrator{
		router:        router,
		runner:        runner,
		defs:          defs,
		modelName:     opts.Model,
		system:        opts.SystemPrompt,
		maxToolRounds: maxRounds,
		sink:          opts.Sink,
		session:       NewSession(),
		state:         StateIdle,
	}
}

func (o *Orchestrator) SessionID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session.ID()
}

// History returns a snapshot of the session's turn log.
func (o *Orchestrator) History() []contract.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session.Messages()
}

// Reset discards the session and starts a fresh one. There is no partial
// rollback; this is the only way to clear history.
func (o *Orchestrator) Reset() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.session = NewSession()
	o.state = StateIdle
	return o.session.ID()
}

// Send processes one user turn to completion, including all nested tool
// round-trips. On a turn-fatal failure it returns ErrorReply together with
// the underlying error; the session stays usable for the next turn, with the
// failed user turn retained in history.
func (o *Orchestrator) Send(ctx context.Context, text string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ctx = logger.WithSessionID(ctx, o.session.ID())

	o.commit(ctx, contract.Message{Role: "user", Content: text})
	o.state = StateAwaitingModel
	defer func() { o.state = StateIdle }()

	for round := 0; round < o.maxToolRounds; round++ {
		resp, err := o.router.Route(ctx, o.modelName, contract.CompletionRequest{
			Model:    o.modelName,
			System:   o.system,
			Messages: o.session.Messages(),
			Tools:    o.defs,
		})
		if err != nil {
			slog.Error("Model round-trip failed", "session_id", o.session.ID(), "round", round, "error", err)
			return ErrorReply, apperrors.Wrap(err, "model round-trip")
		}

		if len(resp.ToolCalls) == 0 {
			reply := resp.Content
			if strings.TrimSpace(reply) == "" {
				reply = NoOutputReply
			}
			o.commit(ctx, contract.Message{Role: "assistant", Content: resp.Content})
			return reply, nil
		}

		o.state = StateExecutingTools
		o.commit(ctx, contract.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		// All results for this model turn are collected before anything is
		// sent back, so the batch is always complete.
		for _, result := range o.executeBatch(ctx, resp.ToolCalls) {
			o.commit(ctx, result)
		}
		o.state = StateAwaitingModel
	}

	slog.Error("Tool-call loop exceeded round ceiling", "session_id", o.session.ID(), "max_rounds", o.maxToolRounds)
	return ErrorReply, apperrors.ErrMaxRounds
}

// executeBatch runs every requested tool call concurrently and returns
// exactly one result message per request, each carrying its request's call
// identifier. A failed or panicking call becomes an error payload; it never
// aborts the batch.
func (o *Orchestrator) executeBatch(ctx context.Context, calls []*contract.ToolCall) []contract.Message {
	results := make([]contract.Message, len(calls))

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		i, call := i, call
		concurrency.SafeGo(func() {
			payload, err := o.runner.Execute(ctx, call.Name, json.RawMessage(call.Input))
			if err != nil {
				payload, _ = json.Marshal(map[string]string{"error": err.Error()})
			}

			results[i] = contract.Message{
				Role:       "tool",
				Content:    string(payload),
				ToolCallID: call.ID,
				ToolName:   call.Name,
			}
			wg.Done()
		}, func(r interface{}) {
			payload, _ := json.Marshal(map[string]string{"error": fmt.Sprintf("tool panicked: %v", r)})
			results[i] = contract.Message{
				Role:       "tool",
				Content:    string(payload),
				ToolCallID: call.ID,
				ToolName:   call.Name,
			}
			wg.Done()
		})
	}
	wg.Wait()

	return results
}

func (o *Orchestrator) commit(ctx context.Context, msg contract.Message) {
	o.session.Append(msg)
	if o.sink == nil {
		return
	}
	if err := o.sink.RecordMessage(ctx, o.session.ID(), msg); err != nil {
		slog.Warn("Failed to persist turn", "session_id", o.session.ID(), "role", msg.Role, "error", err)
	}
}
