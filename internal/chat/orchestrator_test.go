package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	apperrors "github.com/narender4sm/inspector-assistant/internal/errors"
	"github.com/narender4sm/inspector-assistant/internal/model/contract"
	"github.com/narender4sm/inspector-assistant/internal/tool"
	"github.com/stretchr/testify/require"
)

type scriptedRouter struct {
	responses []*contract.CompletionResponse
	errs      []error
	requests  []contract.CompletionRequest
}

func (r *scriptedRouter) Route(_ context.Context, _ string, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	r.requests = append(r.requests, req)
	idx := len(r.requests) - 1

	if idx < len(r.errs) && r.errs[idx] != nil {
		return nil, r.errs[idx]
	}
	if idx < len(r.responses) {
		return r.responses[idx], nil
	}
	return r.responses[len(r.responses)-1], nil
}

func (r *scriptedRouter) ListModels() []string {
	return []string{"fake-model"}
}

type echoTool struct {
	name string
}

func (t *echoTool) Name() string        { return t.name }
func (t *echoTool) Description() string { return "echoes its input" }
func (t *echoTool) Parameters() map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
}

func (t *echoTool) Execute(_ context.Context, input json.RawMessage) (json.RawMessage, error) {
	return json.Marshal(map[string]string{"tool": t.name, "echo": string(input)})
}

type failingTool struct{}

func (t *failingTool) Name() string        { return "broken" }
func (t *failingTool) Description() string { return "always fails" }
func (t *failingTool) Parameters() map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
}

func (t *failingTool) Execute(context.Context, json.RawMessage) (json.RawMessage, error) {
	return nil, errors.New("boom")
}

func newTestRunner(t *testing.T, tools ...tool.Tool) *tool.Runner {
	t.Helper()

	registry := tool.NewRegistry()
	for _, tl := range tools {
		registry.Register(tl)
	}
	return tool.NewRunner(registry)
}

func TestSendPlainText(t *testing.T) {
	router := &scriptedRouter{
		responses: []*contract.CompletionResponse{{Content: "all clear"}},
	}
	orc := NewOrchestrator(router, newTestRunner(t), nil, Options{Model: "fake-model"})

	reply, err := orc.Send(context.Background(), "status of EQ-PV-001?")
	require.NoError(t, err)
	require.Equal(t, "all clear", reply)

	history := orc.History()
	require.Len(t, history, 2)
	require.Equal(t, "user", history[0].Role)
	require.Equal(t, "status of EQ-PV-001?", history[0].Content)
	require.Equal(t, "assistant", history[1].Role)
}

func TestSendEmptyTextFallback(t *testing.T) {
	router := &scriptedRouter{
		responses: []*contract.CompletionResponse{{Content: "   "}},
	}
	orc := NewOrchestrator(router, newTestRunner(t), nil, Options{Model: "fake-model"})

	reply, err := orc.Send(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, NoOutputReply, reply)
}

func TestSendToolRoundTrip(t *testing.T) {
	router := &scriptedRouter{
		responses: []*contract.CompletionResponse{
			{ToolCalls: []*contract.ToolCall{
				{ID: "call-a", Name: "alpha", Input: `{}`},
				{ID: "call-b", Name: "beta", Input: `{}`},
			}},
			{Content: "done"},
		},
	}
	runner := newTestRunner(t, &echoTool{name: "alpha"}, &echoTool{name: "beta"})
	orc := NewOrchestrator(router, runner, nil, Options{Model: "fake-model"})

	reply, err := orc.Send(context.Background(), "check two things")
	require.NoError(t, err)
	require.Equal(t, "done", reply)

	// user, assistant(tool calls), two tool results, assistant text
	history := orc.History()
	require.Len(t, history, 5)
	require.Equal(t, "assistant", history[1].Role)
	require.Len(t, history[1].ToolCalls, 2)

	// Exactly one result per request, carrying the request's call ID.
	require.Equal(t, "tool", history[2].Role)
	require.Equal(t, "call-a", history[2].ToolCallID)
	require.Equal(t, "alpha", history[2].ToolName)
	require.Equal(t, "tool", history[3].Role)
	require.Equal(t, "call-b", history[3].ToolCallID)
	require.Equal(t, "beta", history[3].ToolName)

	// The second model request carries the full history including results.
	require.Len(t, router.requests, 2)
	require.Len(t, router.requests[1].Messages, 4)
}

func TestSendToolFailureBecomesPayload(t *testing.T) {
	router := &scriptedRouter{
		responses: []*contract.CompletionResponse{
			{ToolCalls: []*contract.ToolCall{{ID: "call-1", Name: "broken", Input: `{}`}}},
			{Content: "recovered"},
		},
	}
	runner := newTestRunner(t, &failingTool{})
	orc := NewOrchestrator(router, runner, nil, Options{Model: "fake-model"})

	reply, err := orc.Send(context.Background(), "try it")
	require.NoError(t, err)
	require.Equal(t, "recovered", reply)

	history := orc.History()
	require.Equal(t, "tool", history[2].Role)
	require.Equal(t, "call-1", history[2].ToolCallID)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(history[2].Content), &payload))
	require.Contains(t, payload["error"], "boom")
}

type panickingTool struct{}

func (t *panickingTool) Name() string        { return "volatile" }
func (t *panickingTool) Description() string { return "always panics" }
func (t *panickingTool) Parameters() map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
}

func (t *panickingTool) Execute(context.Context, json.RawMessage) (json.RawMessage, error) {
	panic("nil dereference")
}

func TestSendToolPanicBecomesPayload(t *testing.T) {
	router := &scriptedRouter{
		responses: []*contract.CompletionResponse{
			{ToolCalls: []*contract.ToolCall{{ID: "call-1", Name: "volatile", Input: `{}`}}},
			{Content: "survived"},
		},
	}
	runner := newTestRunner(t, &panickingTool{})
	orc := NewOrchestrator(router, runner, nil, Options{Model: "fake-model"})

	reply, err := orc.Send(context.Background(), "try it")
	require.NoError(t, err)
	require.Equal(t, "survived", reply)

	history := orc.History()
	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(history[2].Content), &payload))
	require.Contains(t, payload["error"], "tool panicked")
}

func TestSendUnknownToolBecomesPayload(t *testing.T) {
	router := &scriptedRouter{
		responses: []*contract.CompletionResponse{
			{ToolCalls: []*contract.ToolCall{{ID: "call-x", Name: "no_such_tool", Input: `{}`}}},
			{Content: "ok"},
		},
	}
	orc := NewOrchestrator(router, newTestRunner(t), nil, Options{Model: "fake-model"})

	reply, err := orc.Send(context.Background(), "go")
	require.NoError(t, err)
	require.Equal(t, "ok", reply)

	history := orc.History()
	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(history[2].Content), &payload))
	require.Contains(t, payload["error"], "tool not found")
}

func TestSendRemoteFault(t *testing.T) {
	router := &scriptedRouter{
		errs:      []error{errors.New("connection reset")},
		responses: []*contract.CompletionResponse{nil, {Content: "second try"}},
	}
	orc := NewOrchestrator(router, newTestRunner(t), nil, Options{Model: "fake-model"})

	reply, err := orc.Send(context.Background(), "first")
	require.Error(t, err)
	require.Equal(t, ErrorReply, reply)

	// The failed user turn stays in history and the session remains usable.
	history := orc.History()
	require.Len(t, history, 1)
	require.Equal(t, "user", history[0].Role)

	reply, err = orc.Send(context.Background(), "again")
	require.NoError(t, err)
	require.Equal(t, "second try", reply)
	require.Len(t, orc.History(), 3)
}

func TestSendMaxRounds(t *testing.T) {
	router := &scriptedRouter{
		responses: []*contract.CompletionResponse{
			{ToolCalls: []*contract.ToolCall{{ID: "call-1", Name: "alpha", Input: `{}`}}},
		},
	}
	runner := newTestRunner(t, &echoTool{name: "alpha"})
	orc := NewOrchestrator(router, runner, nil, Options{Model: "fake-model", MaxToolRounds: 3})

	reply, err := orc.Send(context.Background(), "loop forever")
	require.ErrorIs(t, err, apperrors.ErrMaxRounds)
	require.Equal(t, ErrorReply, reply)
	require.Len(t, router.requests, 3)
}

func TestReset(t *testing.T) {
	router := &scriptedRouter{
		responses: []*contract.CompletionResponse{{Content: "hi"}},
	}
	orc := NewOrchestrator(router, newTestRunner(t), nil, Options{Model: "fake-model"})

	first := orc.SessionID()
	_, err := orc.Send(context.Background(), "hello")
	require.NoError(t, err)
	require.NotEmpty(t, orc.History())

	second := orc.Reset()
	require.NotEqual(t, first, second)
	require.Empty(t, orc.History())
}

type recordingSink struct {
	messages []contract.Message
}

func (s *recordingSink) RecordMessage(_ context.Context, _ string, msg contract.Message) error {
	s.messages = append(s.messages, msg)
	return nil
}

func TestSinkReceivesEveryTurn(t *testing.T) {
	router := &scriptedRouter{
		responses: []*contract.CompletionResponse{
			{ToolCalls: []*contract.ToolCall{{ID: "call-1", Name: "alpha", Input: `{}`}}},
			{Content: "final"},
		},
	}
	runner := newTestRunner(t, &echoTool{name: "alpha"})
	sink := &recordingSink{}
	orc := NewOrchestrator(router, runner, nil, Options{Model: "fake-model", Sink: sink})

	_, err := orc.Send(context.Background(), "record me")
	require.NoError(t, err)
	require.Len(t, sink.messages, 4)
	require.Equal(t, orc.History(), sink.messages)
}
