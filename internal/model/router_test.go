package model

import (
	"context"
	"errors"
	"testing"

	"github.com/narender4sm/inspector-assistant/internal/config"
	apperrors "github.com/narender4sm/inspector-assistant/internal/errors"
	"github.com/narender4sm/inspector-assistant/internal/model/contract"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name    string
	content string
	err     error
	calls   int
}

func (p *fakeProvider) Generate(_ context.Context, _ contract.CompletionRequest) (*contract.CompletionResponse, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &contract.CompletionResponse{Content: p.content}, nil
}

func (p *fakeProvider) Name() string { return p.name }

func newFakeRouter(fallback string, providers map[string]Provider) *DefaultRouter {
	return &DefaultRouter{
		cfg:       config.ModelsConfig{Fallback: fallback},
		providers: providers,
	}
}

func TestRoutePrimarySuccess(t *testing.T) {
	primary := &fakeProvider{name: "gemini", content: "primary"}
	router := newFakeRouter("backup", map[string]Provider{"main": primary})

	resp, err := router.Route(context.Background(), "main", contract.CompletionRequest{Model: "main"})
	require.NoError(t, err)
	require.Equal(t, "primary", resp.Content)
	require.Equal(t, 1, primary.calls)
}

func TestRouteFallbackOnProviderError(t *testing.T) {
	primary := &fakeProvider{name: "gemini", err: errors.New("rate limited")}
	backup := &fakeProvider{name: "openai", content: "from fallback"}
	router := newFakeRouter("backup", map[string]Provider{
		"main":   primary,
		"backup": backup,
	})

	resp, err := router.Route(context.Background(), "main", contract.CompletionRequest{Model: "main"})
	require.NoError(t, err)
	require.Equal(t, "from fallback", resp.Content)
	require.Equal(t, 1, primary.calls)
	require.Equal(t, 1, backup.calls)
}

func TestRouteErrorWithoutFallback(t *testing.T) {
	primary := &fakeProvider{name: "gemini", err: errors.New("rate limited")}
	router := newFakeRouter("", map[string]Provider{"main": primary})

	_, err := router.Route(context.Background(), "main", contract.CompletionRequest{Model: "main"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "rate limited")
}

func TestRouteBothFail(t *testing.T) {
	router := newFakeRouter("backup", map[string]Provider{
		"main":   &fakeProvider{err: errors.New("down")},
		"backup": &fakeProvider{err: errors.New("also down")},
	})

	_, err := router.Route(context.Background(), "main", contract.CompletionRequest{Model: "main"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "fallback request failed")
}

func TestResolveUnknownModelUsesFallback(t *testing.T) {
	backup := &fakeProvider{name: "openai", content: "ok"}
	router := newFakeRouter("backup", map[string]Provider{"backup": backup})

	resp, err := router.Route(context.Background(), "never-registered", contract.CompletionRequest{})
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Content)
}

func TestResolveUnknownModelNoFallback(t *testing.T) {
	router := newFakeRouter("", map[string]Provider{})

	_, err := router.Route(context.Background(), "ghost", contract.CompletionRequest{})
	require.Error(t, err)
	require.True(t, apperrors.IsCategory(err, apperrors.ErrNotFound))
}

func TestListModelsSorted(t *testing.T) {
	router := newFakeRouter("", map[string]Provider{
		"zeta":  &fakeProvider{},
		"alpha": &fakeProvider{},
	})

	require.Equal(t, []string{"alpha", "zeta"}, router.ListModels())
}

func TestNewRouterRejectsUnknownProviderType(t *testing.T) {
	_, err := NewRouter(config.ModelsConfig{
		Registry: []config.ModelRegistry{
			{Name: "mystery", Provider: "carrier-pigeon"},
		},
	})
	require.Error(t, err)
}

func TestNewRouterOllamaEntry(t *testing.T) {
	router, err := NewRouter(config.ModelsConfig{
		Default: "local-llama",
		Registry: []config.ModelRegistry{
			{Name: "local-llama", Provider: "ollama"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"local-llama"}, router.ListModels())
}
