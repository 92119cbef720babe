package model

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/narender4sm/inspector-assistant/internal/config"
	apperrors "github.com/narender4sm/inspector-assistant/internal/errors"
	"github.com/narender4sm/inspector-assistant/internal/logger"
	"github.com/narender4sm/inspector-assistant/internal/model/contract"
	anthropicProvider "github.com/narender4sm/inspector-assistant/internal/model/providers/anthropic"
	geminiProvider "github.com/narender4sm/inspector-assistant/internal/model/providers/gemini"
	openaiProvider "github.com/narender4sm/inspector-assistant/internal/model/providers/openai"
)

// DefaultRouter resolves a model name to a configured provider, with a single
// configured fallback model when the primary call fails.
type DefaultRouter struct {
	cfg       config.ModelsConfig
	providers map[string]Provider
	mu        sync.RWMutex
}

func NewRouter(cfg config.ModelsConfig) (*DefaultRouter, error) {
	router := &DefaultRouter{
		cfg:       cfg,
		providers: make(map[string]Provider),
	}

	if err := router.initProviders(); err != nil {
		return nil, err
	}

	return router, nil
}

func (r *DefaultRouter) Route(ctx context.Context, model string, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	sessionID := logger.GetSessionID(ctx)
	slog.Debug("Routing completion request", "model", model, "session_id", sessionID)

	provider, err := r.resolveProvider(model)
	if err != nil {
		return nil, err
	}

	resp, err := provider.Generate(ctx, req)
	if err == nil {
		return resp, nil
	}

	slog.Error("Provider request failed", "model", model, "error", err)

	fallback := r.cfg.Fallback
	if fallback == "" || fallback == model {
		return nil, apperrors.Wrap(err, "provider request failed")
	}

	r.mu.RLock()
	fallbackProvider, exists := r.providers[fallback]
	r.mu.RUnlock()
	if !exists {
		return nil, apperrors.Wrap(err, "provider request failed")
	}

	slog.Info("Attempting fallback", "from", model, "to", fallback)

	fbReq := req
	fbReq.Model = fallback
	resp, fbErr := fallbackProvider.Generate(ctx, fbReq)
	if fbErr != nil {
		return nil, apperrors.Wrap(fbErr, "fallback request failed")
	}
	return resp, nil
}

func (r *DefaultRouter) ListModels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]string, 0, len(r.providers))
	for name := range r.providers {
		models = append(models, name)
	}
	sort.Strings(models)

	return models
}

func (r *DefaultRouter) initProviders() error {
	for _, entry := range r.cfg.Registry {
		provider, err := r.createProvider(entry)
		if err != nil {
			slog.Warn("Failed to create provider", "provider", entry.Provider, "model", entry.Name, "error", err)
			continue
		}

		r.providers[entry.Name] = provider
		slog.Debug("Provider initialized", "name", entry.Name, "type", entry.Provider)
	}

	if len(r.providers) == 0 {
		return apperrors.Internal("no providers initialized")
	}

	return nil
}

func (r *DefaultRouter) resolveProvider(model string) (Provider, error) {
	r.mu.RLock()
	provider, exists := r.providers[model]
	r.mu.RUnlock()

	if exists {
		return provider, nil
	}

	if r.cfg.Fallback != "" && model != r.cfg.Fallback {
		slog.Warn("Model not found, using fallback", "model", model, "fallback", r.cfg.Fallback)
		r.mu.RLock()
		fallbackProvider, fallbackExists := r.providers[r.cfg.Fallback]
		r.mu.RUnlock()
		if fallbackExists {
			return fallbackProvider, nil
		}
	}

	return nil, apperrors.NotFound(fmt.Sprintf("model %s not found", model))
}

func (r *DefaultRouter) createProvider(entry config.ModelRegistry) (Provider, error) {
	switch entry.Provider {
	case "gemini":
		return geminiProvider.New(entry.APIKey)

	case "openai":
		baseURL := entry.BaseURL
		if baseURL == "" {
			baseURL = config.DefaultOpenAIBaseURL
		}
		return openaiProvider.New(entry.APIKey, baseURL, entry.Name), nil

	case "ollama":
		baseURL := entry.BaseURL
		if baseURL == "" {
			baseURL = config.DefaultOllamaBaseURL
		}
		apiKey := entry.APIKey
		if apiKey == "" {
			apiKey = config.DefaultOllamaAPIKey
		}
		return openaiProvider.New(apiKey, baseURL, entry.Name), nil

	case "anthropic":
		return anthropicProvider.New(entry.APIKey), nil

	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown provider type: %s", entry.Provider))
	}
}
