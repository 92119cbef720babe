package main

import (
	"fmt"
	"time"

	"github.com/narender4sm/inspector-assistant/internal/chat"
	"github.com/narender4sm/inspector-assistant/internal/config"
	"github.com/narender4sm/inspector-assistant/internal/inspection"
	"github.com/narender4sm/inspector-assistant/internal/model"
	"github.com/narender4sm/inspector-assistant/internal/pathutil"
	"github.com/narender4sm/inspector-assistant/internal/store"
	"github.com/narender4sm/inspector-assistant/internal/tool"

	_ "github.com/narender4sm/inspector-assistant/internal/tool/builtin"
)

// components wires the dataset, tool registry, model router, and orchestrator
// together for one process.
type components struct {
	Dataset      *inspection.Store
	Registry     *tool.Registry
	Runner       *tool.Runner
	Router       model.Router
	Orchestrator *chat.Orchestrator
	StoreWorker  *store.Worker
}

// buildComponents assembles the full chat stack. persist controls whether a
// transcript store is opened; one-shot commands skip it so they never contend
// for the store lock.
func buildComponents(cfg *config.Config, persist bool) (*components, error) {
	dataset := buildDataset(cfg)

	registry := tool.NewRegistry()
	builtins, err := tool.InstantiateBuiltins(tool.BuiltinOptions{Store: dataset})
	if err != nil {
		return nil, fmt.Errorf("instantiate builtin tools: %w", err)
	}
	for _, t := range builtins {
		registry.Register(t)
	}
	runner := tool.NewRunner(registry)

	router, err := model.NewRouter(cfg.Models)
	if err != nil {
		return nil, fmt.Errorf("initialize model router: %w", err)
	}

	var worker *store.Worker
	var sink chat.TranscriptSink
	if persist {
		lockTimeout, err := config.DurationOrDefault(cfg.Store.LockTimeout, config.DefaultStoreLockTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse store lock timeout: %w", err)
		}
		storePath, err := pathutil.Expand(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("resolve store path: %w", err)
		}
		worker, err = store.NewWorker(storePath, store.RuntimeConfig{LockTimeout: lockTimeout})
		if err != nil {
			return nil, fmt.Errorf("open transcript store: %w", err)
		}
		worker.Start()
		sink = worker
	}

	orc := chat.NewOrchestrator(router, runner, registry.Definitions(), chat.Options{
		Model:         cfg.Models.Default,
		SystemPrompt:  cfg.Chat.SystemPrompt,
		MaxToolRounds: cfg.Chat.MaxToolRounds,
		Sink:          sink,
	})

	return &components{
		Dataset:      dataset,
		Registry:     registry,
		Runner:       runner,
		Router:       router,
		Orchestrator: orc,
		StoreWorker:  worker,
	}, nil
}

func buildDataset(cfg *config.Config) *inspection.Store {
	opts := inspection.DefaultGenerateOptions()
	if cfg.Dataset.Seed != 0 {
		opts.Seed = cfg.Dataset.Seed
	}
	if cfg.Dataset.UnitsPerCategory > 0 {
		opts.UnitsPerCategory = cfg.Dataset.UnitsPerCategory
	}
	if cfg.Dataset.MinInspections > 0 {
		opts.MinInspections = cfg.Dataset.MinInspections
	}
	if cfg.Dataset.MaxInspections > 0 {
		opts.MaxInspections = cfg.Dataset.MaxInspections
	}
	return inspection.NewStore(inspection.Generate(opts))
}

func (c *components) Close() {
	if c.StoreWorker != nil {
		c.StoreWorker.Stop()
	}
}

func requestTimeout(cfg *config.Config) time.Duration {
	timeout, err := config.DurationOrDefault(cfg.Chat.RequestTimeout, config.DefaultChatRequestTimeout)
	if err != nil {
		timeout, _ = config.DurationOrDefault(config.DefaultChatRequestTimeout, config.DefaultChatRequestTimeout)
	}
	return timeout
}
