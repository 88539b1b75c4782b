// Package promptweave provides a high-level façade over the execution engine
// and its service abstractions (resources, conversations, plugins, provider
// gateway and logging), enabling rapid construction of pattern-driven LLM
// applications. Most applications interact with this package by:
//  1. Creating a PromptWeave via New() (optionally overriding the default
//     in-memory services)
//  2. Registering connectors and any collaborator plugins (memory search,
//     workflow invocation, ...)
//  3. Executing patterns synchronously (Execute) or with incremental
//     delivery (ExecuteStream)
//
// The façade delegates orchestration to engine.Engine while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a filesystem or database
// resource store, a durable conversation store and a structured logger.
package promptweave

import (
	"context"
	"time"

	"github.com/promptweave/promptweave/core"
	"github.com/promptweave/promptweave/engine"
	"github.com/promptweave/promptweave/gateway"
	"github.com/promptweave/promptweave/logging"
	"github.com/promptweave/promptweave/plugin"
	"github.com/promptweave/promptweave/resource"
	"github.com/promptweave/promptweave/session"
)

// Options configures the PromptWeave instance.
type Options struct {
	// EngineConfig holds operational parameters (default model, sampling).
	EngineConfig engine.Config

	// Connectors populate the provider gateway's routing table.
	Connectors []gateway.Connector

	// GatewayTimeout bounds each provider call. Zero means unbounded.
	GatewayTimeout time.Duration

	// Stores (default to in-memory implementations if not provided)
	Resources     core.ResourceStore
	Conversations core.ConversationStore

	// Registry dispatches plugin tokens; defaults to the builtins.
	Registry *plugin.Registry

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// PromptWeave is the high-level façade aggregating the engine and services.
type PromptWeave struct {
	opts     Options
	registry *plugin.Registry
	engine   *engine.Engine
}

// New creates a new PromptWeave instance with optional overrides. Any unset
// service is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *PromptWeave {
	opts := Options{
		Resources:     resource.NewInMemoryStore(),
		Conversations: session.NewInMemoryStore(),
		Registry:      plugin.NewRegistry(),
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	gw := gateway.New(opts.Connectors, func(o *gateway.Options) {
		o.Timeout = opts.GatewayTimeout
		o.Logger = opts.Logger
	})

	eng := engine.New(func(o *engine.Options) {
		o.Config = opts.EngineConfig
		o.Resources = opts.Resources
		o.Conversations = opts.Conversations
		o.Registry = opts.Registry
		o.Gateway = gw
		o.Logger = opts.Logger
	})

	return &PromptWeave{opts: opts, registry: opts.Registry, engine: eng}
}

// RegisterPlugin binds a collaborator extension, e.g. a memory-search or
// workflow-invocation function, to a (namespace, operation) pair. Call during
// startup, before executions begin.
func (w *PromptWeave) RegisterPlugin(namespace, operation string, fn plugin.Func) error {
	return w.registry.Register(namespace, operation, fn)
}

// Execute runs one pattern execution to completion.
func (w *PromptWeave) Execute(ctx context.Context, req core.ExecutionRequest) (*core.ExecutionResult, error) {
	return w.engine.Execute(ctx, req)
}

// ExecuteStream runs one pattern execution, delivering provider text deltas
// to onChunk as they arrive.
func (w *PromptWeave) ExecuteStream(ctx context.Context, req core.ExecutionRequest, onChunk func(delta string)) (*core.ExecutionResult, error) {
	return w.engine.ExecuteStream(ctx, req, onChunk)
}

// Patterns lists the available pattern names.
func (w *PromptWeave) Patterns() ([]string, error) {
	return w.opts.Resources.List(core.KindPattern)
}

// Strategies lists the available strategy names.
func (w *PromptWeave) Strategies() ([]string, error) {
	return w.opts.Resources.List(core.KindStrategy)
}

// Contexts lists the available context names.
func (w *PromptWeave) Contexts() ([]string, error) {
	return w.opts.Resources.List(core.KindContext)
}
