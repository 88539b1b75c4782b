package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/promptweave/promptweave/core"
	"github.com/promptweave/promptweave/gateway"
	"github.com/promptweave/promptweave/logging"
	"github.com/promptweave/promptweave/plugin"
	"github.com/promptweave/promptweave/resource"
	"github.com/promptweave/promptweave/session"
	"github.com/promptweave/promptweave/template"
)

// Config defines tuning parameters for the engine's behavior.
type Config struct {
	// DefaultModel is used when a request does not name a model.
	DefaultModel string

	// Temperature is forwarded to the gateway when set.
	Temperature *float64

	// MaxOutputTokens is forwarded to the gateway when set.
	MaxOutputTokens *int64
}

// Options configures an Engine instance using the functional options pattern.
// All services have in-memory defaults suitable for development and testing.
type Options struct {
	// Config contains operational parameters for the engine behavior.
	Config Config

	// Resources serves pattern/strategy/context lookups.
	// Defaults to an empty in-memory store if not provided.
	Resources core.ResourceStore

	// Conversations persists session message logs.
	// Defaults to an in-memory store if not provided.
	Conversations core.ConversationStore

	// Registry dispatches {{plugin:...}} tokens.
	// Defaults to a registry holding only the builtins.
	Registry *plugin.Registry

	// Gateway routes model names to backend connectors.
	// Defaults to an empty gateway (every model is unknown).
	Gateway *gateway.Gateway

	// Logger provides structured logging. Defaults to NoOp if nil.
	Logger logging.Logger
}

// Engine orchestrates pattern executions. Public methods are safe for
// concurrent use; executions against the same session are serialized.
type Engine struct {
	cfg           Config
	resources     core.ResourceStore
	conversations core.ConversationStore
	resolver      *template.Resolver
	gateway       *gateway.Gateway
	logger        logging.Logger
	locks         *sessionLocks
}

// New creates an Engine with optional overrides. Any unset service is
// initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Resources:     resource.NewInMemoryStore(),
		Conversations: session.NewInMemoryStore(),
		Registry:      plugin.NewRegistry(),
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Gateway == nil {
		opts.Gateway = gateway.New(nil)
	}

	return &Engine{
		cfg:           opts.Config,
		resources:     opts.Resources,
		conversations: opts.Conversations,
		resolver:      template.NewResolver(opts.Registry),
		gateway:       opts.Gateway,
		logger:        opts.Logger,
		locks:         newSessionLocks(),
	}
}

// Execute runs one pattern execution to completion and returns the updated
// session snapshot together with the provider response.
func (e *Engine) Execute(ctx context.Context, req core.ExecutionRequest) (*core.ExecutionResult, error) {
	return e.execute(ctx, req, nil)
}

// ExecuteStream behaves like Execute but delivers provider text deltas to
// onChunk as they arrive. The session is updated only after the stream has
// fully drained; a cancellation mid-stream persists nothing.
func (e *Engine) ExecuteStream(ctx context.Context, req core.ExecutionRequest, onChunk func(delta string)) (*core.ExecutionResult, error) {
	return e.execute(ctx, req, onChunk)
}

func (e *Engine) execute(ctx context.Context, req core.ExecutionRequest, onChunk func(delta string)) (*core.ExecutionResult, error) {
	start := time.Now()
	model := req.Model
	if model == "" {
		model = e.cfg.DefaultModel
	}
	if req.PatternName == "" {
		return nil, fmt.Errorf("execution request requires a pattern name")
	}

	// Phase 1: load resources. Nothing below touches the conversation store
	// until every lookup and resolution has succeeded.
	pattern, err := e.resources.Get(core.KindPattern, req.PatternName)
	if err != nil {
		return nil, err
	}
	var strategy, contextRes *core.Resource
	if req.StrategyName != "" {
		if strategy, err = e.resources.Get(core.KindStrategy, req.StrategyName); err != nil {
			return nil, err
		}
	}
	if req.ContextName != "" {
		if contextRes, err = e.resources.Get(core.KindContext, req.ContextName); err != nil {
			return nil, err
		}
	}

	// Phase 2: assemble the prompt. Strategy and context bodies run through
	// the same resolver as the pattern, and the variable read log tells us
	// whether the pattern consumed the caller input.
	vars := template.NewVariables(req.InputVariables)
	vars.Set(template.InputVariable, req.Input)

	assembled, err := e.assemble(pattern, strategy, contextRes, vars)
	if err != nil {
		return nil, err
	}
	inputConsumed := vars.Used(template.InputVariable)

	newSystem, newUser := buildTurn(assembled, req, inputConsumed)

	// Phase 3: invoke the provider under the session lock so concurrent
	// executions against the same session cannot interleave appends.
	if req.SessionID != "" {
		release := e.locks.acquire(req.SessionID)
		defer release()
	}

	sess, err := e.conversations.LoadOrCreate(ctx, req.SessionID)
	if err != nil {
		return nil, &core.PersistenceError{SessionID: req.SessionID, Err: err}
	}
	messages := sess.History()
	if newSystem != nil {
		messages = append(messages, *newSystem)
	}
	if newUser != nil {
		messages = append(messages, *newUser)
	}

	gwReq := gateway.Request{
		Model:           model,
		Messages:        messages,
		Temperature:     e.cfg.Temperature,
		MaxOutputTokens: e.cfg.MaxOutputTokens,
	}
	var result *gateway.SendResult
	if onChunk != nil {
		result, err = e.gateway.SendStream(ctx, gwReq, onChunk)
	} else {
		result, err = e.gateway.Send(ctx, gwReq)
	}
	if err != nil {
		e.logger.Error("execution failed",
			"pattern", req.PatternName, "model", model,
			"session_id", sess.ID, "duration", time.Since(start), "error", err)
		return nil, err
	}

	// Phase 4: persist the turn in one atomic append.
	turn := make([]core.Message, 0, 2)
	if newUser != nil {
		turn = append(turn, *newUser)
	}
	turn = append(turn, core.NewMessage(core.RoleAssistant, result.Text))

	if err := e.conversations.Append(ctx, sess.ID, turn...); err != nil {
		return nil, &core.PersistenceError{SessionID: sess.ID, Err: err}
	}
	sess.Append(turn...)

	e.logger.Info("execution completed",
		"pattern", req.PatternName, "model", model,
		"session_id", sess.ID, "messages", len(messages), "duration", time.Since(start))

	return &core.ExecutionResult{
		Session:      sess,
		ResponseText: result.Text,
		RawPayload:   result.Raw,
	}, nil
}

// assembledPrompt carries the resolved instruction sources in assembly order.
type assembledPrompt struct {
	strategy string
	context  string
	pattern  string
}

// assemble resolves the three instruction sources against vars.
func (e *Engine) assemble(pattern, strategy, contextRes *core.Resource, vars *template.Variables) (*assembledPrompt, error) {
	var out assembledPrompt
	var err error
	if strategy != nil {
		if out.strategy, err = e.resolver.Resolve(strategy.Body, vars); err != nil {
			return nil, err
		}
	}
	if contextRes != nil {
		if out.context, err = e.resolver.Resolve(contextRes.Body, vars); err != nil {
			return nil, err
		}
	}
	if out.pattern, err = e.resolver.Resolve(pattern.Body, vars); err != nil {
		return nil, err
	}
	return &out, nil
}

// systemText concatenates the non-empty sources in fixed order:
// strategy, then context, then pattern.
func (p *assembledPrompt) systemText() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{p.strategy, p.context, p.pattern} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "\n")
}

// buildTurn derives the messages this execution contributes. In raw mode the
// instructions and any unconsumed input fold into a single user message for
// backends that ignore system roles. Otherwise a system message carries the
// instructions and a separate user message carries the input, unless the
// pattern already consumed it.
func buildTurn(assembled *assembledPrompt, req core.ExecutionRequest, inputConsumed bool) (newSystem, newUser *core.Message) {
	if req.RawMode {
		content := assembled.systemText()
		if !inputConsumed && req.Input != "" {
			if content != "" {
				content += "\n"
			}
			content += req.Input
		}
		user := core.NewMessage(core.RoleUser, content)
		return nil, &user
	}

	system := core.NewMessage(core.RoleSystem, assembled.systemText())
	newSystem = &system
	if !inputConsumed && req.Input != "" {
		user := core.NewMessage(core.RoleUser, req.Input)
		newUser = &user
	}
	return newSystem, newUser
}
