// Package pipeline implements the chat orchestration core: guardrail
// classification, intent routing, dispatch to a domain agent and trace
// accumulation. Every request terminates in a ChatResponse; no error ever
// reaches the caller raw.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/finassist/finassist/agent"
	"github.com/finassist/finassist/internal/util"
	"github.com/finassist/finassist/logging"
)

// Trace stage labels. Guardrail and orchestrator stages carry fixed labels;
// dispatched stages are labeled with the chosen agent's name.
const (
	TraceInputGuardrail = "InputGuardrail"
	TraceOrchestrator   = "Orchestrator"
)

// Fixed user-visible replies for the two non-agent terminal paths.
const (
	// FallbackReply is returned when any agent invocation fails. The trace
	// accumulated up to the failure point is preserved.
	FallbackReply = "Oops! Something went wrong."
	// UnknownRouteReply is returned when the router cannot place a message
	// with either domain agent. No agent is invoked on this path.
	UnknownRouteReply = "Sorry, I couldn't work out which assistant should handle that. Try rephrasing your question."
)

// ChatRequest is one inbound message plus the caller's identity. It is
// consumed once and never persisted by the pipeline.
type ChatRequest struct {
	Message      string `json:"message"`
	UserIdentity string `json:"user_identity"`
}

// ChatResponse is the reply paired with the ordered trace of pipeline stages
// traversed. Trace length is always at least one and its last element names
// the agent (or fallback path) that produced the reply.
type ChatResponse struct {
	Reply string   `json:"reply"`
	Trace []string `json:"trace"`
}

// identityInput is the JSON payload handed to the data lookup agent.
type identityInput struct {
	Email string `json:"email"`
}

// Options configures optional Pipeline behavior.
type Options struct {
	// InvokeTimeout bounds each individual agent invocation. Zero disables
	// the per-stage bound (the model layer may still impose its own).
	InvokeTimeout time.Duration
	// Logger receives per-request decision logs.
	Logger logging.Logger
}

// Pipeline coordinates one chat request through guardrail, routing and
// dispatch. It holds only immutable configuration and injected collaborators,
// so a single Pipeline serves concurrent requests.
type Pipeline struct {
	guardrail     *Guardrail
	router        *Router
	registry      *Registry
	general       *agent.Agent
	invokeTimeout time.Duration
	logger        logging.Logger
}

// New constructs a Pipeline from its four collaborators.
func New(
	guardrail *Guardrail,
	router *Router,
	registry *Registry,
	general *agent.Agent,
	optFns ...func(o *Options),
) *Pipeline {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Pipeline{
		guardrail:     guardrail,
		router:        router,
		registry:      registry,
		general:       general,
		invokeTimeout: opts.InvokeTimeout,
		logger:        opts.Logger,
	}
}

// Handle runs one request to completion. It always returns a ChatResponse:
// any unhandled invocation failure is converted to the fixed fallback reply
// paired with the trace accumulated up to the failure point.
func (p *Pipeline) Handle(ctx context.Context, req ChatRequest) ChatResponse {
	runID := util.NewID()
	trace := make([]string, 0, 3)

	reply, err := p.handle(ctx, req, &trace)
	if err != nil {
		p.logger.Error("pipeline.failed", "run_id", runID, "trace", trace, "error", err.Error())
		return ChatResponse{Reply: FallbackReply, Trace: trace}
	}

	p.logger.Info("pipeline.done", "run_id", runID, "trace", trace)
	return ChatResponse{Reply: reply, Trace: trace}
}

// handle walks the stage machine, appending one trace entry per stage
// entered. It returns an error only for agent invocation failures; decision
// anomalies are absorbed by the documented safe defaults.
func (p *Pipeline) handle(ctx context.Context, req ChatRequest, trace *[]string) (string, error) {
	*trace = append(*trace, TraceInputGuardrail)
	decision, err := p.classify(ctx, req.Message)
	if err != nil {
		return "", err
	}

	if decision == GuardrailOutOfScope {
		*trace = append(*trace, p.general.Name())
		return p.invoke(ctx, p.general, req.Message)
	}

	*trace = append(*trace, TraceOrchestrator)
	route, err := p.route(ctx, req.Message)
	if err != nil {
		return "", err
	}

	target, ok := p.registry.Resolve(route)
	if !ok {
		return UnknownRouteReply, nil
	}

	*trace = append(*trace, target.Agent.Name())

	input := req.Message
	if target.NeedsIdentity {
		payload, err := json.Marshal(identityInput{Email: req.UserIdentity})
		if err != nil {
			return "", fmt.Errorf("encoding identity payload: %w", err)
		}
		input = string(payload)
	}

	return p.invoke(ctx, target.Agent, input)
}

func (p *Pipeline) classify(ctx context.Context, message string) (GuardrailDecision, error) {
	ctx, cancel := p.stageContext(ctx)
	defer cancel()
	return p.guardrail.Classify(ctx, message)
}

func (p *Pipeline) route(ctx context.Context, message string) (RouteDecision, error) {
	ctx, cancel := p.stageContext(ctx)
	defer cancel()
	return p.router.Route(ctx, message)
}

func (p *Pipeline) invoke(ctx context.Context, a *agent.Agent, input string) (string, error) {
	ctx, cancel := p.stageContext(ctx)
	defer cancel()
	return a.Run(ctx, input)
}

func (p *Pipeline) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.invokeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.invokeTimeout)
}
