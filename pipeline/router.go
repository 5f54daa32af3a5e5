package pipeline

import (
	"context"

	"github.com/finassist/finassist/agent"
	"github.com/finassist/finassist/logging"
)

// Router decides which domain agent should answer an in-scope message. It is
// purely a label producer; dispatch lives in the Pipeline.
type Router struct {
	agent  *agent.Agent
	logger logging.Logger
}

// RouterOptions configures optional Router behavior.
type RouterOptions struct {
	Logger logging.Logger
}

// NewRouter wraps a routing agent as the pipeline's intent router.
func NewRouter(a *agent.Agent, optFns ...func(o *RouterOptions)) *Router {
	opts := RouterOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Router{agent: a, logger: opts.Logger}
}

// Route maps a message onto a RouteDecision. Output besides the two known
// literals maps to RouteUnknown (logged); a model invocation failure is
// returned for the pipeline's fallback path.
func (r *Router) Route(ctx context.Context, message string) (RouteDecision, error) {
	out, err := r.agent.Run(ctx, message)
	if err != nil {
		return RouteUnknown, err
	}

	decision, perr := ParseRouteDecision(out)
	if perr != nil {
		r.logger.Warn("router.unexpected_output", "output", out)
	}

	r.logger.Debug("router.decision", "decision", decision.String())
	return decision, nil
}
