package pipeline

import (
	"context"

	"github.com/finassist/finassist/agent"
	"github.com/finassist/finassist/logging"
)

// Guardrail gates incoming messages on domain scope. It invokes a classifier
// agent constrained to emit one of two literal tokens and applies the
// documented reject-by-default policy when the model strays from them.
type Guardrail struct {
	agent  *agent.Agent
	logger logging.Logger
}

// GuardrailOptions configures optional Guardrail behavior.
type GuardrailOptions struct {
	Logger logging.Logger
}

// NewGuardrail wraps a classifier agent as the pipeline's input gate.
func NewGuardrail(a *agent.Agent, optFns ...func(o *GuardrailOptions)) *Guardrail {
	opts := GuardrailOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Guardrail{agent: a, logger: opts.Logger}
}

// Classify labels a message as in scope or out of scope. A model invocation
// failure is returned as-is for the pipeline's fallback path; unparseable
// classifier output is logged and treated as out of scope so the pipeline
// always reaches a terminal state.
func (g *Guardrail) Classify(ctx context.Context, message string) (GuardrailDecision, error) {
	out, err := g.agent.Run(ctx, message)
	if err != nil {
		return GuardrailOutOfScope, err
	}

	decision, perr := ParseGuardrailDecision(out)
	if perr != nil {
		// Reject-by-default policy: see ClassifierOutputError.
		g.logger.Warn("guardrail.unexpected_output", "output", out)
	}

	g.logger.Debug("guardrail.decision", "decision", decision.String())
	return decision, nil
}
