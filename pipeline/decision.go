package pipeline

import (
	"fmt"
	"strings"
)

// Literal tokens the classifier agents are instructed to emit. Parsing is
// exact (case-sensitive) after whitespace trimming; anything else is a
// classifier output error, never a third state.
const (
	guardrailAcceptToken = "ROUTE"
	guardrailRejectToken = "REJECT"
	routeDataToken       = "DB"
	routeFinanceToken    = "FINANCE"
)

// GuardrailDecision labels a message as inside or outside the assistant's domain.
type GuardrailDecision int

const (
	// GuardrailOutOfScope rejects the message; the general fallback agent answers.
	GuardrailOutOfScope GuardrailDecision = iota
	// GuardrailInScope admits the message to routing.
	GuardrailInScope
)

// String returns the decision name for logs.
func (d GuardrailDecision) String() string {
	if d == GuardrailInScope {
		return "IN_SCOPE"
	}
	return "OUT_OF_SCOPE"
}

// RouteDecision names the downstream agent that should answer an in-scope message.
type RouteDecision int

const (
	// RouteUnknown is the safe default for any unrecognized router output.
	// It never silently falls through to the wrong agent.
	RouteUnknown RouteDecision = iota
	// RouteDataLookup dispatches to the user data agent.
	RouteDataLookup
	// RouteFinanceGeneral dispatches to the general finance agent.
	RouteFinanceGeneral
)

// String returns the route name for logs.
func (d RouteDecision) String() string {
	switch d {
	case RouteDataLookup:
		return "DATA_LOOKUP"
	case RouteFinanceGeneral:
		return "FINANCE_GENERAL"
	default:
		return "UNKNOWN"
	}
}

// ClassifierOutputError reports that a classifier agent emitted something
// other than its expected literal tokens. It is handled by policy (safe
// default), never propagated as a hard failure.
type ClassifierOutputError struct {
	Stage  string
	Output string
}

func (e *ClassifierOutputError) Error() string {
	return fmt.Sprintf("%s classifier produced unexpected output: %q", e.Stage, e.Output)
}

// ParseGuardrailDecision maps raw classifier output onto a GuardrailDecision.
// Unrecognized output returns OUT_OF_SCOPE together with a
// *ClassifierOutputError so callers can log the anomaly while applying the
// conservative default.
func ParseGuardrailDecision(raw string) (GuardrailDecision, error) {
	switch strings.TrimSpace(raw) {
	case guardrailAcceptToken:
		return GuardrailInScope, nil
	case guardrailRejectToken:
		return GuardrailOutOfScope, nil
	default:
		return GuardrailOutOfScope, &ClassifierOutputError{Stage: "guardrail", Output: raw}
	}
}

// ParseRouteDecision maps raw router output onto a RouteDecision.
// Unrecognized output returns RouteUnknown together with a
// *ClassifierOutputError for logging.
func ParseRouteDecision(raw string) (RouteDecision, error) {
	switch strings.TrimSpace(raw) {
	case routeDataToken:
		return RouteDataLookup, nil
	case routeFinanceToken:
		return RouteFinanceGeneral, nil
	default:
		return RouteUnknown, &ClassifierOutputError{Stage: "router", Output: raw}
	}
}
