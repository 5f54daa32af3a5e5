package pipeline

import "github.com/finassist/finassist/agent"

// Target is one registry entry: the agent that answers a route and whether it
// is fed the caller's identity instead of the raw message.
type Target struct {
	Agent *agent.Agent
	// NeedsIdentity marks the data lookup agent, which receives a JSON
	// object carrying the caller's email rather than the message text.
	NeedsIdentity bool
}

// Registry is the fixed, read-only mapping from route decisions to domain
// agents. Resolution is total: every RouteDecision value has a defined
// outcome, with RouteUnknown resolving to "no agent" rather than falling
// through to the wrong one.
type Registry struct {
	dataLookup     Target
	financeGeneral Target
}

// NewRegistry builds the registry from the two domain agents.
func NewRegistry(dataAgent, financeAgent *agent.Agent) *Registry {
	return &Registry{
		dataLookup:     Target{Agent: dataAgent, NeedsIdentity: true},
		financeGeneral: Target{Agent: financeAgent},
	}
}

// Resolve returns the target for a route. ok is false only for RouteUnknown,
// which has no agent and yields a diagnostic reply instead.
func (r *Registry) Resolve(route RouteDecision) (Target, bool) {
	switch route {
	case RouteDataLookup:
		return r.dataLookup, true
	case RouteFinanceGeneral:
		return r.financeGeneral, true
	default:
		return Target{}, false
	}
}
