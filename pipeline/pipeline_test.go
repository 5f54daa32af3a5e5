package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finassist/finassist/agent"
	"github.com/finassist/finassist/model"
)

// newTestPipeline wires a pipeline whose agents all share one scripted mock
// model, mirroring the production wiring.
func newTestPipeline(llm model.Model) *Pipeline {
	guardrailAgent := agent.New("InputGuardrail", "classify", llm)
	orchestratorAgent := agent.New("OrchestratorAgent", "route", llm)
	dataAgent := agent.New("DBAgent", "lookup", llm)
	financeAgent := agent.New("FinanceAgent", "finance", llm)
	generalAgent := agent.New("GeneralAgent", "general", llm)

	return New(
		NewGuardrail(guardrailAgent),
		NewRouter(orchestratorAgent),
		NewRegistry(dataAgent, financeAgent),
		generalAgent,
	)
}

func text(s string) *model.Response {
	return &model.Response{Text: s, FinishReason: "stop"}
}

func TestPipelineFinanceRoute(t *testing.T) {
	llm := model.NewMockModel("m", "mock")
	llm.Enqueue(text("ROUTE"), text("FINANCE"), text("Compound interest is interest on interest."))

	p := newTestPipeline(llm)
	resp := p.Handle(context.Background(), ChatRequest{Message: "What is compound interest?"})

	assert.Equal(t, "Compound interest is interest on interest.", resp.Reply)
	assert.Equal(t, []string{"InputGuardrail", "Orchestrator", "FinanceAgent"}, resp.Trace)

	// The finance agent receives the raw original message verbatim.
	reqs := llm.Requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, "What is compound interest?", reqs[2].Messages[0].Text)
}

func TestPipelineDataRouteCarriesIdentity(t *testing.T) {
	llm := model.NewMockModel("m", "mock")
	llm.Enqueue(text("ROUTE"), text("DB"), text("Your profile says: Alice."))

	p := newTestPipeline(llm)
	resp := p.Handle(context.Background(), ChatRequest{
		Message:      "What's my account balance?",
		UserIdentity: "alice@example.com",
	})

	assert.Equal(t, "Your profile says: Alice.", resp.Reply)
	assert.Equal(t, []string{"InputGuardrail", "Orchestrator", "DBAgent"}, resp.Trace)

	// The data agent is fed a JSON object carrying the caller identity,
	// never the raw message.
	reqs := llm.Requests()
	require.Len(t, reqs, 3)
	assert.JSONEq(t, `{"email":"alice@example.com"}`, reqs[2].Messages[0].Text)
}

func TestPipelineOutOfScope(t *testing.T) {
	llm := model.NewMockModel("m", "mock")
	llm.Enqueue(text("REJECT"), text("Here's a joke instead."))

	p := newTestPipeline(llm)
	resp := p.Handle(context.Background(), ChatRequest{Message: "Tell me a joke"})

	// The fallback agent answers with its own output, not a refusal string.
	assert.Equal(t, "Here's a joke instead.", resp.Reply)
	assert.Equal(t, []string{"InputGuardrail", "GeneralAgent"}, resp.Trace)

	// The fallback agent receives the original message.
	reqs := llm.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "Tell me a joke", reqs[1].Messages[0].Text)
}

func TestPipelineUnknownRoute(t *testing.T) {
	llm := model.NewMockModel("m", "mock")
	llm.Enqueue(text("ROUTE"), text("SHRUG"))

	p := newTestPipeline(llm)
	resp := p.Handle(context.Background(), ChatRequest{Message: "Do something odd"})

	// Fixed diagnostic, no domain agent invoked, trace ends at the orchestrator.
	assert.Equal(t, UnknownRouteReply, resp.Reply)
	assert.Equal(t, []string{"InputGuardrail", "Orchestrator"}, resp.Trace)
	assert.Len(t, llm.Requests(), 2)
}

func TestPipelineGuardrailGarbageRejects(t *testing.T) {
	llm := model.NewMockModel("m", "mock")
	llm.Enqueue(text("I think this is about finance"), text("General answer."))

	p := newTestPipeline(llm)
	resp := p.Handle(context.Background(), ChatRequest{Message: "hmm"})

	// Unparseable classifier output applies the reject-by-default policy.
	assert.Equal(t, []string{"InputGuardrail", "GeneralAgent"}, resp.Trace)
	assert.Equal(t, "General answer.", resp.Reply)
}

func TestPipelineGuardrailFailure(t *testing.T) {
	llm := model.NewMockModel("m", "mock")
	llm.FailWith(errors.New("provider down"))

	p := newTestPipeline(llm)
	resp := p.Handle(context.Background(), ChatRequest{Message: "hello"})

	assert.Equal(t, FallbackReply, resp.Reply)
	assert.Equal(t, []string{"InputGuardrail"}, resp.Trace)
}

func TestPipelineDispatchedAgentFailurePreservesTrace(t *testing.T) {
	scripted := model.NewMockModel("m", "mock")
	scripted.Enqueue(text("ROUTE"), text("FINANCE"))

	// Guardrail and router succeed; the dispatched agent's model call fails.
	p := newTestPipeline(failingAfter(scripted, 2))
	resp := p.Handle(context.Background(), ChatRequest{Message: "What is inflation?"})

	assert.Equal(t, FallbackReply, resp.Reply)
	assert.Equal(t, []string{"InputGuardrail", "Orchestrator", "FinanceAgent"}, resp.Trace)
}

func TestPipelineIdempotentUnderDeterministicModel(t *testing.T) {
	run := func() ChatResponse {
		llm := model.NewMockModel("m", "mock")
		llm.Enqueue(text("ROUTE"), text("FINANCE"), text("Same answer."))
		return newTestPipeline(llm).Handle(context.Background(), ChatRequest{
			Message:      "What is inflation?",
			UserIdentity: "alice@example.com",
		})
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

// failingAfter delegates n calls to the wrapped model then fails every
// subsequent call.
type failureAfterModel struct {
	next      model.Model
	remaining int
}

func failingAfter(next model.Model, n int) model.Model {
	return &failureAfterModel{next: next, remaining: n}
}

func (m *failureAfterModel) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	if m.remaining <= 0 {
		return nil, errors.New("provider down")
	}
	m.remaining--
	return m.next.Generate(ctx, req)
}

func (m *failureAfterModel) Info() model.Info { return m.next.Info() }
