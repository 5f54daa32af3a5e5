// Package finassist provides a high-level façade that wires the finance chat
// agents (input guardrail, orchestrator, data lookup, finance, general
// fallback) into a ready-to-use orchestration pipeline. Most applications
// interact with this package by:
//  1. Constructing a model.Model (openai, anthropic or mock)
//  2. Constructing a store.Store (sqlite or in-memory)
//  3. Calling New() and serving pipeline.Handle behind a transport
package finassist

import (
	"time"

	"github.com/finassist/finassist/agent"
	"github.com/finassist/finassist/logging"
	"github.com/finassist/finassist/model"
	"github.com/finassist/finassist/pipeline"
	"github.com/finassist/finassist/store"
	"github.com/finassist/finassist/tool"
)

// Agent names. The pipeline surfaces them verbatim as trace labels.
const (
	GuardrailAgentName    = "InputGuardrail"
	OrchestratorAgentName = "OrchestratorAgent"
	DataAgentName         = "DBAgent"
	FinanceAgentName      = "FinanceAgent"
	GeneralAgentName      = "GeneralAgent"
)

const guardrailInstructions = `You are a classifier. Your job is to decide if a user's message is related to finance, banking, personal accounts, or user-specific financial data.

Respond ONLY with:
- "ROUTE" if it's finance-related
- "REJECT" if it's not
Do not include any other words or punctuation.`

const orchestratorInstructions = `You are an orchestrator agent. Given a user's question, your job is to decide which agent should handle the response.

Respond ONLY with:
- "DB" for user-specific questions that require accessing personal data (like balance or profile)
- "FINANCE" for general finance questions (like definitions, concepts, etc.)

Examples:
- "What is compound interest?" -> FINANCE
- "What's my account balance?" -> DB
- "How do savings accounts work?" -> FINANCE
- "Show me my profile." -> DB

Respond with only "DB" or "FINANCE" and nothing else.`

const dataAgentInstructions = `You help with user-specific information from our database. Use the get_user_profile tool to retrieve data.
Never make up information. Always call get_user_profile.`

const financeAgentInstructions = `You are a helpful financial assistant. Answer general questions about finance clearly and concisely.
Do not make up personal information. Avoid giving legal or investment advice.
Only handle general knowledge questions like "What is inflation?" or "How do credit cards work?"`

const generalAgentInstructions = `You are a helpful general-purpose assistant. Answer user questions clearly and respectfully.
Avoid giving financial, legal, or medical advice.`

// Options configures the assembled pipeline.
type Options struct {
	// InvokeTimeout bounds each agent invocation inside the pipeline.
	InvokeTimeout time.Duration
	// MaxToolRounds bounds tool round trips per data agent run.
	MaxToolRounds int
	// Logger is shared by the pipeline and its agents.
	Logger logging.Logger
}

// New wires the five agents and the user store into a chat pipeline. All
// agents share the supplied model; configuration is immutable afterwards and
// the returned pipeline is safe for concurrent use.
func New(llm model.Model, users store.Store, optFns ...func(o *Options)) *pipeline.Pipeline {
	opts := Options{
		InvokeTimeout: 30 * time.Second,
		MaxToolRounds: 5,
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	profileTool := tool.NewUserProfileTool(users, func(o *tool.FunctionToolOptions) {
		o.Logger = opts.Logger
	})

	withLogger := func(o *agent.Options) { o.Logger = opts.Logger }

	guardrailAgent := agent.New(GuardrailAgentName, guardrailInstructions, llm, withLogger)
	orchestratorAgent := agent.New(OrchestratorAgentName, orchestratorInstructions, llm, withLogger)
	dataAgent := agent.New(DataAgentName, dataAgentInstructions, llm, func(o *agent.Options) {
		o.Tools = []tool.Tool{profileTool}
		o.MaxToolRounds = opts.MaxToolRounds
		o.Logger = opts.Logger
	})
	financeAgent := agent.New(FinanceAgentName, financeAgentInstructions, llm, withLogger)
	generalAgent := agent.New(GeneralAgentName, generalAgentInstructions, llm, withLogger)

	guardrail := pipeline.NewGuardrail(guardrailAgent, func(o *pipeline.GuardrailOptions) {
		o.Logger = opts.Logger
	})
	router := pipeline.NewRouter(orchestratorAgent, func(o *pipeline.RouterOptions) {
		o.Logger = opts.Logger
	})
	registry := pipeline.NewRegistry(dataAgent, financeAgent)

	return pipeline.New(guardrail, router, registry, generalAgent, func(o *pipeline.Options) {
		o.InvokeTimeout = opts.InvokeTimeout
		o.Logger = opts.Logger
	})
}
