package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from user-editable files or embed them
// in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name, falling back
	// to an embedded default when no user override exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptAnswerSystem is the system prompt for the hybrid answer. It
	// is the sole guardrail against hallucination and has no placeholders.
	PromptAnswerSystem = "answer_system"

	// PromptAnswerHuman frames the question and the two contexts.
	// Placeholders: %s question, %s vector context, %s graph context.
	PromptAnswerHuman = "answer_human"

	// PromptCypherGen asks the model for a graph query.
	// Placeholders: %s schema description, %s question.
	PromptCypherGen = "cypher_gen"

	// PromptGraphVerbalize turns raw query rows into prose.
	// Placeholders: %s question, %s rows.
	PromptGraphVerbalize = "graph_verbalize"
)
