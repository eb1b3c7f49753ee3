package driven

// PromptStore supplies LLM prompt templates by name. Implementations
// may read user-editable files or serve built-in defaults; for the
// well-known names below they should prefer falling back to a default
// over failing on a missing file.
type PromptStore interface {
	Load(name string) (string, error)
}

// Well-known prompt names. They define the contract between prompt
// consumers and providers.
const (
	// PromptAnswerSystem frames the assistant's behaviour. It has no
	// format placeholders.
	PromptAnswerSystem = "answer_system"

	// PromptAnswer builds the grounded answer request. The template
	// expects three %s placeholders: retrieved context, prior
	// conversation (may be empty), and the question.
	PromptAnswer = "answer"
)

// PromptStoreAware marks services whose templates can be customised by
// injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store. Without one the service
	// uses hardcoded defaults.
	SetPromptStore(store PromptStore)
}
