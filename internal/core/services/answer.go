package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure AnswerService implements the interfaces.
var (
	_ driving.AnswerService   = (*AnswerService)(nil)
	_ driven.PromptStoreAware = (*AnswerService)(nil)
)

// answerPreviewRunes caps how much of a past answer is replayed in the
// conversation block of the prompt.
const answerPreviewRunes = 200

// notFoundNotice prefixes answers generated without any document context.
const notFoundNotice = "The answer was not found in the documents. This response is AI-generated."

// defaultAnswerSystemPrompt is the fallback system prompt when no
// PromptStore is configured.
const defaultAnswerSystemPrompt = `You are a document question-answering assistant.
When a user asks a question:
1. Search for the answer within the provided document context.
2. If found:
   - Return the answer.
   - Mention the document name and the page number when one is given.
3. If not found:
   - Generate the best possible answer from your own knowledge.
   - Clearly mention: "The answer was not found in the documents. This response is AI-generated."
Be concise and ground every claim in the sources you cite.`

// defaultAnswerPrompt is the fallback answer template when no PromptStore
// is configured. Placeholders: context, conversation (may be empty),
// question.
const defaultAnswerPrompt = `Context from documents:
%s

%sQuestion: %s

Answer:`

// AnswerService answers questions grounded on retrieved document chunks.
// The LLM is optional: without one, Ask returns sources only.
type AnswerService struct {
	retrieval    driving.RetrievalService
	llm          driven.LLMService
	promptStore  driven.PromptStore
	historyDepth int

	mu           sync.Mutex
	conversation *domain.Conversation
}

// NewAnswerService creates an answer service. llm may be nil, in which
// case Ask degrades to retrieval-only.
func NewAnswerService(
	retrieval driving.RetrievalService,
	llm driven.LLMService,
	historyDepth int,
) *AnswerService {
	if historyDepth <= 0 {
		historyDepth = domain.DefaultAppSettings().Retrieval.HistoryDepth
	}
	return &AnswerService{
		retrieval:    retrieval,
		llm:          llm,
		historyDepth: historyDepth,
		conversation: domain.NewConversation(historyDepth),
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses hardcoded default prompts.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ask retrieves contexts for the question and, when an LLM is configured,
// generates an answer grounded on them.
func (s *AnswerService) Ask(ctx context.Context, question string, opts driving.AskOptions) (*domain.Answer, error) {
	logger.Section("Ask")
	logger.Debug("Question: %q", question)

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	sources, err := s.retrieval.Retrieve(ctx, question, opts.TopK, opts.DocumentIDs)
	if err != nil {
		return nil, fmt.Errorf("retrieve contexts: %w", err)
	}
	logger.Debug("Retrieved %d contexts", len(sources))

	answer := &domain.Answer{
		Question:  question,
		Sources:   sources,
		CreatedAt: time.Now(),
	}

	if s.llm == nil {
		logger.Info("No LLM configured, returning sources only")
		return answer, nil
	}

	history := ""
	if opts.WithHistory {
		history = s.formatHistory()
	}

	text, err := s.generate(ctx, question, sources, history)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	answer.Text = text
	answer.Model = s.llm.ModelName()

	// Only grounded exchanges join the conversation; a no-context
	// fallback would replay its own warning into later prompts.
	if len(sources) > 0 {
		s.mu.Lock()
		s.conversation.Add(domain.Exchange{
			Question: question,
			Answer:   text,
			AskedAt:  answer.CreatedAt,
		})
		s.mu.Unlock()
	}

	return answer, nil
}

// History returns the retained conversation exchanges, oldest first.
func (s *AnswerService) History() []domain.Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversation.Recent(s.conversation.Len())
}

// ClearHistory discards the conversation.
func (s *AnswerService) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversation.Clear()
}

// generate calls the LLM with the retrieved contexts. Without any context
// the answer is generated from model knowledge and prefixed with a notice.
func (s *AnswerService) generate(
	ctx context.Context, question string, sources []domain.SearchResult, history string,
) (string, error) {
	systemPrompt := s.loadPrompt(driven.PromptAnswerSystem, defaultAnswerSystemPrompt)
	template := s.loadPrompt(driven.PromptAnswer, defaultAnswerPrompt)
	prompt := fmt.Sprintf(template, formatContext(sources), history, question)

	messages := []driven.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	}

	logger.Debug("Calling %s with %d context blocks", s.llm.ModelName(), len(sources))
	text, err := s.llm.Chat(ctx, messages, driven.ChatOptions{})
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)

	if len(sources) == 0 && !strings.Contains(text, notFoundNotice) {
		text = notFoundNotice + "\n\n" + text
	}
	return text, nil
}

// loadPrompt loads a prompt from the store, falling back to the default
// if unavailable.
func (s *AnswerService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// formatContext renders retrieved chunks as numbered source blocks.
func formatContext(sources []domain.SearchResult) string {
	if len(sources) == 0 {
		return "No relevant context was found in the stored documents."
	}

	var parts []string
	for i, src := range sources {
		if src.PageNumber > 0 {
			parts = append(parts, fmt.Sprintf("Source %d (from %s, page %d):", i+1, src.DocumentName, src.PageNumber))
		} else {
			parts = append(parts, fmt.Sprintf("Source %d (from %s):", i+1, src.DocumentName))
		}
		parts = append(parts, src.ChunkText)
		parts = append(parts, "")
	}
	return strings.Join(parts, "\n")
}

// formatHistory renders recent exchanges for the conversation block.
// Past answers are truncated so the prompt stays bounded.
func (s *AnswerService) formatHistory() string {
	s.mu.Lock()
	exchanges := s.conversation.Recent(s.historyDepth)
	s.mu.Unlock()

	if len(exchanges) == 0 {
		return ""
	}

	parts := []string{"Previous conversation:"}
	for _, ex := range exchanges {
		answer := ex.Answer
		if runes := []rune(answer); len(runes) > answerPreviewRunes {
			answer = string(runes[:answerPreviewRunes])
		}
		parts = append(parts, "Q: "+ex.Question)
		parts = append(parts, "A: "+answer+"...")
		parts = append(parts, "")
	}
	return strings.Join(parts, "\n") + "\n"
}
