package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk,
// falling back to built-in defaults when a file is missing or the
// directory cannot be set up.
//
// All I/O is deferred to the first Load. The constructor never touches
// the filesystem, so wiring the store costs nothing in setups that
// never generate answers.
type PromptStore struct {
	promptDir string

	initOnce sync.Once
	initErr  error

	mu    sync.RWMutex
	cache map[string]string
}

// defaultPrompts seeds new prompt files and serves as the fallback
// when a file cannot be read.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptAnswerSystem: `You are a document question-answering assistant.
When a user asks a question:
1. Search for the answer within the provided document context.
2. If found:
   - Return the answer.
   - Mention the document name and the page number when one is given.
3. If not found:
   - Generate the best possible answer from your own knowledge.
   - Clearly mention: "The answer was not found in the documents. This response is AI-generated."
Be concise and ground every claim in the sources you cite.`,

	driven.PromptAnswer: `Context from documents:
%s

%sQuestion: %s

Answer:`,
}

// NewPromptStore creates a prompt store rooted at promptDir. An empty
// promptDir defaults to ~/.docqa/prompts.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	dir := promptDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".docqa", "prompts")
	}

	return &PromptStore{promptDir: dir, cache: make(map[string]string)}, nil
}

// Load returns the prompt template for name. The first call creates
// the prompt directory and seeds missing files with the defaults so
// the user has something to edit.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return s.fallback(name, fmt.Errorf("prompt store init failed: %w", s.initErr))
	}

	s.mu.RLock()
	prompt, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return s.fallback(name, fmt.Errorf("load prompt %q: %w", name, err))
	}
	prompt = strings.TrimSpace(string(data))

	// Concurrent misses read the same file, so last write wins
	// harmlessly.
	s.mu.Lock()
	s.cache[name] = prompt
	s.mu.Unlock()

	return prompt, nil
}

// fallback serves the built-in default, or the original failure when
// the name has no default either.
func (s *PromptStore) fallback(name string, cause error) (string, error) {
	if prompt, ok := defaultPrompts[name]; ok {
		return prompt, nil
	}
	return "", cause
}

// initialise creates the prompt directory and seeds the default prompt
// files plus a README describing the placeholders. Files the user has
// already written are left alone.
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	seed := map[string]string{"README.md": promptsReadme}
	for name, content := range defaultPrompts {
		seed[name+".txt"] = content
	}

	for file, content := range seed {
		path := filepath.Join(s.promptDir, file)
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			s.initErr = fmt.Errorf("seed %s: %w", file, err)
			return
		}
	}
}

const promptsReadme = `# docqa Prompts

This directory contains the prompts docqa uses when generating answers
from your documents. Edit any file to customise answer generation.

## Files

- ` + "`answer_system.txt`" + ` - System prompt framing the assistant's behaviour
- ` + "`answer.txt`" + ` - Template combining retrieved context, prior conversation, and the question

## Format Placeholders

` + "`answer.txt`" + ` uses Go fmt placeholders, in order:

1. ` + "`%s`" + ` - Retrieved document context
2. ` + "`%s`" + ` - Prior conversation (may be empty)
3. ` + "`%s`" + ` - The question

Keep the placeholders in these positions when editing.

Changes take effect on the next run. A running MCP server reads each
prompt once, so restart it after editing.
`
