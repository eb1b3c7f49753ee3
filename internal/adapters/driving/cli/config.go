package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// configKeys are the settable configuration keys, in display order.
var configKeys = []string{
	"embedding.provider",
	"embedding.model",
	"embedding.base_url",
	"embedding.api_key",
	"llm.provider",
	"llm.model",
	"llm.base_url",
	"llm.api_key",
	"chunker.chunk_size",
	"chunker.overlap",
	"retrieval.top_k",
	"retrieval.history_depth",
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change docqa configuration.

Keys:
  embedding.provider       embedding provider (ollama, openai, gemini)
  embedding.model          embedding model name
  embedding.base_url       endpoint for local providers
  embedding.api_key        API key for cloud providers
  llm.provider             LLM provider (ollama, openai, gemini)
  llm.model                LLM model name
  llm.base_url             endpoint for local providers
  llm.api_key              API key for cloud providers
  chunker.chunk_size       chunk window size in characters
  chunker.overlap          characters shared between consecutive chunks
  retrieval.top_k          default number of results per query
  retrieval.history_depth  past exchanges included in answers`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Sets a configuration value and persists it immediately.

Secret keys (embedding.api_key, llm.api_key) may be set without a value
argument; the key is then read from the terminal without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the full configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	value, ok := configValue(settings, key)
	if !ok {
		return unknownKeyError(key)
	}

	cmd.Println(value)
	return nil
}

//nolint:gocyclo // One case per key keeps the mapping obvious.
func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	var value string
	if len(args) > 1 {
		value = args[1]
	}

	if value == "" {
		if !isSecretKey(key) {
			return fmt.Errorf("value required for %s", key)
		}
		cmd.Printf("Enter value for %s: ", key)
		value = readPassword()
		cmd.Println()
		if value == "" {
			return errors.New("no value entered")
		}
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	switch key {
	case "embedding.provider":
		return setEmbeddingProvider(cmd, settings, value)
	case "embedding.model":
		if !settings.Embedding.Provider.IsValid() {
			return errors.New("set embedding.provider first")
		}
		err = settingsService.SetEmbeddingProvider(settings.Embedding.Provider, value, settings.Embedding.APIKey)
	case "embedding.base_url":
		settings.Embedding.BaseURL = value
		err = settingsService.Save(settings)
	case "embedding.api_key":
		if !settings.Embedding.Provider.IsValid() {
			return errors.New("set embedding.provider first")
		}
		err = settingsService.SetEmbeddingProvider(settings.Embedding.Provider, settings.Embedding.Model, value)
	case "llm.provider":
		return setLLMProvider(cmd, settings, value)
	case "llm.model":
		if !settings.LLM.Provider.IsValid() {
			return errors.New("set llm.provider first")
		}
		err = settingsService.SetLLMProvider(settings.LLM.Provider, value, settings.LLM.APIKey)
	case "llm.base_url":
		settings.LLM.BaseURL = value
		err = settingsService.Save(settings)
	case "llm.api_key":
		if !settings.LLM.Provider.IsValid() {
			return errors.New("set llm.provider first")
		}
		err = settingsService.SetLLMProvider(settings.LLM.Provider, settings.LLM.Model, value)
	case "chunker.chunk_size":
		size, convErr := strconv.Atoi(value)
		if convErr != nil {
			return fmt.Errorf("chunker.chunk_size must be an integer: %s", value)
		}
		err = settingsService.SetChunker(size, settings.Chunker.Overlap)
	case "chunker.overlap":
		overlap, convErr := strconv.Atoi(value)
		if convErr != nil {
			return fmt.Errorf("chunker.overlap must be an integer: %s", value)
		}
		err = settingsService.SetChunker(settings.Chunker.ChunkSize, overlap)
	case "retrieval.top_k":
		topK, convErr := strconv.Atoi(value)
		if convErr != nil {
			return fmt.Errorf("retrieval.top_k must be an integer: %s", value)
		}
		err = settingsService.SetTopK(topK)
	case "retrieval.history_depth":
		depth, convErr := strconv.Atoi(value)
		if convErr != nil || depth < 0 {
			return fmt.Errorf("retrieval.history_depth must be a non-negative integer: %s", value)
		}
		settings.Retrieval.HistoryDepth = depth
		err = settingsService.Save(settings)
	default:
		return unknownKeyError(key)
	}

	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

// setEmbeddingProvider switches the embedding provider, prompting for an
// API key when the provider needs one and none is stored.
func setEmbeddingProvider(cmd *cobra.Command, settings *domain.AppSettings, value string) error {
	provider := domain.AIProvider(value)
	if !provider.IsValid() {
		return fmt.Errorf("unknown provider %q (ollama, openai, gemini)", value)
	}

	apiKey := settings.Embedding.APIKey
	if provider.RequiresAPIKey() && apiKey == "" {
		cmd.Printf("Enter API key for %s: ", provider.Description())
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return fmt.Errorf("API key required for %s", provider)
		}
	}

	// Empty model: the service fills the provider's default.
	if err := settingsService.SetEmbeddingProvider(provider, "", apiKey); err != nil {
		return fmt.Errorf("failed to set embedding.provider: %w", err)
	}

	cmd.Printf("Embedding provider set to %s\n", provider.Description())
	return nil
}

// setLLMProvider switches the LLM provider, prompting for an API key
// when the provider needs one and none is stored.
func setLLMProvider(cmd *cobra.Command, settings *domain.AppSettings, value string) error {
	provider := domain.AIProvider(value)
	if !provider.IsValid() {
		return fmt.Errorf("unknown provider %q (ollama, openai, gemini)", value)
	}

	apiKey := settings.LLM.APIKey
	if provider.RequiresAPIKey() && apiKey == "" {
		cmd.Printf("Enter API key for %s: ", provider.Description())
		apiKey = readPassword()
		cmd.Println()
		if apiKey == "" {
			return fmt.Errorf("API key required for %s", provider)
		}
	}

	if err := settingsService.SetLLMProvider(provider, "", apiKey); err != nil {
		return fmt.Errorf("failed to set llm.provider: %w", err)
	}

	cmd.Printf("LLM provider set to %s\n", provider.Description())
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if outputJSON {
		return printJSON(cmd, maskedSettings(settings))
	}

	cmd.Printf("Configuration (%s)\n", settingsService.ConfigPath())
	cmd.Println()

	cmd.Println("[Embedding]")
	printProviderSettings(cmd, settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())

	cmd.Println("[LLM]")
	printProviderSettings(cmd, settings.LLM.Provider, settings.LLM.Model,
		settings.LLM.BaseURL, settings.LLM.APIKey, settings.LLM.IsConfigured())

	cmd.Println("[Chunker]")
	cmd.Printf("  Chunk size: %d\n", settings.Chunker.ChunkSize)
	cmd.Printf("  Overlap:    %d\n", settings.Chunker.Overlap)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top-k:         %d\n", settings.Retrieval.TopK)
	cmd.Printf("  History depth: %d\n", settings.Retrieval.HistoryDepth)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func printProviderSettings(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string, configured bool) {
	if !provider.IsValid() {
		cmd.Println("  Provider: (not set)")
		cmd.Println()
		return
	}

	cmd.Printf("  Provider: %s\n", provider.Description())
	cmd.Printf("  Model:    %s\n", model)
	if provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API key:  %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API key:  (not set)\n")
		}
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status:   %s\n", status)
	cmd.Println()
}

// configValue maps a key to its current value. Secrets come back masked.
func configValue(settings *domain.AppSettings, key string) (string, bool) {
	switch key {
	case "embedding.provider":
		return settings.Embedding.Provider.String(), true
	case "embedding.model":
		return settings.Embedding.Model, true
	case "embedding.base_url":
		return settings.Embedding.BaseURL, true
	case "embedding.api_key":
		return maskAPIKey(settings.Embedding.APIKey), true
	case "llm.provider":
		return settings.LLM.Provider.String(), true
	case "llm.model":
		return settings.LLM.Model, true
	case "llm.base_url":
		return settings.LLM.BaseURL, true
	case "llm.api_key":
		return maskAPIKey(settings.LLM.APIKey), true
	case "chunker.chunk_size":
		return strconv.Itoa(settings.Chunker.ChunkSize), true
	case "chunker.overlap":
		return strconv.Itoa(settings.Chunker.Overlap), true
	case "retrieval.top_k":
		return strconv.Itoa(settings.Retrieval.TopK), true
	case "retrieval.history_depth":
		return strconv.Itoa(settings.Retrieval.HistoryDepth), true
	default:
		return "", false
	}
}

// maskedSettings copies settings with API keys masked for display.
func maskedSettings(settings *domain.AppSettings) domain.AppSettings {
	masked := *settings
	masked.Embedding.APIKey = maskAPIKey(masked.Embedding.APIKey)
	masked.LLM.APIKey = maskAPIKey(masked.LLM.APIKey)
	return masked
}

func isSecretKey(key string) bool {
	return key == "embedding.api_key" || key == "llm.api_key"
}

func unknownKeyError(key string) error {
	return fmt.Errorf("unknown key %q (known keys: %s)", key, strings.Join(configKeys, ", "))
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
