package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/luowen/postpilot/internal/config"
	"github.com/luowen/postpilot/internal/models"
	"github.com/luowen/postpilot/pkg/logger"
	"github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
	"gorm.io/gorm"
)

// Markdown emphasis markers that LLMs like to decorate copy with. Social
// platforms render them literally, so they must come out.
var emphasisRegex = regexp.MustCompile(`[*_]{1,3}([^*_]+)[*_]{1,3}`)

// CopyService rewrites a catalog item's original text in the account's
// voice. Provider selection walks the configured LLMs in order and falls
// back to the next on failure.
type CopyService struct {
	db     *gorm.DB
	config *config.OpenAIConfig
}

func NewCopyService(db *gorm.DB, cfg *config.OpenAIConfig) *CopyService {
	return &CopyService{db: db, config: cfg}
}

// Rewrite builds the prompt from the account's copy prompt and the item's
// original text, then tries each configured LLM until one succeeds.
func (s *CopyService) Rewrite(ctx context.Context, acct *models.Account, item *models.CatalogItem) (string, error) {
	prompt := strings.TrimSpace(acct.CopyPrompt)
	if prompt == "" {
		prompt = "Rewrite the following product description as an engaging social media post:"
	}
	prompt = prompt + "\n\n" + item.OriginalText

	configs := s.getOrderedConfigs(acct)
	if len(configs) == 0 {
		return "", fmt.Errorf("no LLM configuration available")
	}

	var lastErr error
	for i, llmConfig := range configs {
		logger.Infof("[Copy] Attempting LLM %d/%d: %s (model: %s)", i+1, len(configs), llmConfig.Name, llmConfig.Model)

		text, err := s.callLLM(ctx, &llmConfig, prompt)
		if err == nil {
			return CleanCopy(text), nil
		}

		lastErr = err
		logger.Infof("[Copy] LLM %s failed: %v, trying next...", llmConfig.Name, err)
	}

	return "", fmt.Errorf("all LLMs failed, last error: %w", lastErr)
}

// CleanCopy strips markdown emphasis markers and surrounding whitespace from
// LLM output.
func CleanCopy(text string) string {
	cleaned := emphasisRegex.ReplaceAllString(text, "$1")
	return strings.TrimSpace(cleaned)
}

// getOrderedConfigs returns LLM configs in fallback order: the account's
// pinned config first, then the default, then the remaining active ones.
// When nothing is configured in the database, the static config from the
// YAML file is the last resort.
func (s *CopyService) getOrderedConfigs(acct *models.Account) []models.LLMConfig {
	var configs []models.LLMConfig

	if acct.LLMConfigID != nil {
		var pinned models.LLMConfig
		if err := s.db.Where("id = ? AND is_active = ?", *acct.LLMConfigID, true).First(&pinned).Error; err == nil {
			configs = append(configs, pinned)
		}
	}

	var defaultConfig models.LLMConfig
	if err := s.db.Where("is_default = ? AND is_active = ?", true, true).First(&defaultConfig).Error; err == nil {
		if len(configs) == 0 || configs[0].ID != defaultConfig.ID {
			configs = append(configs, defaultConfig)
		}
	}

	existingIDs := make(map[uint]bool)
	for _, c := range configs {
		existingIDs[c.ID] = true
	}
	var backups []models.LLMConfig
	s.db.Where("is_active = ?", true).Order("id ASC").Find(&backups)
	for _, c := range backups {
		if !existingIDs[c.ID] {
			configs = append(configs, c)
		}
	}

	if len(configs) == 0 && s.config.APIKey != "" {
		configs = append(configs, models.LLMConfig{
			Name:    "fallback",
			BaseURL: s.config.BaseURL,
			APIKey:  s.config.APIKey,
			Model:   s.config.Model,
		})
	}

	return configs
}

// callLLM dispatches to the appropriate provider-specific function based on Provider field
func (s *CopyService) callLLM(ctx context.Context, llmConfig *models.LLMConfig, prompt string) (string, error) {
	logger.Infof("[Copy] Using provider: %s, model: %s, baseURL: %s", llmConfig.Provider, llmConfig.Model, llmConfig.BaseURL)

	switch llmConfig.Provider {
	case "anthropic":
		return s.callAnthropic(ctx, llmConfig, prompt)
	case "ollama":
		return s.callOllama(ctx, llmConfig, prompt)
	case "gemini":
		return s.callGemini(ctx, llmConfig, prompt)
	case "azure":
		return s.callAzure(ctx, llmConfig, prompt)
	default:
		// openai and other OpenAI-compatible services
		return s.callOpenAI(ctx, llmConfig, prompt)
	}
}

// callOpenAI handles OpenAI and OpenAI-compatible APIs (including custom endpoints)
func (s *CopyService) callOpenAI(ctx context.Context, llmConfig *models.LLMConfig, prompt string) (string, error) {
	clientConfig := openai.DefaultConfig(llmConfig.APIKey)
	if llmConfig.BaseURL != "" {
		clientConfig.BaseURL = llmConfig.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	temperature := float32(0.7)
	if llmConfig.Temperature > 0 {
		temperature = float32(llmConfig.Temperature)
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: llmConfig.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// callAnthropic handles Anthropic Claude API using the native SDK
func (s *CopyService) callAnthropic(ctx context.Context, llmConfig *models.LLMConfig, prompt string) (string, error) {
	client := anthropic.NewClient(
		option.WithAPIKey(llmConfig.APIKey),
	)

	maxTokens := int64(llmConfig.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 4096
	}

	model := llmConfig.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}
	return content, nil
}

// callOllama handles Ollama API using the native SDK
func (s *CopyService) callOllama(ctx context.Context, llmConfig *models.LLMConfig, prompt string) (string, error) {
	baseURL := llmConfig.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid Ollama base URL: %w", err)
	}
	client := api.NewClient(u, http.DefaultClient)

	model := llmConfig.Model
	if model == "" {
		model = "llama3"
	}

	var content strings.Builder
	err = client.Chat(ctx, &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Options: map[string]interface{}{
			"temperature": llmConfig.Temperature,
		},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("Ollama API error: %w", err)
	}
	return content.String(), nil
}

// callGemini handles Google Gemini API using the native SDK
func (s *CopyService) callGemini(ctx context.Context, llmConfig *models.LLMConfig, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: llmConfig.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("Gemini client error: %w", err)
	}

	model := llmConfig.Model
	if model == "" {
		model = "gemini-3.0-flash"
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	return resp.Text(), nil
}

// callAzure handles Azure OpenAI API using special configuration
func (s *CopyService) callAzure(ctx context.Context, llmConfig *models.LLMConfig, prompt string) (string, error) {
	// Azure requires BaseURL format: https://{resource-name}.openai.azure.com
	// Model field is used as deployment name
	cfg := openai.DefaultAzureConfig(llmConfig.APIKey, llmConfig.BaseURL)
	client := openai.NewClientWithConfig(cfg)

	temperature := float32(0.7)
	if llmConfig.Temperature > 0 {
		temperature = float32(llmConfig.Temperature)
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: llmConfig.Model, // In Azure, this is the deployment name
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("Azure OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from Azure OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}
