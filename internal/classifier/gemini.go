package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"hkim/sales-report/internal/logging"
	"hkim/sales-report/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements AIClient against the Google Gemini API. It sends
// the whole batch in one prompt and expects a JSON array of mappings back.
type GeminiClient struct {
	apiKey  string
	model   string
	timeout time.Duration
	logger  logging.Logger
}

// NewGeminiClient creates a Gemini-backed AIClient. The key is validated at
// call time, not here, so a missing credential degrades instead of aborting
// startup.
func NewGeminiClient(apiKey, model string, timeout time.Duration, logger logging.Logger) *GeminiClient {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// ClassifyBatch asks Gemini to assign a major/minor pair to every name.
func (g *GeminiClient) ClassifyBatch(ctx context.Context, names []string) ([]models.CategoryMapping, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if len(names) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			g.logger.WithError(err).Warn("Failed to close Gemini client")
		}
	}()

	model := client.GenerativeModel(g.model)
	model.GenerationConfig.SetTemperature(0)

	g.logger.WithFields(
		logging.Field{Key: logging.FieldOperation, Value: "gemini_classify_batch"},
		logging.Field{Key: logging.FieldCount, Value: len(names)},
	).Debug("Requesting AI classification")

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(names)))
	if err != nil {
		return nil, fmt.Errorf("Gemini request failed: %w", err)
	}

	text, err := extractText(resp)
	if err != nil {
		return nil, err
	}

	var mappings []models.CategoryMapping
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &mappings); err != nil {
		return nil, fmt.Errorf("parsing Gemini response: %w", err)
	}
	return mappings, nil
}

func buildPrompt(names []string) string {
	var b strings.Builder
	b.WriteString("다음 상품명 각각을 대분류(major)와 소분류(minor)로 분류하라.\n")
	b.WriteString("대분류 후보: 모션데스크, 데스크, 테이블, 체어, 수납, 파티션, 악세서리, 부품, 서비스.\n")
	b.WriteString("어느 후보에도 해당하지 않으면 major \"unclassified\", minor \"other\"를 사용하라.\n")
	b.WriteString("응답은 JSON 배열만, 각 원소는 {\"productName\":..., \"major\":..., \"minor\":...} 형식.\n\n")
	for _, name := range names {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	return b.String()
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty Gemini response")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("Gemini response contains no text parts")
	}
	return b.String(), nil
}

// stripCodeFence removes a ```json ... ``` wrapper the model sometimes adds.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
