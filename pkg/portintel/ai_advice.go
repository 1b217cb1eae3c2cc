package portintel

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	aiAdviceTimeout         = 120 * time.Second
	aiAdviceMaxOutputTokens = 4096
)

const aiAdviceSystemPrompt = `You are a portfolio review assistant for a retail stock investor.
You receive the investor's current valuation table (per-holding weight, return, invested and current value) and portfolio metrics (annualized XIRR and a 0-100 score against a benchmark).

Your task is to review the portfolio and produce practical, cautious suggestions about concentration, drawdowns, and diversification.

Output requirements:
- Respond with a pure JSON object, no Markdown fences, no extra text
- JSON fields:
  - summary: string (2-3 sentences on the overall state of the portfolio)
  - tips: array of strings (each one concrete, actionable suggestion; 3-6 entries)
  - disclaimer: string (a short risk disclaimer)
- Never promise returns; always include the risk disclaimer
- If data is sparse, say so and fall back to conservative general advice`

// AIAdviceRequest defines the inputs for AI-generated portfolio commentary.
type AIAdviceRequest struct {
	APIKey  string
	Model   string
	Rows    []ValuationRow
	Metrics PortfolioMetrics
}

// AIAdviceResult is the structured response returned to clients.
type AIAdviceResult struct {
	GeneratedAt string   `json:"generated_at"`
	Model       string   `json:"model"`
	Summary     string   `json:"summary"`
	Tips        []string `json:"tips"`
	Disclaimer  string   `json:"disclaimer"`
}

type aiAdviceModelResponse struct {
	Summary    string   `json:"summary"`
	Tips       []string `json:"tips"`
	Disclaimer string   `json:"disclaimer"`
}

type aiAdvicePromptInput struct {
	Rows    []ValuationRow   `json:"rows"`
	Metrics PortfolioMetrics `json:"metrics"`
	Hints   []string         `json:"rule_based_tips"`
}

// AIAdvice generates model-written portfolio commentary on top of the
// deterministic rule tips. The rule tips never depend on this call; any
// failure here is surfaced as an error and nothing else degrades.
func (c *Core) AIAdvice(ctx context.Context, req AIAdviceRequest) (*AIAdviceResult, error) {
	req.APIKey = strings.TrimSpace(req.APIKey)
	req.Model = strings.TrimSpace(req.Model)
	if req.APIKey == "" {
		return nil, NewError(ErrCodeInvalidInput, "API key is required")
	}
	if req.Model == "" {
		return nil, NewError(ErrCodeInvalidInput, "model is required")
	}
	if len(req.Rows) == 0 {
		return nil, NewError(ErrCodeInvalidInput, "no valuation rows to review")
	}

	userPrompt, err := buildAIAdvicePrompt(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, aiAdviceTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  req.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client failed: %w", err)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: aiAdviceSystemPrompt}},
		},
		Temperature:      genai.Ptr(float32(0.2)),
		MaxOutputTokens:  aiAdviceMaxOutputTokens,
		ResponseMIMEType: "application/json",
	}

	response, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(userPrompt), config)
	if err != nil {
		return nil, fmt.Errorf("AI request failed: %w", err)
	}
	content := strings.TrimSpace(response.Text())
	if content == "" {
		return nil, fmt.Errorf("ai response content is empty")
	}

	parsed, err := parseAIAdviceResponse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	model := strings.TrimSpace(response.ModelVersion)
	if model == "" {
		model = req.Model
	}
	return &AIAdviceResult{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Model:       model,
		Summary:     parsed.Summary,
		Tips:        parsed.Tips,
		Disclaimer:  parsed.Disclaimer,
	}, nil
}

func buildAIAdvicePrompt(req AIAdviceRequest) (string, error) {
	input := aiAdvicePromptInput{
		Rows:    req.Rows,
		Metrics: req.Metrics,
		Hints:   Advise(req.Rows),
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("failed to serialize prompt input: %w", err)
	}

	prompt := fmt.Sprintf(`Review the following portfolio and respond with the required JSON object:

%s

Field notes:
- rows: per-holding valuation; weight_pct is the share of total current value; return_pct of null means the position has already paid back its cost
- metrics.xirr_pct: money-weighted annualized return percent
- metrics.score: 0-100 score against a benchmark annual return
- rule_based_tips: deterministic threshold warnings already shown to the user; do not repeat them verbatim, build on them`, string(payload))

	return prompt, nil
}

func parseAIAdviceResponse(content string) (*aiAdviceModelResponse, error) {
	cleaned := cleanupModelJSON(content)
	var parsed aiAdviceModelResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %w", err)
	}
	return &parsed, nil
}

// cleanupModelJSON strips Markdown code fences some models wrap around JSON
// output despite instructions.
func cleanupModelJSON(content string) string {
	cleaned := strings.TrimSpace(content)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}
