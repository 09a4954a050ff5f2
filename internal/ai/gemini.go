package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrEmptyResponse = errors.New("no response candidates from Gemini")

const DefaultModel = "gemini-2.0-flash"

const systemInstruction = `Te egy barátságos kőszegi idegenvezető asszisztens vagy.
Mindig magyarul válaszolj, röviden (legfeljebb 4 mondat), tegező hangnemben.
Csak a kapott TÉNYEK-ből dolgozz: ne találj ki helyet, árat, nyitvatartást vagy eseményt.
Ha a tények között nincs válasz, mondd meg őszintén. Ne használj markdown formázást.`

// GeminiProvider implements TextGenerator using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}

	m := client.GenerativeModel(model)
	m.SystemInstruction = genai.NewUserContent(genai.Text(systemInstruction))
	// Low temperature: wording may vary, facts may not.
	m.SetTemperature(0.3)
	m.SetMaxOutputTokens(300)

	return &GeminiProvider{
		client: client,
		model:  m,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// Generate returns the model's plain-text answer to prompt.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}
	return cleanText(responseText.String()), nil
}

// cleanText removes markdown code fences and bold markers the model sometimes adds anyway.
func cleanText(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```text")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	input = strings.ReplaceAll(input, "**", "")
	return strings.TrimSpace(input)
}
