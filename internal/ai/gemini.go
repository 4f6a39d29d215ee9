package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/harishas/autofolio/internal/domain"
)

// maxPromptChars bounds how much resume text is sent to the model.
const maxPromptChars = 30000

// GeminiParser implements the resume-parsing oracle with Google's Gemini
// API.
type GeminiParser struct {
	client *genai.Client
	model  string
}

// NewGeminiParser creates a Gemini-backed resume parser.
func NewGeminiParser(ctx context.Context, apiKey, model string) (*GeminiParser, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiParser{client: client, model: model}, nil
}

// Parse sends the resume text to the model and decodes the structured
// record sets out of its reply.
func (p *GeminiParser) Parse(ctx context.Context, text string) (*domain.ParsedResume, error) {
	result, err := p.client.Models.GenerateContent(ctx,
		p.model,
		genai.Text(buildPrompt(text)),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("genai request failed: %w", err)
	}

	raw := result.Text()
	if raw == "" {
		return nil, fmt.Errorf("empty model response")
	}

	return DecodeResumeJSON(raw)
}

func buildPrompt(text string) string {
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}
	return fmt.Sprintf(`Extract JSON from resume text:
"%s".

Return ONLY valid JSON with this structure:
{
  "skills": [{ "title": "Category", "technologies": "Comma, separated, list" }],
  "projects": [{ "title": "Project Name", "description": "Brief Desc", "technologies": "Tech Stack", "link": "url" }],
  "internships": [{ "title": "Role", "company": "Company", "period": "Dates", "description": "Duties" }],
  "certifications": [{ "title": "Name", "issuer": "Org", "date_issued": "Year" }],
  "achievements": [{ "title": "Title", "description": "Desc" }]
}`, text)
}

// DecodeResumeJSON strips markdown code fences the model tends to wrap its
// answer in and unmarshals the record sets.
func DecodeResumeJSON(raw string) (*domain.ParsedResume, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	parsed := &domain.ParsedResume{}
	if err := json.Unmarshal([]byte(cleaned), parsed); err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %w", err)
	}
	return parsed, nil
}
