package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"subtitle-translator/internal/config"
	internalhttp "subtitle-translator/internal/http"
	"subtitle-translator/internal/logger"
	"subtitle-translator/models"
)

// Shared HTTP client with connection pooling
var geminiClient = internalhttp.GeminiClient

// Models sometimes wrap the JSON array in a markdown code fence despite the
// structured-output constraint.
var markdownCodeBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// GeminiService translates subtitle batches via the Gemini generateContent
// API, constrained to structured JSON-array-of-strings output.
type GeminiService struct {
	apiKey   string
	model    string
	endpoint string
}

// NewGeminiService creates a new Gemini translation service. An empty model
// selects the default from internal/config.
func NewGeminiService(apiKey, model string) *GeminiService {
	if model == "" {
		model = config.GeminiModel
	}
	return &GeminiService{
		apiKey:   apiKey,
		model:    model,
		endpoint: config.GeminiAPIEndpoint,
	}
}

// CheckInstalled validates that the API key is set.
func (s *GeminiService) CheckInstalled() error {
	if s.apiKey == "" {
		return fmt.Errorf("Gemini API key is not configured")
	}
	return nil
}

// Request/response types for the generateContent API

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiSchema struct {
	Type  string        `json:"type"`
	Items *geminiSchema `json:"items,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature      float64       `json:"temperature"`
	MaxOutputTokens  int           `json:"maxOutputTokens"`
	ResponseMimeType string        `json:"responseMimeType"`
	ResponseSchema   *geminiSchema `json:"responseSchema"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// TranslateBatch translates texts from the direction's source language to its
// target language. The backend is asked for exactly one output string per
// input string, in order; a short response is returned as-is and handled by
// the caller's per-position fallback.
func (s *GeminiService) TranslateBatch(ctx context.Context, texts []string, dir models.Direction) ([]string, error) {
	if err := s.CheckInstalled(); err != nil {
		return nil, serviceError("not configured", err)
	}

	body, err := s.buildRequest(texts, dir)
	if err != nil {
		return nil, serviceError("building request", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent", s.endpoint, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, serviceError("creating request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := internalhttp.DoWithRetryContext(ctx, geminiClient, req, internalhttp.DefaultRetryConfig())
	if err != nil {
		return nil, serviceError("API request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, serviceError("reading response", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return nil, serviceError("API error", fmt.Errorf("%s", errResp.Error.Message))
		}
		return nil, serviceError("API error", fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody)))
	}

	translations, err := parseTranslations(respBody)
	if err != nil {
		return nil, err
	}

	if len(translations) != len(texts) {
		logger.Warn("Gemini: batch returned %d translations for %d inputs", len(translations), len(texts))
	}

	return translations, nil
}

func (s *GeminiService) buildRequest(texts []string, dir models.Direction) ([]byte, error) {
	// The batch is sent as a JSON array so line counts survive multi-line
	// subtitle texts.
	input, err := json.Marshal(texts)
	if err != nil {
		return nil, err
	}

	userPrompt := fmt.Sprintf(
		"Translate the following JSON array of %d subtitle lines from %s to %s. "+
			"Return a JSON array of exactly %d translated strings, in the same order.\n\n%s",
		len(texts), dir.SourceLang(), dir.TargetLang(), len(texts), string(input))

	req := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemInstruction(dir)}},
		},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: userPrompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      config.TranslationTemperature,
			MaxOutputTokens:  config.TranslationMaxTokens,
			ResponseMimeType: "application/json",
			ResponseSchema: &geminiSchema{
				Type:  "ARRAY",
				Items: &geminiSchema{Type: "STRING"},
			},
		},
	}

	return json.Marshal(req)
}

func systemInstruction(dir models.Direction) string {
	return fmt.Sprintf(`You are a professional subtitle translator translating from %s to %s.

Rules:
- Preserve the tone and register of the original dialogue.
- Transliterate proper names and place names; do not translate them.
- Return exactly one translated string per input string, in the same order.
- Keep translations concise enough for on-screen subtitle display.
- Stay culturally faithful to the source material.
- Return ONLY a JSON array of strings, no explanations or markdown.`,
		dir.SourceLang(), dir.TargetLang())
}

// parseTranslations extracts the JSON array of strings from the API response.
func parseTranslations(respBody []byte) ([]string, error) {
	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, malformedResponse(err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, malformedResponse(fmt.Errorf("no candidates in response"))
	}

	content := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)

	// Strip markdown code fences if present
	if m := markdownCodeBlock.FindStringSubmatch(content); len(m) > 1 {
		content = m[1]
	}

	var translations []string
	if err := json.Unmarshal([]byte(content), &translations); err != nil {
		return nil, malformedResponse(fmt.Errorf("not a JSON array of strings: %w", err))
	}

	return translations, nil
}
