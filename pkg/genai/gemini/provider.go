package gemini

import (
	"ai-studio-be/pkg/genai"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const generateURL = "https://generativelanguage.googleapis.com/v1/models/gemini-1.5-flash:generateContent"

type GeminiProvider struct {
	APIKey string
	Client *http.Client
}

var _ genai.Provider = &GeminiProvider{}

func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{
		APIKey: apiKey,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type geminiParts struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []*geminiParts `json:"parts"`
	Role  string         `json:"role,omitempty"`
}

type geminiRequest struct {
	Contents []*geminiContent `json:"contents"`
}

type geminiCandidate struct {
	Content *geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []*geminiCandidate `json:"candidates"`
}

func (g *GeminiProvider) Generate(ctx context.Context, req genai.Request) ([]byte, error) {
	payload := geminiRequest{
		Contents: []*geminiContent{
			{
				Parts: []*geminiParts{{Text: buildPrompt(req)}},
				Role:  "user",
			},
		},
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", generateURL, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.APIKey)

	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(body))
	}

	var genResp geminiResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(genResp.Candidates) == 0 || genResp.Candidates[0].Content == nil ||
		len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	text := genResp.Candidates[0].Content.Parts[0].Text
	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("gemini produced non-JSON content")
	}
	return []byte(text), nil
}

func buildPrompt(req genai.Request) string {
	switch req.Kind {
	case genai.KindCourseOutline:
		return fmt.Sprintf(
			"Produce a JSON course outline on %q sized for a %d minute course. "+
				"Use keys: title, modules (array of {title, summary, minutes}). Reply with JSON only.",
			req.Topic, req.DurationMinutes)
	case genai.KindSlideDeck:
		return fmt.Sprintf(
			"Produce a JSON slide deck on %q with exactly %d slides. "+
				"Use keys: title, slides (array of {heading, bullets}). Reply with JSON only.",
			req.Topic, req.SlideCount)
	case genai.KindAgentPersona:
		return fmt.Sprintf(
			"Produce a JSON voice-agent persona for %q sized for %d minute sessions. "+
				"Use keys: name, greeting, style, constraints. Reply with JSON only.",
			req.Topic, req.DurationMinutes)
	default:
		return fmt.Sprintf("Produce a JSON document about %q. Reply with JSON only.", req.Topic)
	}
}
