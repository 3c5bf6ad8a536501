package ollama

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

type OllamaProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

// Ensure OllamaProvider implements Provider
var _ genai.Provider = &OllamaProvider{}

func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	return &OllamaProvider{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// --- Interface Implementation ---

func (o *OllamaProvider) Generate(ctx context.Context, req genai.Request) ([]byte, error) {
	reqPayload := ollamaGenerateRequest{
		Model:  o.ModelName,
		Prompt: buildPrompt(req),
		Stream: false,
		Format: "json",
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := o.BaseURL + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(body))
	}

	var genResp ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if !json.Valid([]byte(genResp.Response)) {
		return nil, fmt.Errorf("ollama produced non-JSON content")
	}
	return []byte(genResp.Response), nil
}

func buildPrompt(req genai.Request) string {
	switch req.Kind {
	case genai.KindCourseOutline:
		return fmt.Sprintf(
			"Produce a JSON course outline on %q sized for a %d minute course. "+
				"Use keys: title, modules (array of {title, summary, minutes}).",
			req.Topic, req.DurationMinutes)
	case genai.KindSlideDeck:
		return fmt.Sprintf(
			"Produce a JSON slide deck on %q with exactly %d slides. "+
				"Use keys: title, slides (array of {heading, bullets}).",
			req.Topic, req.SlideCount)
	case genai.KindAgentPersona:
		return fmt.Sprintf(
			"Produce a JSON voice-agent persona for %q sized for %d minute sessions. "+
				"Use keys: name, greeting, style, constraints.",
			req.Topic, req.DurationMinutes)
	default:
		return fmt.Sprintf("Produce a JSON document about %q.", req.Topic)
	}
}
