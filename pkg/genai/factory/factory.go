package factory

import (
	"ai-studio-be/pkg/genai"
	"ai-studio-be/pkg/genai/gemini"
	"ai-studio-be/pkg/genai/ollama"
	"fmt"
)

func NewProvider(providerType, modelName, baseURL, geminiKey string) (genai.Provider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "gemini":
		if geminiKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return gemini.NewGeminiProvider(geminiKey), nil
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", providerType)
	}
}
