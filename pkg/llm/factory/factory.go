package factory

import (
	"fmt"

	"ai-coursegen-be/pkg/llm"
	"ai-coursegen-be/pkg/llm/huggingface"
	"ai-coursegen-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	case "openai":
		// The router provider speaks the OpenAI wire format.
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1"
		}
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
