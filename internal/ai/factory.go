package ai

import (
	"fmt"

	"spot-the-bot/internal/config"
	"spot-the-bot/internal/game"
)

// FromConfig picks the responder named by AI_PROVIDER.
func FromConfig(cfg config.Config) (Responder, error) {
	switch cfg.AIProvider {
	case config.AIProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.AIReplyTimeout()), nil
	case config.AIProviderCanned, "":
		return NewCannedResponder(game.GlobalRand), nil
	case config.AIProviderOff:
		return Off{}, nil
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q", cfg.AIProvider)
	}
}
