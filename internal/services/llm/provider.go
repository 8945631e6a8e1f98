package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/huntline/huntline/internal/common"
	"github.com/huntline/huntline/internal/interfaces"
)

// disabledService is returned when llm.default_provider is "none" (§9). Chat
// and Embed return a "llm service disabled" error; HealthCheck and Close
// succeed, so stage2's heuristic-only path never has to special-case a nil
// service.
type disabledService struct{}

func (disabledService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return "", fmt.Errorf("llm service disabled")
}

func (disabledService) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("llm service disabled")
}

func (disabledService) HealthCheck(ctx context.Context) error { return nil }

func (disabledService) GetMode() interfaces.LLMMode { return interfaces.LLMModeDisabled }

func (disabledService) Close() error { return nil }

// New builds the configured LLMService. APIKeyEnv names the environment
// variable holding the provider's key, per the ambient single-env-var
// configuration contract (§0.2).
func New(cfg common.LLMConfig, logger common.Logger) (interfaces.LLMService, error) {
	switch cfg.DefaultProvider {
	case common.LLMProviderClaude:
		return NewClaudeService(cfg, os.Getenv(cfg.APIKeyEnv), logger)
	case common.LLMProviderGemini:
		return NewGeminiService(cfg, os.Getenv(cfg.APIKeyEnv), logger)
	case common.LLMProviderNone, "":
		return disabledService{}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.DefaultProvider)
	}
}
