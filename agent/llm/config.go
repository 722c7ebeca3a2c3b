package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/hcp-crm-assistant/agent/contract"
	groqx "github.com/tanpawarit/hcp-crm-assistant/pkg/groq"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.groq.com/openai/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"llama-3.3-70b-versatile"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"1024"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`

	// MaxToolIterations bounds the model calls of a single turn.
	MaxToolIterations int `envconfig:"MAX_TOOL_ITERATIONS" split_words:"true" default:"6"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: llm api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: llm model is required", contractx.ErrValidation)
	}
	if c.MaxToolIterations < 1 {
		return fmt.Errorf("%w: max tool iterations must be >= 1, got %d", contractx.ErrValidation, c.MaxToolIterations)
	}
	if c.Temperature < 0 {
		return fmt.Errorf("%w: temperature must be >= 0", contractx.ErrValidation)
	}
	return nil
}

// ProviderConfig maps the agent settings onto the Groq endpoint config.
func (c Config) ProviderConfig() groqx.Config {
	maxCompletionToken := c.MaxCompletionToken
	return groqx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              strings.TrimSpace(c.Model),
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        c.Temperature,
		Timeout:            c.Timeout,
	}
}
