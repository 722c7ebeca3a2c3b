package llm

import (
	"errors"
	"testing"
	"time"

	contractx "github.com/tanpawarit/hcp-crm-assistant/agent/contract"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := Config{APIKey: "k", Model: "llama-3.3-70b-versatile", MaxToolIterations: 6}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing key", mutate: func(c *Config) { c.APIKey = " " }, wantErr: true},
		{name: "missing model", mutate: func(c *Config) { c.Model = "" }, wantErr: true},
		{name: "zero iterations", mutate: func(c *Config) { c.MaxToolIterations = 0 }, wantErr: true},
		{name: "negative temperature", mutate: func(c *Config) { c.Temperature = -0.1 }, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				if !errors.Is(err, contractx.ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
		})
	}
}

func TestProviderConfig(t *testing.T) {
	t.Parallel()

	cfg := Config{
		BaseURL:            " https://api.groq.com/openai/v1 ",
		APIKey:             " secret ",
		Model:              "llama-3.3-70b-versatile",
		MaxCompletionToken: 512,
		Timeout:            10 * time.Second,
	}

	got := cfg.ProviderConfig()
	if got.BaseURL != "https://api.groq.com/openai/v1" || got.APIKey != "secret" {
		t.Fatalf("values not trimmed: %#v", got)
	}
	if got.MaxCompletionToken == nil || *got.MaxCompletionToken != 512 {
		t.Fatalf("unexpected max tokens: %v", got.MaxCompletionToken)
	}
	if got.Timeout != 10*time.Second {
		t.Fatalf("unexpected timeout: %v", got.Timeout)
	}
}
