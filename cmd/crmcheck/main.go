// Command crmcheck verifies that the CRM database and the chat model are reachable.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/rs/zerolog/log"

	crmx "github.com/tanpawarit/hcp-crm-assistant/agent/crm"
	"github.com/tanpawarit/hcp-crm-assistant/agent/llm"
	configx "github.com/tanpawarit/hcp-crm-assistant/pkg/config"
	"github.com/tanpawarit/hcp-crm-assistant/pkg/database"
	groqx "github.com/tanpawarit/hcp-crm-assistant/pkg/groq"
	_ "github.com/tanpawarit/hcp-crm-assistant/pkg/logger/autoload"
)

const pingPrompt = "Say 'Hello' if you can hear me."

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	failed := false
	if err := checkDatabase(ctx); err != nil {
		log.Error().Err(err).Msg("database check failed")
		failed = true
	}
	if err := checkModel(ctx); err != nil {
		log.Error().Err(err).Msg("model check failed")
		failed = true
	}

	if failed {
		os.Exit(1)
	}
	log.Info().Msg("all checks passed")
}

func checkDatabase(ctx context.Context) error {
	dbCfg, err := configx.New[database.Config]("DB")
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, *dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := crmx.NewStore(db, crmx.Config{})
	if err != nil {
		return err
	}

	n, err := store.CountHCPs(ctx)
	if err != nil {
		return err
	}

	log.Info().Int("hcp_count", n).Msg("database reachable")
	return nil
}

func checkModel(ctx context.Context) error {
	llmCfg, err := configx.New[llm.Config]("LLM")
	if err != nil {
		return err
	}

	providerCfg := llmCfg.ProviderConfig()
	client := groqx.NewClient(providerCfg)
	if client == nil {
		return errors.New("llm api key is not configured")
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(providerCfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(pingPrompt),
		},
	})
	if err != nil {
		return fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return errors.New("chat completion returned no choices")
	}

	log.Info().
		Str("model", providerCfg.Model).
		Str("reply", strings.TrimSpace(resp.Choices[0].Message.Content)).
		Msg("model reachable")
	return nil
}
