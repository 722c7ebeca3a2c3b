package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/hcp-crm-assistant/agent/agents/assistant"
	"github.com/tanpawarit/hcp-crm-assistant/agent/agents/orchestrator"
	crmx "github.com/tanpawarit/hcp-crm-assistant/agent/crm"
	"github.com/tanpawarit/hcp-crm-assistant/agent/llm"
	"github.com/tanpawarit/hcp-crm-assistant/agent/prompt"
	toolx "github.com/tanpawarit/hcp-crm-assistant/agent/tool"
	"github.com/tanpawarit/hcp-crm-assistant/api"
	configx "github.com/tanpawarit/hcp-crm-assistant/pkg/config"
	"github.com/tanpawarit/hcp-crm-assistant/pkg/database"
	_ "github.com/tanpawarit/hcp-crm-assistant/pkg/logger/autoload"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llmCfg := configx.MustNew[llm.Config]("LLM")
	dbCfg := configx.MustNew[database.Config]("DB")
	crmCfg := configx.MustNew[crmx.Config]("CRM")
	httpCfg := configx.MustNew[api.Config]("HTTP")

	db, err := database.Open(ctx, *dbCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	store, err := crmx.NewStore(db, *crmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create crm store")
	}

	catalog, err := toolx.BuildCRMCatalog(store)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build tool catalog")
	}

	providerCfg := llmCfg.ProviderConfig()
	chatModel, err := providerCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create chat model")
	}

	agent, err := assistant.New(ctx, chatModel, catalog, assistant.Config{
		MaxIterations: llmCfg.MaxToolIterations,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create assistant")
	}

	service, err := orchestrator.New(agent, prompt.LoadPromptSet())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create chat service")
	}

	server := api.NewServer(*httpCfg, api.NewRouter(*httpCfg, service))

	go func() {
		log.Info().
			Str("addr", httpCfg.Addr).
			Str("model", providerCfg.Model).
			Str("amend_scope", string(store.AmendScope())).
			Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
