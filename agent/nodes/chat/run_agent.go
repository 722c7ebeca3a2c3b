package chatnode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/hcp-crm-assistant/agent/contract"
	"github.com/tanpawarit/hcp-crm-assistant/agent/prompt"
)

func RunAgent(
	ctx context.Context,
	in *GraphState,
	agent contractx.Agent,
	prompts prompt.PromptSet,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	transcript, err := agent.Run(ctx, contractx.TurnRequest{
		SystemPrompt: prompts.SystemPrompt(in.Now),
		UserMessage:  in.Text,
		Now:          in.Now,
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Debug().
		Interface("transcript", transcript).
		Int("tool_calls", len(transcript.ToolCalls())).
		Msg("agent turn finished")

	in.Transcript = transcript
	return in, nil
}
