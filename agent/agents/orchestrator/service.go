package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/tanpawarit/hcp-crm-assistant/agent/contract"
	nodex "github.com/tanpawarit/hcp-crm-assistant/agent/nodes/chat"
	"github.com/tanpawarit/hcp-crm-assistant/agent/prompt"
)

var ErrInvalidMessage = nodex.ErrInvalidMessage

// Orchestrator turns one user message into one chat reply.
type Orchestrator struct {
	agent   contractx.Agent
	prompts prompt.PromptSet

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

var _ contractx.ChatService = (*Orchestrator)(nil)

func New(agent contractx.Agent, prompts prompt.PromptSet) (*Orchestrator, error) {
	if agent == nil {
		return nil, errors.New("agent is required")
	}
	if prompts.System == "" {
		return nil, contractx.ErrPromptMissing
	}

	o := &Orchestrator{
		agent:   agent,
		prompts: prompts,
		now:     time.Now,
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

func (o *Orchestrator) HandleMessage(ctx context.Context, text string) (contractx.ChatReply, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{Text: text})
	if err != nil {
		return contractx.ChatReply{}, err
	}
	return out.Reply, nil
}
