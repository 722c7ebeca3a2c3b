package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/hcp-crm-assistant/agent/contract"
)

const DefaultMaxIterations = 6

// ToolSet is the tool registry the assistant offers to the model.
type ToolSet interface {
	contractx.ToolGateway
	Infos() []*schema.ToolInfo
}

type Config struct {
	// MaxIterations bounds the model calls of one turn. Zero means DefaultMaxIterations.
	MaxIterations int
}

// Assistant runs a turn of the tool-calling agent: it calls the model,
// executes every requested tool, feeds the results back and repeats until
// the model answers without tool calls.
type Assistant struct {
	step          compose.Runnable[[]*schema.Message, *schema.Message]
	tools         ToolSet
	maxIterations int
}

var _ contractx.Agent = (*Assistant)(nil)

func New(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	tools ToolSet,
	cfg Config,
) (*Assistant, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if tools == nil {
		return nil, errors.New("tool set is required")
	}

	maxIterations := cfg.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	toolModel, err := chatModel.WithTools(tools.Infos())
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
	}

	step, err := compileModelStepGraph(ctx, toolModel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}

	return &Assistant{
		step:          step,
		tools:         tools,
		maxIterations: maxIterations,
	}, nil
}

func (a *Assistant) Run(ctx context.Context, req contractx.TurnRequest) (contractx.Transcript, error) {
	if strings.TrimSpace(req.SystemPrompt) == "" {
		return nil, contractx.ErrPromptMissing
	}
	if strings.TrimSpace(req.UserMessage) == "" {
		return nil, fmt.Errorf("%w: user message is empty", contractx.ErrValidation)
	}

	logger := log.Ctx(ctx)
	messages := []*schema.Message{
		schema.SystemMessage(req.SystemPrompt),
		schema.UserMessage(req.UserMessage),
	}

	for iteration := 1; iteration <= a.maxIterations; iteration++ {
		reply, err := a.step.Invoke(ctx, messages)
		if err != nil {
			return nil, fmt.Errorf("%w: iteration %d: %v", contractx.ErrModelInvoke, iteration, err)
		}
		if reply == nil {
			return nil, fmt.Errorf("%w: empty model response", contractx.ErrSchemaViolation)
		}
		messages = append(messages, reply)

		if len(reply.ToolCalls) == 0 {
			logger.Debug().Int("iterations", iteration).Msg("turn completed")
			return toTranscript(messages), nil
		}

		for _, call := range reply.ToolCalls {
			result := a.tools.Execute(ctx, contractx.ToolRequest{
				CallID:  call.ID,
				Tool:    strings.TrimSpace(call.Function.Name),
				RawArgs: call.Function.Arguments,
			})
			messages = append(messages, schema.ToolMessage(result.Output, call.ID))
		}
	}

	logger.Warn().Int("max_iterations", a.maxIterations).Msg("model kept calling tools")
	return nil, fmt.Errorf("%w: %d model calls", contractx.ErrIterationLimit, a.maxIterations)
}

func toTranscript(messages []*schema.Message) contractx.Transcript {
	out := make(contractx.Transcript, 0, len(messages))
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		out = append(out, contractx.Message{
			Role:       contractx.Role(msg.Role),
			Content:    msg.Content,
			ToolCalls:  toToolCalls(msg.ToolCalls),
			ToolCallID: msg.ToolCallID,
		})
	}
	return out
}

func toToolCalls(calls []schema.ToolCall) []contractx.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]contractx.ToolCall, 0, len(calls))
	for _, call := range calls {
		out = append(out, contractx.ToolCall{
			ID:      call.ID,
			Name:    strings.TrimSpace(call.Function.Name),
			Args:    decodeArgs(call.Function.Arguments),
			RawArgs: call.Function.Arguments,
		})
	}
	return out
}

// decodeArgs returns nil when raw is not a JSON object.
func decodeArgs(raw string) map[string]any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return map[string]any{}
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
		return nil
	}
	return args
}
