package assistant

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// compileModelStepGraph wraps one tool-bound model call: the running
// message list goes in, the next assistant message comes out.
func compileModelStepGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
) (compose.Runnable[[]*schema.Message, *schema.Message], error) {
	graph := compose.NewGraph[[]*schema.Message, *schema.Message]()
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add model step node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "model"); err != nil {
		return nil, fmt.Errorf("add model step edge start->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add model step edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("assistant.model_step"))
	if err != nil {
		return nil, fmt.Errorf("compile model step graph: %w", err)
	}
	return runner, nil
}
