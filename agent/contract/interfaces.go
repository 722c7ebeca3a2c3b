package contract

import "context"

// Agent runs one turn: the model may call tools any number of times before
// it produces the final message.
type Agent interface {
	Run(ctx context.Context, req TurnRequest) (Transcript, error)
}

// ToolGateway executes a single tool call. It never fails; errors come back
// as text in the result.
type ToolGateway interface {
	Execute(ctx context.Context, req ToolRequest) ToolResult
}

type ChatService interface {
	HandleMessage(ctx context.Context, text string) (ChatReply, error)
}
