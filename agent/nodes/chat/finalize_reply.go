package chatnode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/hcp-crm-assistant/agent/contract"
)

// FinalizeReply returns the last transcript message as the response. An empty
// final message is passed through as-is.
func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if len(in.Transcript) == 0 {
		return GraphOutput{}, fmt.Errorf("%w: agent returned an empty transcript", contractx.ErrSchemaViolation)
	}

	return GraphOutput{
		Reply: contractx.ChatReply{
			Response: strings.TrimSpace(in.Transcript.FinalReply()),
			FormData: in.FormData,
		},
	}, nil
}
