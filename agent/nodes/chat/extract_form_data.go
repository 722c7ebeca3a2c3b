package chatnode

import (
	"fmt"

	"github.com/tanpawarit/hcp-crm-assistant/agent/agents/assistant"
	contractx "github.com/tanpawarit/hcp-crm-assistant/agent/contract"
)

func ExtractFormData(in *GraphState) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	in.FormData = assistant.ExtractFormData(in.Transcript)
	return in, nil
}
