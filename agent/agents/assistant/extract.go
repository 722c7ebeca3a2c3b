package assistant

import (
	contractx "github.com/tanpawarit/hcp-crm-assistant/agent/contract"
)

// ExtractFormData returns the arguments of the first log or edit call in the
// transcript, or nil when the turn made neither. Later calls are ignored,
// so a record followed by an amend in the same turn reports the record.
func ExtractFormData(t contractx.Transcript) map[string]any {
	for _, msg := range t {
		for _, call := range msg.ToolCalls {
			switch call.Name {
			case contractx.ToolLogInteraction, contractx.ToolEditInteraction:
				return call.Args
			}
		}
	}
	return nil
}
