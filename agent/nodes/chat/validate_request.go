package chatnode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/tanpawarit/hcp-crm-assistant/agent/contract"
)

var ErrInvalidMessage = errors.New("message is empty")

type GraphInput struct {
	Text string
}

type GraphOutput struct {
	Reply contractx.ChatReply
}

type GraphState struct {
	Text string
	Now  time.Time

	Transcript contractx.Transcript
	FormData   map[string]any
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		Text: text,
		Now:  nowFn(),
	}, nil
}
