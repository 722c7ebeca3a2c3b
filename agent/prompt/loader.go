package prompt

import (
	_ "embed"
	"strings"
	"time"
)

const (
	todayPlaceholder = "{today}"
	dateLayout       = "2006-01-02"
)

//go:embed template/system.txt
var systemRaw string

// PromptSet holds loaded prompt content.
type PromptSet struct {
	System string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		System: strings.TrimSpace(systemRaw),
	}
}

// SystemPrompt renders the policy for a turn that happens at now.
func (p PromptSet) SystemPrompt(now time.Time) string {
	return strings.ReplaceAll(p.System, todayPlaceholder, now.Format(dateLayout))
}
