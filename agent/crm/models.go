package crm

import (
	"strings"

	"github.com/uptrace/bun"
)

// NotProvided is written into interaction columns the caller left empty.
// Existing model tooling and the front-end read it as "no value".
const NotProvided = "None"

// HCP is a row of the clinician directory.
type HCP struct {
	bun.BaseModel `bun:"table:hcp_directory,alias:hcp"`

	ID                 int64  `bun:"id,pk,autoincrement"`
	Name               string `bun:"name,notnull"`
	Specialty          string `bun:"specialty"`
	Hospital           string `bun:"hospital"`
	PreferredVisitTime string `bun:"preferred_visit_time"`
}

// Interaction is one logged engagement. Field order matches the column order
// used for inserts.
type Interaction struct {
	bun.BaseModel `bun:"table:interactions,alias:i"`

	ID              int64  `bun:"id,pk,autoincrement"`
	HCPName         string `bun:"hcp_name,notnull"`
	InteractionType string `bun:"interaction_type,notnull"`
	InteractionDate string `bun:"interaction_date,notnull"`
	TopicsDiscussed string `bun:"topics_discussed,notnull"`
	MaterialsShared string `bun:"materials_shared,notnull"`
	Sentiment       string `bun:"sentiment,notnull"`
	Outcomes        string `bun:"outcomes,notnull"`
	FollowUpAction  string `bun:"follow_up_action,notnull"`
}

// interactionColumns is the fixed insert order.
var interactionColumns = []string{
	"hcp_name",
	"interaction_type",
	"interaction_date",
	"topics_discussed",
	"materials_shared",
	"sentiment",
	"outcomes",
	"follow_up_action",
}

// InventoryItem is a sample product and its stock count.
type InventoryItem struct {
	bun.BaseModel `bun:"table:inventory,alias:inv"`

	ID          int64  `bun:"id,pk,autoincrement"`
	ProductName string `bun:"product_name,notnull"`
	StockCount  int    `bun:"stock_count"`
}

// InteractionDraft is the input of RecordInteraction. Nil optional fields are
// stored as NotProvided.
type InteractionDraft struct {
	HCPName   string
	Type      string
	Date      string
	Topics    *string
	Materials *string
	Sentiment *string
	Outcomes  *string
	FollowUp  *string
}

// InteractionPatch is the input of AmendLastInteraction. Only fields that are
// Present are written.
type InteractionPatch struct {
	HCPName   *string
	Type      *string
	Date      *string
	Topics    *string
	Materials *string
	Sentiment *string
	Outcomes  *string
	FollowUp  *string
}

// Present reports whether v carries a real value: non-nil, non-blank and not
// the NotProvided sentinel.
func Present(v *string) bool {
	if v == nil {
		return false
	}
	trimmed := strings.TrimSpace(*v)
	return trimmed != "" && trimmed != NotProvided
}

func valueOrSentinel(v *string) string {
	if !Present(v) {
		return NotProvided
	}
	return strings.TrimSpace(*v)
}
