package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/hcp-crm-assistant/agent/contract"
	crmx "github.com/tanpawarit/hcp-crm-assistant/agent/crm"
)

// historyLimit is how many past interactions the history tool shows.
const historyLimit = 3

var interactionHistoryInfo = &schema.ToolInfo{
	Name: contractx.ToolGetInteractionHistory,
	Desc: "Fetch the most recent logged interactions with an HCP. Use when the user asks what happened before, " +
		"past visits or history. Never logs anything.",
	ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
		"hcp_name": {Type: schema.String, Desc: "Full or partial HCP name", Required: true},
	}),
}

var hcpProfileInfo = &schema.ToolInfo{
	Name: contractx.ToolGetHCPProfile,
	Desc: "Look up an HCP's profile: specialty, hospital and preferred visiting time. Use for questions like " +
		"'Who is Dr. X?'. Never logs anything.",
	ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
		"hcp_name": {Type: schema.String, Desc: "Full or partial HCP name", Required: true},
	}),
}

var sampleStockInfo = &schema.ToolInfo{
	Name: contractx.ToolCheckSampleStock,
	Desc: "Check how many samples of a product are in stock. Use for stock or sample availability questions.",
	ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
		"product": {Type: schema.String, Desc: "Full or partial product name", Required: true},
	}),
}

func interactionHistory(store CRMStore) Handler {
	return func(ctx context.Context, args map[string]any) string {
		name := stringArg(args, "hcp_name")

		rows, err := store.RecentInteractions(ctx, name, historyLimit)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("fetch interaction history failed")
			return fmt.Sprintf("❌ Error fetching history: %v", err)
		}
		if len(rows) == 0 {
			return fmt.Sprintf("No past interactions found for %s.", name)
		}
		return formatHistory(rows)
	}
}

func formatHistory(rows []crmx.Interaction) string {
	var b strings.Builder
	b.WriteString("Recent interactions:")
	for _, r := range rows {
		fmt.Fprintf(&b, "\n- %s with %s | Topics: %s | Outcome: %s",
			r.InteractionDate, r.HCPName, r.TopicsDiscussed, r.Outcomes)
	}
	return b.String()
}

func hcpProfile(store CRMStore) Handler {
	return func(ctx context.Context, args map[string]any) string {
		name := stringArg(args, "hcp_name")

		hcp, err := store.FindHCP(ctx, name)
		if errors.Is(err, crmx.ErrNotFound) {
			return fmt.Sprintf("No HCP found matching %q.", name)
		}
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("fetch hcp profile failed")
			return fmt.Sprintf("❌ Error looking up HCP: %v", err)
		}

		return fmt.Sprintf("%s is a %s specialist at %s. Preferred visiting time: %s.",
			hcp.Name, hcp.Specialty, hcp.Hospital, hcp.PreferredVisitTime)
	}
}

func sampleStock(store CRMStore) Handler {
	return func(ctx context.Context, args map[string]any) string {
		product := stringArg(args, "product")

		item, err := store.FindInventoryItem(ctx, product)
		if errors.Is(err, crmx.ErrNotFound) {
			return fmt.Sprintf("No product found matching %q.", product)
		}
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("check sample stock failed")
			return fmt.Sprintf("❌ Error checking stock: %v", err)
		}

		return fmt.Sprintf("%s: %d samples in stock.", item.ProductName, item.StockCount)
	}
}
