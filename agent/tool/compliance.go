package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/hcp-crm-assistant/agent/contract"
)

const MsgCompliancePassed = "✅ Compliance Check Passed."

// restrictedTerms are promotional claims reps may not make about a product.
var restrictedTerms = []string{"guarantee", "cure", "miracle", "off-label"}

var complianceInfo = &schema.ToolInfo{
	Name: contractx.ToolCheckCompliance,
	Desc: "Scan interaction notes for risky or off-label promotional language. " +
		"Use this before logging if the user discusses drug efficacy.",
	ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
		"text": {Type: schema.String, Desc: "Notes to scan", Required: true},
	}),
}

func checkCompliance(_ context.Context, args map[string]any) string {
	flagged := flaggedTerms(stringArg(args, "text"))
	if len(flagged) == 0 {
		return MsgCompliancePassed
	}
	return fmt.Sprintf("⚠️ COMPLIANCE WARNING: Found restricted terms: %s. Please rephrase.", strings.Join(flagged, ", "))
}

func flaggedTerms(text string) []string {
	lower := strings.ToLower(text)
	var flagged []string
	for _, term := range restrictedTerms {
		if strings.Contains(lower, term) {
			flagged = append(flagged, term)
		}
	}
	return flagged
}
