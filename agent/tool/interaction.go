package tool

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/hcp-crm-assistant/agent/contract"
	crmx "github.com/tanpawarit/hcp-crm-assistant/agent/crm"
)

const (
	MsgInteractionLogged  = "✅ Interaction logged with full details."
	MsgInteractionUpdated = "✅ Interaction updated in database."
	MsgNoChangesRequested = "No changes requested."
	MsgNothingToEdit      = "No logged interaction found to edit."
	MsgClinicianRequired  = "Please tell me which HCP's interaction should be edited."

	logFailedFormat  = "❌ Error logging: %v"
	editFailedFormat = "❌ Error updating: %v"
)

var interactionFieldParams = map[string]*schema.ParameterInfo{
	"hcp_name":  {Type: schema.String, Desc: "Name of the HCP, e.g. Dr. Smith"},
	"type":      {Type: schema.String, Desc: "Interaction type, e.g. Meeting, Call, Email"},
	"date":      {Type: schema.String, Desc: "Interaction date as YYYY-MM-DD"},
	"topics":    {Type: schema.String, Desc: "Topics discussed. Pass 'None' if not mentioned"},
	"materials": {Type: schema.String, Desc: "Materials shared: brochures, pamphlets, studies. Pass 'None' if not mentioned"},
	"sentiment": {Type: schema.String, Desc: "HCP sentiment: Positive, Neutral or Negative. Pass 'None' if unclear"},
	"outcomes":  {Type: schema.String, Desc: "Outcomes or agreements. Pass 'None' if not mentioned"},
	"follow_up": {Type: schema.String, Desc: "Follow-up actions: reminders, next steps, emails. Pass 'None' if not mentioned"},
}

var logInteractionInfo = &schema.ToolInfo{
	Name: contractx.ToolLogInteraction,
	Desc: "Log a NEW interaction with an HCP. Use only when the user reports a meeting, call or visit that happened. " +
		"materials: brochures, pamphlets, studies. follow_up: reminders, next steps, emails.",
	ParamsOneOf: schema.NewParamsOneOfByParams(withRequired(interactionFieldParams, "hcp_name", "type", "date")),
}

var editInteractionInfo = &schema.ToolInfo{
	Name: contractx.ToolEditInteraction,
	Desc: "EDIT the last logged interaction. Use when the user asks to change, correct or update what was logged. " +
		"Pass only the fields that change.",
	ParamsOneOf: schema.NewParamsOneOfByParams(withRequired(interactionFieldParams)),
}

func logInteraction(store CRMStore) Handler {
	return func(ctx context.Context, args map[string]any) string {
		draft := crmx.InteractionDraft{
			HCPName:   stringArg(args, "hcp_name"),
			Type:      stringArg(args, "type"),
			Date:      stringArg(args, "date"),
			Topics:    optionalArg(args, "topics"),
			Materials: optionalArg(args, "materials"),
			Sentiment: optionalArg(args, "sentiment"),
			Outcomes:  optionalArg(args, "outcomes"),
			FollowUp:  optionalArg(args, "follow_up"),
		}

		row, err := store.RecordInteraction(ctx, draft)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("log interaction failed")
			return fmt.Sprintf(logFailedFormat, err)
		}

		log.Ctx(ctx).Info().Int64("interaction_id", row.ID).Str("hcp_name", row.HCPName).Msg("interaction logged")
		return MsgInteractionLogged
	}
}

func editInteraction(store CRMStore) Handler {
	return func(ctx context.Context, args map[string]any) string {
		patch := crmx.InteractionPatch{
			HCPName:   optionalArg(args, "hcp_name"),
			Type:      optionalArg(args, "type"),
			Date:      optionalArg(args, "date"),
			Topics:    optionalArg(args, "topics"),
			Materials: optionalArg(args, "materials"),
			Sentiment: optionalArg(args, "sentiment"),
			Outcomes:  optionalArg(args, "outcomes"),
			FollowUp:  optionalArg(args, "follow_up"),
		}

		columns, err := store.AmendLastInteraction(ctx, patch)
		switch {
		case errors.Is(err, crmx.ErrNothingToAmend):
			return MsgNoChangesRequested
		case errors.Is(err, crmx.ErrNoInteraction):
			return MsgNothingToEdit
		case errors.Is(err, crmx.ErrClinicianRequired):
			return MsgClinicianRequired
		case err != nil:
			log.Ctx(ctx).Error().Err(err).Msg("edit interaction failed")
			return fmt.Sprintf(editFailedFormat, err)
		}

		log.Ctx(ctx).Info().Strs("columns", columns).Msg("interaction updated")
		return MsgInteractionUpdated
	}
}

// withRequired copies params and marks the named ones as required.
func withRequired(params map[string]*schema.ParameterInfo, required ...string) map[string]*schema.ParameterInfo {
	out := make(map[string]*schema.ParameterInfo, len(params))
	for name, p := range params {
		cp := *p
		cp.Required = false
		out[name] = &cp
	}
	for _, name := range required {
		if p, ok := out[name]; ok {
			p.Required = true
		}
	}
	return out
}
