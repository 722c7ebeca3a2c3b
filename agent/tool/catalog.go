package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/hcp-crm-assistant/agent/contract"
	crmx "github.com/tanpawarit/hcp-crm-assistant/agent/crm"
)

// Handler runs one tool call. It reports failures in the returned text.
type Handler func(ctx context.Context, args map[string]any) string

// Tool pairs the declaration shown to the model with its handler.
type Tool struct {
	Info   *schema.ToolInfo
	Handle Handler
}

// CRMStore is the data access the CRM tools need.
type CRMStore interface {
	RecordInteraction(ctx context.Context, d crmx.InteractionDraft) (*crmx.Interaction, error)
	AmendLastInteraction(ctx context.Context, p crmx.InteractionPatch) ([]string, error)
	RecentInteractions(ctx context.Context, name string, limit int) ([]crmx.Interaction, error)
	FindHCP(ctx context.Context, name string) (*crmx.HCP, error)
	FindInventoryItem(ctx context.Context, product string) (*crmx.InventoryItem, error)
}

// Catalog is the registry of tools offered to the model.
type Catalog struct {
	tools map[string]Tool
	order []string
}

var _ contractx.ToolGateway = (*Catalog)(nil)

func NewCatalog(tools ...Tool) (*Catalog, error) {
	c := &Catalog{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if t.Info == nil || strings.TrimSpace(t.Info.Name) == "" {
			return nil, errors.New("tool info with a name is required")
		}
		if t.Handle == nil {
			return nil, fmt.Errorf("tool=%s has no handler", t.Info.Name)
		}
		if _, dup := c.tools[t.Info.Name]; dup {
			return nil, fmt.Errorf("tool=%s registered twice", t.Info.Name)
		}
		c.tools[t.Info.Name] = t
		c.order = append(c.order, t.Info.Name)
	}
	return c, nil
}

// BuildCRMCatalog registers the CRM tools backed by store.
func BuildCRMCatalog(store CRMStore) (*Catalog, error) {
	if store == nil {
		return nil, errors.New("crm store is required")
	}
	return NewCatalog(
		Tool{Info: logInteractionInfo, Handle: logInteraction(store)},
		Tool{Info: editInteractionInfo, Handle: editInteraction(store)},
		Tool{Info: interactionHistoryInfo, Handle: interactionHistory(store)},
		Tool{Info: hcpProfileInfo, Handle: hcpProfile(store)},
		Tool{Info: sampleStockInfo, Handle: sampleStock(store)},
		Tool{Info: complianceInfo, Handle: checkCompliance},
	)
}

// Infos returns the tool declarations in registration order.
func (c *Catalog) Infos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(c.order))
	for _, name := range c.order {
		infos = append(infos, c.tools[name].Info)
	}
	return infos
}

func (c *Catalog) Execute(ctx context.Context, req contractx.ToolRequest) contractx.ToolResult {
	logger := log.Ctx(ctx).With().Str("tool", req.Tool).Str("call_id", req.CallID).Logger()

	result := contractx.ToolResult{CallID: req.CallID, Tool: req.Tool}

	t, ok := c.tools[req.Tool]
	if !ok {
		logger.Warn().Msg("model requested an unknown tool")
		result.Output = fmt.Sprintf("tool=%s is unavailable", req.Tool)
		return result
	}

	args, err := parseArgs(req.RawArgs)
	if err != nil {
		logger.Warn().Err(err).Str("raw_args", req.RawArgs).Msg("invalid tool arguments")
		result.Output = fmt.Sprintf("❌ Invalid arguments for %s: %v", req.Tool, err)
		return result
	}

	result.Output = t.Handle(logger.WithContext(ctx), args)
	logger.Debug().Interface("args", args).Str("output", result.Output).Msg("tool executed")
	return result
}

func parseArgs(raw string) (map[string]any, error) {
	args := map[string]any{}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
		return nil, err
	}
	return args, nil
}

// optionalArg returns the argument as a string pointer, nil when absent or null.
// Numbers and booleans are rendered as text.
func optionalArg(args map[string]any, key string) *string {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil
	}
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case float64, bool, json.Number:
		s = fmt.Sprint(v)
	default:
		return nil
	}
	return &s
}

func stringArg(args map[string]any, key string) string {
	if v := optionalArg(args, key); v != nil {
		return strings.TrimSpace(*v)
	}
	return ""
}
