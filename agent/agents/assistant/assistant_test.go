package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/hcp-crm-assistant/agent/contract"
	crmx "github.com/tanpawarit/hcp-crm-assistant/agent/crm"
	"github.com/tanpawarit/hcp-crm-assistant/agent/crm/crmtest"
	"github.com/tanpawarit/hcp-crm-assistant/agent/prompt"
	toolx "github.com/tanpawarit/hcp-crm-assistant/agent/tool"
)

type fakeToolCallingModel struct {
	responses  []*schema.Message
	repeatLast bool
	err        error
	idx        int
	inputs     [][]*schema.Message
	boundTools []*schema.ToolInfo
}

func (f *fakeToolCallingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.inputs = append(f.inputs, append([]*schema.Message(nil), input...))
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		if f.repeatLast && len(f.responses) > 0 {
			return f.responses[len(f.responses)-1], nil
		}
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeToolCallingModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeToolCallingModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	f.boundTools = tools
	return f, nil
}

func toolCallMessage(id, name, args string) *schema.Message {
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{ID: id, Type: "function", Function: schema.FunctionCall{Name: name, Arguments: args}},
		},
	}
}

func turn(text string) contractx.TurnRequest {
	now := time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC)
	return contractx.TurnRequest{
		SystemPrompt: prompt.LoadPromptSet().SystemPrompt(now),
		UserMessage:  text,
		Now:          now,
	}
}

type fixture struct {
	assistant *Assistant
	model     *fakeToolCallingModel
	store     *crmx.Store
	t         *testing.T
}

func newFixture(t *testing.T, model *fakeToolCallingModel, maxIterations int) *fixture {
	t.Helper()

	store, db := crmtest.NewStore(t, crmx.AmendScopeGlobal)
	crmtest.SeedHCPs(t, db, crmx.HCP{
		Name:               "Dr. Smith",
		Specialty:          "Cardiology",
		Hospital:           "City Hospital",
		PreferredVisitTime: "10am-12pm",
	})
	crmtest.SeedInventory(t, db, crmx.InventoryItem{ProductName: "ProductX", StockCount: 42})

	catalog, err := toolx.BuildCRMCatalog(store)
	if err != nil {
		t.Fatalf("BuildCRMCatalog() error = %v", err)
	}

	a, err := New(context.Background(), model, catalog, Config{MaxIterations: maxIterations})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return &fixture{assistant: a, model: model, store: store, t: t}
}

func (f *fixture) history(name string) []crmx.Interaction {
	f.t.Helper()
	rows, err := f.store.RecentInteractions(context.Background(), name, 10)
	if err != nil {
		f.t.Fatalf("RecentInteractions() error = %v", err)
	}
	return rows
}

func lastToolOutput(t *testing.T, input []*schema.Message) string {
	t.Helper()
	last := input[len(input)-1]
	if last.Role != schema.Tool {
		t.Fatalf("expected tool message, got role=%s", last.Role)
	}
	return last.Content
}

func TestNewBindsCatalogTools(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{}
	newFixture(t, model, 0)

	if len(model.boundTools) != 6 {
		t.Fatalf("expected 6 bound tools, got %d", len(model.boundTools))
	}
}

func TestRunLogsMeeting(t *testing.T) {
	t.Parallel()

	args := `{"hcp_name":"Dr. Smith","type":"Meeting","date":"2026-10-15","topics":"ProductX efficacy","materials":"brochure","sentiment":"Positive","outcomes":"None","follow_up":"None"}`
	model := &fakeToolCallingModel{
		responses: []*schema.Message{
			toolCallMessage("call_1", contractx.ToolLogInteraction, args),
			{Role: schema.Assistant, Content: "Done. Interaction logged."},
		},
	}
	f := newFixture(t, model, 0)

	transcript, err := f.assistant.Run(context.Background(), turn("Met Dr. Smith today, discussed ProductX efficacy, positive, left a brochure"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(transcript) != 5 {
		t.Fatalf("expected 5 messages, got %d: %#v", len(transcript), transcript)
	}
	if transcript.FinalReply() != "Done. Interaction logged." {
		t.Fatalf("unexpected final reply: %q", transcript.FinalReply())
	}
	if transcript[0].Role != contractx.RoleSystem || transcript[1].Role != contractx.RoleUser {
		t.Fatalf("unexpected leading roles: %s, %s", transcript[0].Role, transcript[1].Role)
	}
	if transcript[3].Role != contractx.RoleTool || transcript[3].ToolCallID != "call_1" {
		t.Fatalf("unexpected tool message: %#v", transcript[3])
	}
	if got := lastToolOutput(t, model.inputs[1]); got != toolx.MsgInteractionLogged {
		t.Fatalf("unexpected tool output: %q", got)
	}

	rows := f.history("Dr. Smith")
	if len(rows) != 1 {
		t.Fatalf("expected 1 logged row, got %d", len(rows))
	}
	if rows[0].Outcomes != crmx.NotProvided || rows[0].MaterialsShared != "brochure" {
		t.Fatalf("unexpected row: %#v", rows[0])
	}

	form := ExtractFormData(transcript)
	if form["hcp_name"] != "Dr. Smith" || form["sentiment"] != "Positive" {
		t.Fatalf("unexpected form data: %#v", form)
	}
}

func TestRunProfileQuestionDoesNotLog(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{
		responses: []*schema.Message{
			toolCallMessage("call_1", contractx.ToolGetHCPProfile, `{"hcp_name":"Smith"}`),
			{Role: schema.Assistant, Content: "Dr. Smith is a cardiologist at City Hospital."},
		},
	}
	f := newFixture(t, model, 0)

	transcript, err := f.assistant.Run(context.Background(), turn("Who is Dr. Smith?"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := "Dr. Smith is a Cardiology specialist at City Hospital. Preferred visiting time: 10am-12pm."
	if got := lastToolOutput(t, model.inputs[1]); got != want {
		t.Fatalf("tool output = %q, want %q", got, want)
	}
	if rows := f.history("Smith"); len(rows) != 0 {
		t.Fatalf("profile question must not log, got %d rows", len(rows))
	}
	if form := ExtractFormData(transcript); form != nil {
		t.Fatalf("expected no form data, got %#v", form)
	}
}

func TestRunStockQuestion(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{
		responses: []*schema.Message{
			toolCallMessage("call_1", contractx.ToolCheckSampleStock, `{"product":"productx"}`),
			{Role: schema.Assistant, Content: "You have 42 samples of ProductX."},
		},
	}
	f := newFixture(t, model, 0)

	transcript, err := f.assistant.Run(context.Background(), turn("Do I have samples of ProductX?"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := lastToolOutput(t, model.inputs[1]); got != "ProductX: 42 samples in stock." {
		t.Fatalf("unexpected tool output: %q", got)
	}
	if transcript.FinalReply() != "You have 42 samples of ProductX." {
		t.Fatalf("unexpected final reply: %q", transcript.FinalReply())
	}
	if form := ExtractFormData(transcript); form != nil {
		t.Fatalf("expected no form data, got %#v", form)
	}
}

func TestRunMultipleCallsInOneMessage(t *testing.T) {
	t.Parallel()

	both := &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{ID: "a", Function: schema.FunctionCall{Name: contractx.ToolCheckCompliance, Arguments: `{"text":"miracle cure"}`}},
			{ID: "b", Function: schema.FunctionCall{Name: "unknown_tool", Arguments: `{}`}},
		},
	}
	model := &fakeToolCallingModel{
		responses: []*schema.Message{both, {Role: schema.Assistant, Content: "Please rephrase."}},
	}
	f := newFixture(t, model, 0)

	transcript, err := f.assistant.Run(context.Background(), turn("It is a miracle cure"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(transcript) != 6 {
		t.Fatalf("expected 6 messages, got %d", len(transcript))
	}
	if transcript[3].ToolCallID != "a" || transcript[4].ToolCallID != "b" {
		t.Fatalf("tool results out of order: %#v", transcript[3:5])
	}
}

func TestRunModelError(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{err: errors.New("upstream 503")}
	f := newFixture(t, model, 0)

	_, err := f.assistant.Run(context.Background(), turn("hello"))
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestRunIterationLimit(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{
		responses:  []*schema.Message{toolCallMessage("loop", contractx.ToolCheckSampleStock, `{"product":"ProductX"}`)},
		repeatLast: true,
	}
	f := newFixture(t, model, 3)

	_, err := f.assistant.Run(context.Background(), turn("stock?"))
	if !errors.Is(err, contractx.ErrIterationLimit) {
		t.Fatalf("expected ErrIterationLimit, got %v", err)
	}
	if len(model.inputs) != 3 {
		t.Fatalf("expected 3 model calls, got %d", len(model.inputs))
	}
}

func TestRunRequiresPrompt(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &fakeToolCallingModel{}, 0)

	_, err := f.assistant.Run(context.Background(), contractx.TurnRequest{UserMessage: "hi"})
	if !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("expected ErrPromptMissing, got %v", err)
	}
}
