package crm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

var (
	ErrNotFound          = errors.New("no matching record")
	ErrNothingToAmend    = errors.New("no fields to amend")
	ErrNoInteraction     = errors.New("no interaction to amend")
	ErrClinicianRequired = errors.New("clinician name is required to select the interaction")
	ErrInvalidDraft      = errors.New("invalid interaction draft")
	ErrEmptyQuery        = errors.New("search term is empty")
)

// AmendScope selects which row AmendLastInteraction writes to.
type AmendScope string

const (
	// AmendScopeGlobal targets the newest interaction in the whole table,
	// whoever it belongs to.
	AmendScopeGlobal AmendScope = "global"
	// AmendScopeClinician targets the newest interaction of the clinician
	// named in the patch.
	AmendScopeClinician AmendScope = "clinician"
)

type Config struct {
	AmendScope AmendScope `split_words:"true" default:"global"`
}

func (c *Config) Validate() error {
	switch c.AmendScope {
	case AmendScopeGlobal, AmendScopeClinician:
		return nil
	case "":
		c.AmendScope = AmendScopeGlobal
		return nil
	default:
		return fmt.Errorf("invalid amend scope %q: want %q or %q", c.AmendScope, AmendScopeGlobal, AmendScopeClinician)
	}
}

// Store runs the single-statement reads and writes behind the CRM tools.
// Every call borrows its own pooled connection and autocommits.
type Store struct {
	db     *bun.DB
	scope  AmendScope
	likeOp string
}

func NewStore(db *bun.DB, cfg Config) (*Store, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	likeOp := "LIKE"
	if db.Dialect().Name() == dialect.PG {
		likeOp = "ILIKE"
	}

	return &Store{
		db:     db,
		scope:  cfg.AmendScope,
		likeOp: likeOp,
	}, nil
}

func (s *Store) AmendScope() AmendScope {
	return s.scope
}

// RecordInteraction appends one interaction row and returns it with its id.
func (s *Store) RecordInteraction(ctx context.Context, d InteractionDraft) (*Interaction, error) {
	row := &Interaction{
		HCPName:         strings.TrimSpace(d.HCPName),
		InteractionType: strings.TrimSpace(d.Type),
		InteractionDate: strings.TrimSpace(d.Date),
		TopicsDiscussed: valueOrSentinel(d.Topics),
		MaterialsShared: valueOrSentinel(d.Materials),
		Sentiment:       valueOrSentinel(d.Sentiment),
		Outcomes:        valueOrSentinel(d.Outcomes),
		FollowUpAction:  valueOrSentinel(d.FollowUp),
	}

	required := []struct{ name, value string }{
		{"hcp_name", row.HCPName},
		{"type", row.InteractionType},
		{"date", row.InteractionDate},
	}
	for _, f := range required {
		if f.value == "" || f.value == NotProvided {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidDraft, f.name)
		}
	}

	if _, err := s.db.NewInsert().
		Model(row).
		Column(interactionColumns...).
		Returning("id").
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert interaction: %w", err)
	}

	return row, nil
}

type patchField struct {
	column string
	value  *string
}

// AmendLastInteraction writes the present fields of p to the newest
// interaction and returns the updated column names.
//
// In AmendScopeGlobal the target is the newest row of the whole table even
// when p names a clinician, so concurrent callers can edit each other's rows.
func (s *Store) AmendLastInteraction(ctx context.Context, p InteractionPatch) ([]string, error) {
	fields := []patchField{
		{"hcp_name", p.HCPName},
		{"interaction_type", p.Type},
		{"interaction_date", p.Date},
		{"topics_discussed", p.Topics},
		{"materials_shared", p.Materials},
		{"sentiment", p.Sentiment},
		{"outcomes", p.Outcomes},
		{"follow_up_action", p.FollowUp},
	}

	target := s.db.NewSelect().
		TableExpr("interactions").
		ColumnExpr("MAX(id)")

	if s.scope == AmendScopeClinician {
		if !Present(p.HCPName) {
			return nil, ErrClinicianRequired
		}
		target = target.Where("LOWER(hcp_name) = LOWER(?)", strings.TrimSpace(*p.HCPName))
		// The name picks the row; it is not a change.
		fields = fields[1:]
	}

	q := s.db.NewUpdate().Table("interactions")
	columns := make([]string, 0, len(fields))
	for _, f := range fields {
		if !Present(f.value) {
			continue
		}
		q = q.Set("? = ?", bun.Ident(f.column), strings.TrimSpace(*f.value))
		columns = append(columns, f.column)
	}
	if len(columns) == 0 {
		return nil, ErrNothingToAmend
	}

	res, err := q.Where("id = (?)", target).Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("update interaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update interaction: %w", err)
	}
	if affected == 0 {
		return nil, ErrNoInteraction
	}

	return columns, nil
}

// RecentInteractions returns up to limit interactions whose clinician name
// contains name, newest first.
func (s *Store) RecentInteractions(ctx context.Context, name string, limit int) ([]Interaction, error) {
	pattern, err := containsPattern(name)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 3
	}

	var rows []Interaction
	if err := s.db.NewSelect().
		Model(&rows).
		Where(fmt.Sprintf("i.hcp_name %s ?", s.likeOp), pattern).
		OrderExpr("i.id DESC").
		Limit(limit).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("select interactions: %w", err)
	}

	return rows, nil
}

// FindHCP returns the first clinician (by id) whose name contains name.
func (s *Store) FindHCP(ctx context.Context, name string) (*HCP, error) {
	pattern, err := containsPattern(name)
	if err != nil {
		return nil, err
	}

	hcp := new(HCP)
	err = s.db.NewSelect().
		Model(hcp).
		Where(fmt.Sprintf("hcp.name %s ?", s.likeOp), pattern).
		OrderExpr("hcp.id ASC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select hcp: %w", err)
	}

	return hcp, nil
}

// FindInventoryItem returns the first product (by id) whose name contains product.
func (s *Store) FindInventoryItem(ctx context.Context, product string) (*InventoryItem, error) {
	pattern, err := containsPattern(product)
	if err != nil {
		return nil, err
	}

	item := new(InventoryItem)
	err = s.db.NewSelect().
		Model(item).
		Where(fmt.Sprintf("inv.product_name %s ?", s.likeOp), pattern).
		OrderExpr("inv.id ASC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select inventory: %w", err)
	}

	return item, nil
}

// CountHCPs counts the clinician directory. Used by diagnostics.
func (s *Store) CountHCPs(ctx context.Context) (int, error) {
	n, err := s.db.NewSelect().Model((*HCP)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count hcp directory: %w", err)
	}
	return n, nil
}

func containsPattern(term string) (string, error) {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return "", ErrEmptyQuery
	}
	return "%" + trimmed + "%", nil
}
