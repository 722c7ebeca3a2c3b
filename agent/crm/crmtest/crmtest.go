// Package crmtest provides in-memory CRM databases for tests.
package crmtest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	crmx "github.com/tanpawarit/hcp-crm-assistant/agent/crm"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory SQLite database with the three CRM tables.
func NewDB(t testing.TB) *bun.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A single connection keeps the in-memory database alive and serialises writers.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	for _, model := range []any{
		(*crmx.HCP)(nil),
		(*crmx.Interaction)(nil),
		(*crmx.InventoryItem)(nil),
	} {
		if _, err := db.NewCreateTable().Model(model).Exec(ctx); err != nil {
			t.Fatalf("create table: %v", err)
		}
	}

	return db
}

// NewStore returns a Store over a fresh NewDB.
func NewStore(t testing.TB, scope crmx.AmendScope) (*crmx.Store, *bun.DB) {
	t.Helper()

	db := NewDB(t)
	store, err := crmx.NewStore(db, crmx.Config{AmendScope: scope})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store, db
}

// NewMockStore returns a Postgres-dialect Store backed by sqlmock.
func NewMockStore(t testing.TB) (*crmx.Store, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	db := bun.NewDB(sqldb, pgdialect.New())
	t.Cleanup(func() { _ = db.Close() })

	store, err := crmx.NewStore(db, crmx.Config{AmendScope: crmx.AmendScopeGlobal})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store, mock
}

func SeedHCPs(t testing.TB, db *bun.DB, rows ...crmx.HCP) {
	t.Helper()
	if len(rows) == 0 {
		return
	}
	if _, err := db.NewInsert().Model(&rows).Exec(context.Background()); err != nil {
		t.Fatalf("seed hcp_directory: %v", err)
	}
}

func SeedInventory(t testing.TB, db *bun.DB, rows ...crmx.InventoryItem) {
	t.Helper()
	if len(rows) == 0 {
		return
	}
	if _, err := db.NewInsert().Model(&rows).Exec(context.Background()); err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
}

func SeedInteractions(t testing.TB, db *bun.DB, rows ...crmx.Interaction) {
	t.Helper()
	for i := range rows {
		if _, err := db.NewInsert().Model(&rows[i]).Exec(context.Background()); err != nil {
			t.Fatalf("seed interactions: %v", err)
		}
	}
}

// Interactions returns every interaction row ordered by id.
func Interactions(t testing.TB, db *bun.DB) []crmx.Interaction {
	t.Helper()
	var rows []crmx.Interaction
	if err := db.NewSelect().Model(&rows).OrderExpr("i.id ASC").Scan(context.Background()); err != nil {
		t.Fatalf("select interactions: %v", err)
	}
	return rows
}

// Interaction builds a fully populated row for seeding.
func Interaction(hcpName, date, topics string) crmx.Interaction {
	return crmx.Interaction{
		HCPName:         hcpName,
		InteractionType: "Meeting",
		InteractionDate: date,
		TopicsDiscussed: topics,
		MaterialsShared: crmx.NotProvided,
		Sentiment:       "Neutral",
		Outcomes:        "Follow-up planned",
		FollowUpAction:  crmx.NotProvided,
	}
}
