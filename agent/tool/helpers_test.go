package tool

import (
	"testing"

	"github.com/uptrace/bun"

	crmx "github.com/tanpawarit/hcp-crm-assistant/agent/crm"
	"github.com/tanpawarit/hcp-crm-assistant/agent/crm/crmtest"
)

type crmtestDB struct {
	t  *testing.T
	db *bun.DB
}

func (d *crmtestDB) interactions() []crmx.Interaction {
	return crmtest.Interactions(d.t, d.db)
}

func (d *crmtestDB) seed(rows ...crmx.Interaction) {
	crmtest.SeedInteractions(d.t, d.db, rows...)
}
