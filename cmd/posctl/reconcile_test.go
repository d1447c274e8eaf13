package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/possystem/services/inventory/domain/models"
)

func TestPrintReconciliations(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReconciliations(&buf, nil))
	assert.Equal(t, "no open reconciliations\n", buf.String())

	buf.Reset()
	e := models.NewReconciliation(uuid.New(), uuid.New(), decimal.RequireFromString("12.5"), "db timeout")
	e.CreatedAt = time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	require.NoError(t, printReconciliations(&buf, []*models.Reconciliation{e}))

	out := buf.String()
	assert.Contains(t, out, "ATTEMPT")
	assert.Contains(t, out, e.ID.String())
	assert.Contains(t, out, "12.5")
	assert.Contains(t, out, "2024-03-10 08:00:00")
	assert.Contains(t, out, "db timeout")
}

func TestReconcileApply_RequiresExactlyOneTarget(t *testing.T) {
	cmd := reconcileApplyCmd
	require.NoError(t, cmd.Flags().Set("attempt", ""))
	assert.Error(t, cmd.RunE(cmd, nil))

	require.NoError(t, cmd.Flags().Set("attempt", uuid.NewString()))
	t.Cleanup(func() { _ = cmd.Flags().Set("attempt", "") })
	assert.Error(t, cmd.RunE(cmd, []string{uuid.NewString()}))
}
