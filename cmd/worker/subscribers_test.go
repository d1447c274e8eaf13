package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/possystem/pkg/config"
	"github.com/ghuser/possystem/pkg/events"
	"github.com/ghuser/possystem/pkg/logger"
	invevents "github.com/ghuser/possystem/services/inventory/domain/events"
	invmodels "github.com/ghuser/possystem/services/inventory/domain/models"
	invmemory "github.com/ghuser/possystem/services/inventory/infrastructure/persistence/memory"
	orderevents "github.com/ghuser/possystem/services/order/domain/events"
)

type countingInvalidator struct {
	calls int
	err   error
}

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return c.err
}

func newMessage(t *testing.T, payload any) *message.Message {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return message.NewMessage(uuid.NewString(), raw)
}

func bufferLogger(buf *bytes.Buffer) logger.Logger {
	return logger.NewWithWriter(&config.Config{LogLevel: "debug"}, buf)
}

func TestHandleOrderPlaced_AlertsLowStock(t *testing.T) {
	ctx := context.Background()
	materials := invmemory.NewRawMaterialRepository()
	flour, err := invmodels.NewRawMaterial("Flour", invmodels.UnitGram, decimal.NewFromInt(5), decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, materials.Save(ctx, flour))
	salt, err := invmodels.NewRawMaterial("Salt", invmodels.UnitGram, decimal.NewFromInt(500), decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, materials.Save(ctx, salt))

	var buf bytes.Buffer
	stats := &countingInvalidator{}
	h := handleOrderPlaced(stats, materials, bufferLogger(&buf))

	err = h(ctx, newMessage(t, orderevents.OrderPlacedEvent{
		EventID: uuid.New(),
		OrderID: uuid.New(),
		Consumed: []orderevents.MaterialConsumed{
			{MaterialID: flour.ID, Amount: decimal.NewFromInt(95)},
			{MaterialID: salt.ID, Amount: decimal.NewFromInt(1)},
			{MaterialID: uuid.New(), Amount: decimal.NewFromInt(1)},
		},
		OccurredAt: time.Now(),
	}))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.calls)
	assert.Contains(t, buf.String(), "low stock alert")
	assert.Contains(t, buf.String(), "Flour")
	assert.NotContains(t, buf.String(), "Salt")
}

func TestHandleOrderPlaced_CacheFailureIsNotFatal(t *testing.T) {
	var buf bytes.Buffer
	stats := &countingInvalidator{err: errors.New("redis down")}
	h := handleOrderPlaced(stats, invmemory.NewRawMaterialRepository(), bufferLogger(&buf))

	err := h(context.Background(), newMessage(t, orderevents.OrderPlacedEvent{OrderID: uuid.New()}))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "dashboard cache invalidation failed")
}

func TestHandleOrderPlaced_BadPayload(t *testing.T) {
	h := handleOrderPlaced(&countingInvalidator{}, invmemory.NewRawMaterialRepository(), logger.Discard())
	err := h(context.Background(), message.NewMessage(uuid.NewString(), []byte("{")))
	assert.True(t, events.IsPermanent(err))
}

func TestHandleStockAdjusted(t *testing.T) {
	var buf bytes.Buffer
	stats := &countingInvalidator{}
	h := handleStockAdjusted(stats, bufferLogger(&buf))

	err := h(context.Background(), newMessage(t, invevents.StockAdjustedEvent{
		MaterialID: uuid.New(),
		Name:       "Yeast",
		StockQty:   decimal.NewFromInt(2),
		LowStock:   true,
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.calls)
	assert.Contains(t, buf.String(), "Yeast")
}
