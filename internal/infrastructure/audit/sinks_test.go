package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domainaudit "github.com/parkwarden/parkwarden/internal/domain/audit"
	"github.com/parkwarden/parkwarden/internal/infrastructure/persistence/models"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

func testEvent() domainaudit.Event {
	return domainaudit.NewEvent("ticket.closed", "ticket", 12, 3,
		map[string]any{"disposition": "collected"},
		time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC))
}

func TestGormSink_Record(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(&models.AuditLogModel{}))

	sink := NewGormSink(gdb)
	event := testEvent()
	require.NoError(t, sink.Record(context.Background(), event))

	var row models.AuditLogModel
	require.NoError(t, gdb.First(&row).Error)
	assert.Equal(t, event.ID, row.EventID)
	assert.Equal(t, "ticket.closed", row.Action)
	assert.Equal(t, uint(12), row.EntityID)
	assert.Equal(t, "collected", row.Detail["disposition"])

	// The event id is unique, so a replay is rejected.
	assert.Error(t, sink.Record(context.Background(), event))
}

type fakePublisher struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestRabbitSink_Record(t *testing.T) {
	pub := &fakePublisher{}
	sink := newRabbitSink(pub, "parkwarden.audit", logger.NewNop())
	event := testEvent()

	require.NoError(t, sink.Record(context.Background(), event))

	assert.Equal(t, "parkwarden.audit", pub.exchange)
	assert.Equal(t, "ticket.closed", pub.key)
	assert.Equal(t, "application/json", pub.msg.ContentType)
	assert.Equal(t, event.ID, pub.msg.MessageId)

	var body map[string]any
	require.NoError(t, json.Unmarshal(pub.msg.Body, &body))
	assert.Equal(t, "ticket", body["entity_type"])
	assert.EqualValues(t, 12, body["entity_id"])
}

func TestRabbitSink_PublishFailure(t *testing.T) {
	sink := newRabbitSink(&fakePublisher{err: errors.New("channel closed")}, "x", logger.NewNop())

	outcome := domainaudit.Emit(context.Background(), sink, testEvent())
	assert.False(t, outcome.Delivered)
	assert.ErrorContains(t, outcome.Err, "channel closed")
}
