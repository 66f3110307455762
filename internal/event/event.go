package event

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/fekuna/omnipos-erp-service/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	TypeInventoryAdjusted  = "inventory.adjusted"
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
	TypeProductCreated     = "product.created"
)

type Envelope struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	TenantID  int64       `json:"tenant_id"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher emits domain events after the owning transaction committed.
// Implementations never fail the caller: delivery problems are logged.
type Publisher interface {
	Publish(ctx context.Context, tenantID int64, eventType string, payload interface{})
}

// Producer is the transport a KafkaPublisher writes to.
type Producer interface {
	Publish(ctx context.Context, key, value []byte) error
}

type KafkaPublisher struct {
	producer Producer
	metrics  *metrics.Metrics
	logger   logger.ZapLogger
	timeout  time.Duration
}

func NewKafkaPublisher(p Producer, m *metrics.Metrics, log logger.ZapLogger) *KafkaPublisher {
	return &KafkaPublisher{producer: p, metrics: m, logger: log, timeout: 5 * time.Second}
}

func (p *KafkaPublisher) Publish(ctx context.Context, tenantID int64, eventType string, payload interface{}) {
	env := Envelope{
		EventID:   uuid.New().String(),
		EventType: eventType,
		TenantID:  tenantID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
	log := logger.FromContext(ctx, p.logger)

	data, err := json.Marshal(env)
	if err != nil {
		log.Error("failed to encode event", zap.String("event_type", eventType), zap.Error(err))
		p.metrics.EventPublishFailed(eventType)
		return
	}

	// The request may already be finishing; the write gets its own deadline.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	key := []byte(strconv.FormatInt(tenantID, 10))
	if err := p.producer.Publish(pubCtx, key, data); err != nil {
		log.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("event_id", env.EventID),
			zap.Error(err),
		)
		p.metrics.EventPublishFailed(eventType)
		return
	}
	log.Debug("event published", zap.String("event_type", eventType), zap.String("event_id", env.EventID))
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, int64, string, interface{}) {}
