package listener

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-erp-service/internal/event"
	"github.com/fekuna/omnipos-erp-service/internal/model"
	"github.com/fekuna/omnipos-erp-service/internal/product/dto"
	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Consumer interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type Indexer interface {
	Index(ctx context.Context, index, id string, doc interface{}) error
}

// SearchSyncListener keeps the product search index in step with product.created events.
type SearchSyncListener struct {
	consumer Consumer
	indexer  Indexer
	index    string
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewSearchSyncListener(consumer Consumer, indexer Indexer, index string, log logger.ZapLogger) *SearchSyncListener {
	return &SearchSyncListener{
		consumer: consumer,
		indexer:  indexer,
		index:    index,
		logger:   log,
		backoff:  time.Second,
	}
}

// Start blocks until ctx is cancelled.
func (l *SearchSyncListener) Start(ctx context.Context) {
	l.logger.Info("starting product search sync listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping product search sync listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to read kafka message", zap.Error(err))
				time.Sleep(l.backoff)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type productCreated struct {
	EventID   string        `json:"event_id"`
	EventType string        `json:"event_type"`
	TenantID  int64         `json:"tenant_id"`
	Payload   model.Product `json:"payload"`
}

func (l *SearchSyncListener) processMessage(ctx context.Context, value []byte) {
	var env productCreated
	if err := json.Unmarshal(value, &env); err != nil {
		l.logger.Error("failed to unmarshal event", zap.Error(err))
		return
	}
	if env.EventType != event.TypeProductCreated {
		return
	}

	p := &env.Payload
	ictx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := l.indexer.Index(ictx, l.index, strconv.FormatInt(p.ID, 10), dto.NewDocument(p)); err != nil {
		// The offset is committed regardless.
		l.logger.Error("failed to index product",
			zap.String("event_id", env.EventID),
			zap.Int64("product_id", p.ID),
			zap.Error(err),
		)
		return
	}
	l.logger.Debug("product indexed", zap.String("event_id", env.EventID), zap.Int64("product_id", p.ID))
}
