package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/product-catalog/internal/events"
)

// AuditService records catalog changes.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventProductCreated, a.handleProductCreated)
}

func (a *AuditService) handleProductCreated(_ context.Context, event events.Event) error {
	a.logger.Info("ProductCreated",
		zap.String("event_id", event.ID),
		zap.Int64("product_id", event.ProductID),
		zap.Any("payload", event.Payload))
	return nil
}
