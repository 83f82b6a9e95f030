package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/config"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/events"
)

// AlertService surfaces operator-facing signals for identity events. A
// failed registration rollback is the one condition that demands manual
// cleanup, so it alerts louder than anything else here.
type AlertService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.AlertConfig
}

// NewAlertService creates the service.
func NewAlertService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.AlertConfig) *AlertService {
	return &AlertService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (a *AlertService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventAccountProvisioned, a.handleAccountProvisioned)
	a.dispatcher.Subscribe(events.EventRegistrationRollbackFailed, a.handleRollbackFailed)
}

func (a *AlertService) handleAccountProvisioned(ctx context.Context, event events.Event) error {
	a.logger.Info("AccountProvisioned",
		zap.String("account_id", event.AccountID),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AlertService) handleRollbackFailed(ctx context.Context, event events.Event) error {
	a.logger.Error("RegistrationRollbackFailed: operator intervention required",
		zap.Any("payload", event.Payload))
	a.sendWebhookAlertStub(ctx, event)
	return nil
}

func (a *AlertService) sendWebhookAlertStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(a.cfg.WebhookURL) == "" {
		return
	}
	a.logger.Debug("sendWebhookAlertStub",
		zap.String("url", a.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
