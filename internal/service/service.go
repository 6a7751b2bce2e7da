package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Freeeeeet/frontdesk/internal/apperr"
	"github.com/Freeeeeet/frontdesk/internal/model"
)

var tracer = otel.Tracer("github.com/Freeeeeet/frontdesk/internal/service")

// Publisher отправляет доменные события. Ошибка публикации не отменяет операцию
type Publisher interface {
	Publish(ctx context.Context, key string, payload any) error
}

// Cache байтовый кэш с ключами. TTL задаёт реализация
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, any) error { return nil }

type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (nopCache) Set(context.Context, string, []byte) error         { return nil }
func (nopCache) Delete(context.Context, string) error              { return nil }

const boardCacheKey = "frontdesk:board"

// notifier общая часть сервисов: события и сброс кэша доски
type notifier struct {
	events Publisher
	cache  Cache
	logger *zap.Logger
}

func newNotifier(events Publisher, cache Cache, logger *zap.Logger) notifier {
	if events == nil {
		events = nopPublisher{}
	}
	if cache == nil {
		cache = nopCache{}
	}
	return notifier{events: events, cache: cache, logger: logger}
}

func (n notifier) publish(ctx context.Context, key string, payload any) {
	if err := n.events.Publish(ctx, key, payload); err != nil {
		n.logger.Warn("Failed to publish event", zap.String("key", key), zap.Error(err))
	}
}

func (n notifier) invalidateBoard(ctx context.Context) {
	if err := n.cache.Delete(ctx, boardCacheKey); err != nil {
		n.logger.Warn("Failed to invalidate room board cache", zap.Error(err))
	}
}

// finishSpan помечает span ошибкой и закрывает его
func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func requirePositive(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return apperr.Invalid(field, "must be greater than zero")
	}
	return requirePaise(field, v)
}

// requirePaise суммы хранятся с точностью до копеек, NUMERIC(12,2)
func requirePaise(field string, v decimal.Decimal) error {
	if !v.Equal(v.Round(2)) {
		return apperr.Invalid(field, "must have at most 2 decimal places")
	}
	return nil
}

func requireNonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return apperr.Invalid(field, "must not be negative")
	}
	return requirePaise(field, v)
}

func requireMoneyChannel(field string, ch model.PaymentChannel) error {
	if !ch.IsMoney() {
		return apperr.Invalid(field, "must be cash or electronic")
	}
	return nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func idField(key string, id uuid.UUID) zap.Field {
	return zap.String(key, id.String())
}

// isDomain отличает отказ по бизнес-правилу от сбоя для логов
func isDomain(err error) bool {
	return apperr.IsDomain(err) && !errors.Is(err, context.Canceled)
}
