package expire_requests

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/BH-BookingService/internal/domain"
	"github.com/m04kA/BH-BookingService/internal/integrations/notifier"
)

// UseCase фоновое истечение срока pending-запросов
type UseCase struct {
	requestRepo  RequestRepository
	notifier     Notifier
	txManager    TransactionManager
	batchSize    uint64
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// batchSize ограничивает число запросов, обрабатываемых одной транзакцией.
func NewUseCase(
	requestRepo RequestRepository,
	notifier Notifier,
	txManager TransactionManager,
	batchSize uint64,
	logger Logger,
) *UseCase {
	return &UseCase{
		requestRepo:  requestRepo,
		notifier:     notifier,
		txManager:    txManager,
		batchSize:    batchSize,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute переводит просроченные pending-запросы в expired пачками,
// пока очередная пачка не окажется неполной. Возвращает число истекших запросов.
func (uc *UseCase) Execute(ctx context.Context) (int, error) {
	now := uc.timeProvider.Now()
	total := 0

	for {
		var expired []*domain.BookingRequest
		err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
			var err error
			expired, err = uc.requestRepo.ExpireDue(txCtx, now, uc.batchSize)
			return err
		})
		if err != nil {
			uc.logger.Error("ExpireRequests: failed to expire batch: %v", err)
			return total, fmt.Errorf("%w: failed to expire requests: %v", ErrInternal, err)
		}

		for _, r := range expired {
			payload := notifier.Payload{
				"request_id":  r.ID,
				"provider_id": r.ProviderID,
				"event_date":  r.EventDate.String(),
				"status":      string(r.Status),
			}
			uc.notifier.Notify(ctx, r.RequesterID, notifier.KindRequestExpired, payload)
			uc.notifier.Notify(ctx, r.ProviderID, notifier.KindRequestExpired, payload)
		}
		total += len(expired)

		if uc.batchSize == 0 || uint64(len(expired)) < uc.batchSize || ctx.Err() != nil {
			break
		}
	}

	if total > 0 {
		uc.logger.Info("ExpireRequests: expired %d requests", total)
	}
	return total, nil
}

// Run запускает Execute с заданным интервалом до отмены контекста
func (uc *UseCase) Run(ctx context.Context, interval time.Duration) {
	uc.logger.Info("ExpireRequests: sweeper started, interval=%s, batch=%d", interval, uc.batchSize)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			uc.logger.Info("ExpireRequests: sweeper stopped")
			return
		case <-ticker.C:
			if _, err := uc.Execute(ctx); err != nil {
				uc.logger.Warn("ExpireRequests: sweep failed: %v", err)
			}
		}
	}
}
