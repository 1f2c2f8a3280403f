package sweeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/m04kA/SMC-HoldService/internal/domain"
	holdRepo "github.com/m04kA/SMC-HoldService/internal/infra/storage/hold"
	"github.com/m04kA/SMC-HoldService/pkg/metrics"
)

// Sweeper фоновый процесс, переводящий просроченные hold'ы в expired
// и освобождающий их слоты. Каждый hold обрабатывается в отдельной
// транзакции: сбой на одном hold'е не останавливает проход.
type Sweeper struct {
	holdRepo     HoldRepository
	capacity     CapacityLedger
	txManager    TransactionManager
	metrics      *metrics.Metrics
	interval     time.Duration
	batchSize    uint64
	timeProvider TimeProvider
	logger       Logger

	scheduler gocron.Scheduler
}

// New создает новый sweeper.
// metrics может быть nil, если сбор метрик выключен.
func New(
	holdRepo HoldRepository,
	capacity CapacityLedger,
	txManager TransactionManager,
	m *metrics.Metrics,
	interval time.Duration,
	batchSize uint64,
	logger Logger,
) *Sweeper {
	return &Sweeper{
		holdRepo:     holdRepo,
		capacity:     capacity,
		txManager:    txManager,
		metrics:      m,
		interval:     interval,
		batchSize:    batchSize,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Start запускает периодические проходы sweeper'а
func (s *Sweeper) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("sweeper: create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			s.RunOnce(ctx)
		}),
	)
	if err != nil {
		return fmt.Errorf("sweeper: schedule job: %w", err)
	}

	s.scheduler = scheduler
	scheduler.Start()
	s.logger.Info("Sweeper: started, interval=%s, batchSize=%d", s.interval, s.batchSize)
	return nil
}

// Stop останавливает sweeper; текущий проход дорабатывает до конца
func (s *Sweeper) Stop() error {
	if s.scheduler == nil {
		return nil
	}
	s.logger.Info("Sweeper: stopping")
	return s.scheduler.Shutdown()
}

// RunOnce выполняет один проход: собирает hold'ы с истекшим дедлайном
// и обрабатывает каждый независимо. Возвращает число переведенных
// в expired hold'ов.
func (s *Sweeper) RunOnce(ctx context.Context) int {
	now := s.timeProvider.Now()

	candidates, err := s.holdRepo.ListExpireCandidates(ctx, now, s.batchSize)
	if err != nil {
		s.logger.Error("Sweeper: failed to list expire candidates: %v", err)
		s.observe("error")
		return 0
	}

	if len(candidates) == 0 {
		return 0
	}

	s.logger.Info("Sweeper: found %d expire candidates", len(candidates))

	expired := 0
	for _, hold := range candidates {
		// Сверяем границу дедлайна той же доменной проверкой, что и
		// входящие запросы: hold с дедлайном ровно в now еще жив
		if !hold.DeadlinePassed(now) {
			continue
		}
		if err := s.expireOne(ctx, hold.ID, hold.Status, hold.Slot); err != nil {
			if errors.Is(err, holdRepo.ErrTransitionConflict) {
				// Hold ушел из просроченного статуса между выборкой
				// и обработкой - оплата или отмена успели раньше
				s.logger.Info("Sweeper: hold id=%d changed status concurrently, skipping", hold.ID)
				s.observe("conflict")
				continue
			}
			// Сбой на одном hold'е не прерывает проход
			s.logger.Error("Sweeper: failed to expire hold id=%d: %v", hold.ID, err)
			s.observe("error")
			continue
		}
		s.logger.Info("Sweeper: hold id=%d expired, slot %s released", hold.ID, hold.Slot)
		s.observe("expired")
		expired++
	}

	s.logger.Info("Sweeper: pass complete, expired %d of %d candidates", expired, len(candidates))
	return expired
}

// expireOne переводит один hold в expired и освобождает его слот
// в одной транзакции. CAS-условие на исходный статус гарантирует,
// что конкурентный переход не будет затерт.
func (s *Sweeper) expireOne(ctx context.Context, id int64, from domain.HoldStatus, slot domain.SlotKey) error {
	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.holdRepo.Expire(txCtx, id, from); err != nil {
			return err
		}
		return s.capacity.Release(txCtx, slot)
	})
}

func (s *Sweeper) observe(result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.SweepProcessedTotal.WithLabelValues(result).Inc()
}
