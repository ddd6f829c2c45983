package reconcile

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/damoang/payout-ledger/internal/settlement/domain"
	"github.com/damoang/payout-ledger/internal/settlement/service"
	"github.com/damoang/payout-ledger/pkg/logger"
	pkgredis "github.com/damoang/payout-ledger/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

const lockKey = "payout:reconcile:lock"

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_reconcile_runs_total",
			Help: "Reconciler runs by outcome",
		},
		[]string{"outcome"},
	)
	promotedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_reconcile_promoted_total",
		Help: "Settlements promoted from PENDING to READY by the reconciler",
	})
)

// PendingSource 승격 대상 조회
type PendingSource interface {
	ListPromotable(ctx context.Context, now time.Time, limit int) ([]*domain.Settlement, error)
}

// Promoter PENDING → READY 전이
type Promoter interface {
	MarkReady(ctx context.Context, id, actor string) (*domain.Settlement, error)
}

// Config 워커 설정
type Config struct {
	Interval  time.Duration
	BatchSize int
}

// Result 한 번의 실행 결과
type Result struct {
	Scanned  int
	Promoted int
	Skipped  int
	Failed   int
}

// Worker 취소 가능 기간이 지난 정산을 주기적으로 READY로 승격
// 여러 인스턴스가 떠 있어도 redis 락으로 한 곳에서만 실행된다.
type Worker struct {
	source   PendingSource
	promoter Promoter
	redis    *redis.Client
	config   Config
	now      func() time.Time

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewWorker 생성자. redisClient가 nil이면 락 없이 실행.
func NewWorker(source PendingSource, promoter Promoter, redisClient *redis.Client, cfg Config) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Worker{
		source:   source,
		promoter: promoter,
		redis:    redisClient,
		config:   cfg,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

// Start 백그라운드 goroutine 시작
func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.config.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.stop:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), w.config.Interval)
				if _, err := w.RunOnce(ctx); err != nil {
					logger.GetLogger().Error().Err(err).Msg("settlement reconcile failed")
				}
				cancel()
			}
		}
	}()
	logger.GetLogger().Info().
		Dur("interval", w.config.Interval).
		Int("batch_size", w.config.BatchSize).
		Msg("settlement reconciler started")
}

// Stop 진행 중인 실행이 끝날 때까지 대기
func (w *Worker) Stop() {
	close(w.stop)
	w.wg.Wait()
	logger.GetLogger().Info().Msg("settlement reconciler stopped")
}

// RunOnce 한 배치 승격
func (w *Worker) RunOnce(ctx context.Context) (Result, error) {
	var res Result

	lock := pkgredis.NewLock(w.redis, lockKey, 2*w.config.Interval)
	ok, err := lock.TryLock(ctx)
	if err != nil {
		runsTotal.WithLabelValues("error").Inc()
		return res, err
	}
	if !ok {
		runsTotal.WithLabelValues("locked").Inc()
		return res, nil
	}
	defer func() {
		if err := lock.Unlock(context.Background()); err != nil {
			logger.GetLogger().Warn().Err(err).Msg("reconcile lock release failed")
		}
	}()

	pending, err := w.source.ListPromotable(ctx, w.now(), w.config.BatchSize)
	if err != nil {
		runsTotal.WithLabelValues("error").Inc()
		return res, err
	}
	res.Scanned = len(pending)

	for _, st := range pending {
		if ctx.Err() != nil {
			break
		}
		_, err := w.promoter.MarkReady(ctx, st.ID, service.ActorReconciler)
		switch {
		case err == nil:
			res.Promoted++
		case errors.Is(err, domain.ErrConcurrentTransitionConflict),
			errors.Is(err, domain.ErrInvalidTransition),
			errors.Is(err, domain.ErrAlreadyPaid):
			// 다른 경로에서 이미 전이됨
			res.Skipped++
		default:
			res.Failed++
			log := logger.WithSettlement(st.ID, st.SellerID)
			log.Error().Err(err).Msg("settlement promotion failed")
		}
	}

	promotedTotal.Add(float64(res.Promoted))
	runsTotal.WithLabelValues("ok").Inc()
	if res.Scanned > 0 {
		logger.GetLogger().Info().
			Int("scanned", res.Scanned).
			Int("promoted", res.Promoted).
			Int("skipped", res.Skipped).
			Int("failed", res.Failed).
			Msg("settlement reconcile run")
	}
	return res, nil
}
