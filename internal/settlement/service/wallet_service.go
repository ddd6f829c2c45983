package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/damoang/payout-ledger/internal/settlement/domain"
	"github.com/damoang/payout-ledger/internal/settlement/repository"
	"github.com/damoang/payout-ledger/pkg/cache"
	"github.com/damoang/payout-ledger/pkg/logger"
)

// 캐시 키는 세대 번호를 포함한다. 정산 생성 후 세대를 올리면 이전 값은 읽히지 않는다.
const (
	walletGenerationKey = cache.PrefixWallet + "gen"
	walletBalanceKey    = cache.PrefixWallet + "balance:%d"
)

// WalletService 플랫폼 지갑 집계 (정산 원장에 대한 조회 전용 뷰)
type WalletService interface {
	GetWalletBalance(ctx context.Context) (domain.Amount, error)
	GetWallet(ctx context.Context) (*domain.WalletView, error)
	Invalidate(ctx context.Context)
}

type walletService struct {
	repo     repository.SettlementRepository
	cache    cache.Service
	currency string
}

// NewWalletService 생성자. cacheSvc가 nil이면 매번 원장을 직접 집계한다.
func NewWalletService(repo repository.SettlementRepository, cacheSvc cache.Service, currency string) WalletService {
	if cacheSvc != nil && !cacheSvc.IsAvailable() {
		cacheSvc = nil
	}
	return &walletService{repo: repo, cache: cacheSvc, currency: currency}
}

// GetWalletBalance Σ(platformFee + tax), 지급 상태와 무관
func (s *walletService) GetWalletBalance(ctx context.Context) (domain.Amount, error) {
	if s.cache == nil {
		return s.repo.SumPlatformRevenue(ctx)
	}

	gen, err := s.cache.Generation(ctx, walletGenerationKey)
	if err != nil {
		logger.GetLogger().Warn().Err(err).Msg("wallet cache generation read failed")
		return s.repo.SumPlatformRevenue(ctx)
	}

	key := fmt.Sprintf(walletBalanceKey, gen)
	var cached int64
	err = s.cache.Get(ctx, key, &cached)
	if err == nil {
		return domain.Amount(cached), nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		logger.GetLogger().Warn().Err(err).Msg("wallet cache read failed")
	}

	total, err := s.repo.SumPlatformRevenue(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Set(ctx, key, int64(total), cache.TTLShort); err != nil {
		logger.GetLogger().Warn().Err(err).Msg("wallet cache write failed")
	}
	return total, nil
}

// GetWallet 지갑 잔액 + READY 상태 지급 예정액
func (s *walletService) GetWallet(ctx context.Context) (*domain.WalletView, error) {
	balance, err := s.GetWalletBalance(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.SumNetByStatus(ctx, domain.StatusReady)
	if err != nil {
		return nil, err
	}
	return &domain.WalletView{
		TotalBalance:   balance,
		PendingPayouts: pending,
		Currency:       s.currency,
	}, nil
}

// Invalidate 정산 생성이 커밋된 뒤 호출
func (s *walletService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Bump(ctx, walletGenerationKey); err != nil {
		// 세대 증가 실패 시 캐시는 TTL 동안만 유지된다
		logger.GetLogger().Error().Err(err).Msg("wallet cache invalidation failed")
	}
}
