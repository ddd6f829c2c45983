package service

import (
	"context"
	"fmt"

	"github.com/damoang/payout-ledger/internal/settlement/domain"
	"github.com/damoang/payout-ledger/internal/settlement/repository"
	"github.com/damoang/payout-ledger/pkg/logger"
)

// ProfileService 판매자 프로필 시스템에서 넘어오는 계좌 검증 상태 동기화
type ProfileService interface {
	Get(ctx context.Context, sellerID uint64) (*domain.SellerPayoutProfile, error)
	Sync(ctx context.Context, sellerID uint64, req *domain.SyncProfileRequest) (*domain.SellerPayoutProfile, error)
}

type profileService struct {
	repo repository.ProfileRepository
}

// NewProfileService 생성자
func NewProfileService(repo repository.ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

func (s *profileService) Get(ctx context.Context, sellerID uint64) (*domain.SellerPayoutProfile, error) {
	return s.repo.FindBySeller(ctx, sellerID)
}

func (s *profileService) Sync(ctx context.Context, sellerID uint64, req *domain.SyncProfileRequest) (*domain.SellerPayoutProfile, error) {
	if sellerID == 0 || req.BankVerified == nil {
		return nil, fmt.Errorf("%w: seller_id and bank_verified are required", domain.ErrInvalidInput)
	}

	profile := &domain.SellerPayoutProfile{
		SellerID:      sellerID,
		BankVerified:  *req.BankVerified,
		AccountMasked: req.AccountMasked,
	}
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	logger.GetLogger().Info().
		Uint64("seller_id", sellerID).
		Bool("bank_verified", profile.BankVerified).
		Msg("payout profile synced")
	return profile, nil
}
