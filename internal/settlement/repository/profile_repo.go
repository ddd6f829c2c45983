package repository

import (
	"context"
	"errors"
	"time"

	"github.com/damoang/payout-ledger/internal/settlement/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository 판매자 정산 계좌 프로필 저장소
type ProfileRepository interface {
	FindBySeller(ctx context.Context, sellerID uint64) (*domain.SellerPayoutProfile, error)
	Upsert(ctx context.Context, profile *domain.SellerPayoutProfile) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 생성자
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindBySeller(ctx context.Context, sellerID uint64) (*domain.SellerPayoutProfile, error) {
	var profile domain.SellerPayoutProfile
	err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Upsert 프로필 시스템에서 전달된 값으로 덮어쓰기
func (r *profileRepository) Upsert(ctx context.Context, profile *domain.SellerPayoutProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "seller_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"bank_verified", "account_masked", "updated_at"}),
	}).Create(profile).Error
}
