package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/damoang/payout-ledger/internal/settlement/domain"
	"gorm.io/gorm"
)

// PolicyRepository 수수료 정책 버전 저장소 인터페이스
type PolicyRepository interface {
	Create(ctx context.Context, policy *domain.CommissionPolicy) error
	FindEffective(ctx context.Context, at time.Time) (*domain.CommissionPolicy, error)
	List(ctx context.Context, limit int) ([]*domain.CommissionPolicy, error)
	Count(ctx context.Context) (int64, error)
}

type policyRepository struct {
	db *gorm.DB
}

// NewPolicyRepository 생성자
func NewPolicyRepository(db *gorm.DB) PolicyRepository {
	return &policyRepository{db: db}
}

// Create 새 정책 버전 추가. 기존 행은 절대 수정하지 않는다.
func (r *policyRepository) Create(ctx context.Context, policy *domain.CommissionPolicy) error {
	if policy.CreatedAt.IsZero() {
		policy.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(policy).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", domain.ErrPolicyVersionExists, policy.EffectiveFrom.Format(time.RFC3339Nano))
		}
		return err
	}
	return nil
}

// FindEffective at 시점에 유효한 정책 (effective_from <= at 중 가장 최신)
func (r *policyRepository) FindEffective(ctx context.Context, at time.Time) (*domain.CommissionPolicy, error) {
	var policy domain.CommissionPolicy
	err := r.db.WithContext(ctx).
		Where("effective_from <= ?", at.UTC()).
		Order("effective_from DESC").
		Order("id DESC").
		First(&policy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPolicyNotFound
		}
		return nil, err
	}
	return &policy, nil
}

// List 최신순 정책 이력
func (r *policyRepository) List(ctx context.Context, limit int) ([]*domain.CommissionPolicy, error) {
	var policies []*domain.CommissionPolicy
	q := r.db.WithContext(ctx).Order("effective_from DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

func (r *policyRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.CommissionPolicy{}).Count(&n).Error
	return n, err
}
