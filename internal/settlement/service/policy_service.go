package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/damoang/payout-ledger/internal/settlement/domain"
	"github.com/damoang/payout-ledger/internal/settlement/repository"
	"github.com/damoang/payout-ledger/pkg/logger"
	"github.com/shopspring/decimal"
)

// PolicyService 수수료 정책 서비스 인터페이스
type PolicyService interface {
	GetEffectivePolicy(ctx context.Context) (*domain.CommissionPolicy, error)
	SetPolicy(ctx context.Context, req *domain.SetPolicyRequest, actor string) (*domain.CommissionPolicy, error)
	History(ctx context.Context, limit int) ([]*domain.CommissionPolicy, error)
	EnsureDefault(ctx context.Context, commissionPercent, gstPercent decimal.Decimal) (*domain.CommissionPolicy, bool, error)
}

type policyService struct {
	repo repository.PolicyRepository
}

// NewPolicyService 생성자
func NewPolicyService(repo repository.PolicyRepository) PolicyService {
	return &policyService{repo: repo}
}

// GetEffectivePolicy 현재 시점에 유효한 정책
func (s *policyService) GetEffectivePolicy(ctx context.Context) (*domain.CommissionPolicy, error) {
	return s.repo.FindEffective(ctx, time.Now())
}

// SetPolicy 새 정책 버전 추가
// 기존 정산은 생성 시점의 요율 스냅샷을 보유하므로 재계산되지 않는다.
func (s *policyService) SetPolicy(ctx context.Context, req *domain.SetPolicyRequest, actor string) (*domain.CommissionPolicy, error) {
	if req.CommissionPercent == nil || req.GSTPercent == nil {
		return nil, fmt.Errorf("%w: commission_percent and gst_percent are required", domain.ErrInvalidPolicyValue)
	}

	now := time.Now().UTC()
	effectiveFrom := now
	if req.EffectiveFrom != nil {
		// 과거 시점 정책은 이력을 다시 쓰는 것과 같으므로 거부
		if req.EffectiveFrom.Before(now.Add(-time.Second)) {
			return nil, fmt.Errorf("%w: effective_from %s is in the past", domain.ErrInvalidPolicyValue, req.EffectiveFrom.Format(time.RFC3339))
		}
		effectiveFrom = req.EffectiveFrom.UTC()
	}

	policy := &domain.CommissionPolicy{
		CommissionPercent: *req.CommissionPercent,
		GSTPercent:        *req.GSTPercent,
		EffectiveFrom:     effectiveFrom,
		CreatedBy:         actor,
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, policy); err != nil {
		return nil, err
	}
	policyChanges.Inc()

	logger.GetLogger().Info().
		Uint64("policy_id", policy.ID).
		Str("commission_percent", policy.CommissionPercent.String()).
		Str("gst_percent", policy.GSTPercent.String()).
		Time("effective_from", policy.EffectiveFrom).
		Str("actor", actor).
		Msg("commission policy version added")

	return policy, nil
}

// History 정책 이력 (최신순)
func (s *policyService) History(ctx context.Context, limit int) ([]*domain.CommissionPolicy, error) {
	return s.repo.List(ctx, limit)
}

// EnsureDefault 정책이 하나도 없을 때 기본 정책을 등록. 이미 있으면 아무것도 하지 않는다.
func (s *policyService) EnsureDefault(ctx context.Context, commissionPercent, gstPercent decimal.Decimal) (*domain.CommissionPolicy, bool, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return nil, false, err
	}
	if n > 0 {
		current, err := s.GetEffectivePolicy(ctx)
		if err != nil && !errors.Is(err, domain.ErrPolicyNotFound) {
			return nil, false, err
		}
		return current, false, nil
	}

	policy, err := s.SetPolicy(ctx, &domain.SetPolicyRequest{
		CommissionPercent: &commissionPercent,
		GSTPercent:        &gstPercent,
	}, "system:bootstrap")
	if err != nil {
		return nil, false, err
	}
	return policy, true, nil
}
