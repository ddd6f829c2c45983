package service

import (
	"context"
	"errors"

	"github.com/damoang/payout-ledger/internal/settlement/domain"
	"github.com/damoang/payout-ledger/internal/settlement/repository"
)

// BankGate 판매자 계좌 검증 여부로 지급 가능 여부를 판단
type BankGate interface {
	CanPayout(ctx context.Context, sellerID uint64) (bool, error)
}

type profileBankGate struct {
	profiles repository.ProfileRepository
}

// NewBankGate 프로필 저장소 기반 BankGate
func NewBankGate(profiles repository.ProfileRepository) BankGate {
	return &profileBankGate{profiles: profiles}
}

// CanPayout 매 호출마다 프로필을 다시 읽는다. 이전 실패 결과를 캐시하지 않음.
// 프로필이 없는 판매자는 미검증으로 본다.
func (g *profileBankGate) CanPayout(ctx context.Context, sellerID uint64) (bool, error) {
	profile, err := g.profiles.FindBySeller(ctx, sellerID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return false, nil
		}
		return false, err
	}
	return profile.BankVerified, nil
}
