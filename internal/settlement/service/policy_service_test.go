package service

import (
	"context"
	"testing"
	"time"

	"github.com/damoang/payout-ledger/internal/settlement/domain"
	"github.com/damoang/payout-ledger/internal/settlement/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyService_SetPolicy(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *domain.SetPolicyRequest
		wantErr error
	}{
		{
			name: "성공",
			req:  &domain.SetPolicyRequest{CommissionPercent: decPtr("7.5"), GSTPercent: decPtr("18")},
		},
		{
			name: "성공 - 미래 시점",
			req: &domain.SetPolicyRequest{
				CommissionPercent: decPtr("8"), GSTPercent: decPtr("18"),
				EffectiveFrom: timePtr(time.Now().Add(24 * time.Hour)),
			},
		},
		{
			name:    "실패 - 음수 수수료",
			req:     &domain.SetPolicyRequest{CommissionPercent: decPtr("-1"), GSTPercent: decPtr("18")},
			wantErr: domain.ErrInvalidPolicyValue,
		},
		{
			name:    "실패 - 100 초과 GST",
			req:     &domain.SetPolicyRequest{CommissionPercent: decPtr("5"), GSTPercent: decPtr("100.01")},
			wantErr: domain.ErrInvalidPolicyValue,
		},
		{
			name:    "실패 - 값 누락",
			req:     &domain.SetPolicyRequest{CommissionPercent: decPtr("5")},
			wantErr: domain.ErrInvalidPolicyValue,
		},
		{
			name: "실패 - 과거 시점",
			req: &domain.SetPolicyRequest{
				CommissionPercent: decPtr("5"), GSTPercent: decPtr("18"),
				EffectiveFrom: timePtr(time.Now().Add(-time.Hour)),
			},
			wantErr: domain.ErrInvalidPolicyValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewPolicyService(repository.NewPolicyRepository(setupTestDB(t)))

			policy, err := svc.SetPolicy(ctx, tt.req, "admin")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, policy)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, policy.ID)
			assert.Equal(t, "admin", policy.CreatedBy)
		})
	}
}

func TestPolicyService_FutureVersionNotYetEffective(t *testing.T) {
	ctx := context.Background()
	svc := NewPolicyService(repository.NewPolicyRepository(setupTestDB(t)))

	current, err := svc.SetPolicy(ctx, &domain.SetPolicyRequest{CommissionPercent: decPtr("5"), GSTPercent: decPtr("18")}, "admin")
	require.NoError(t, err)
	_, err = svc.SetPolicy(ctx, &domain.SetPolicyRequest{
		CommissionPercent: decPtr("9"), GSTPercent: decPtr("18"),
		EffectiveFrom: timePtr(time.Now().Add(time.Hour)),
	}, "admin")
	require.NoError(t, err)

	effective, err := svc.GetEffectivePolicy(ctx)
	require.NoError(t, err)
	assert.Equal(t, current.ID, effective.ID)

	history, err := svc.History(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestPolicyService_SameEffectiveFrom(t *testing.T) {
	ctx := context.Background()
	svc := NewPolicyService(repository.NewPolicyRepository(setupTestDB(t)))
	at := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)

	first, err := svc.SetPolicy(ctx, &domain.SetPolicyRequest{
		CommissionPercent: decPtr("6"), GSTPercent: decPtr("18"), EffectiveFrom: timePtr(at),
	}, "admin:1")
	require.NoError(t, err)

	// 같은 시점 재등록은 409로 분류되는 충돌
	dup, err := svc.SetPolicy(ctx, &domain.SetPolicyRequest{
		CommissionPercent: decPtr("7"), GSTPercent: decPtr("18"), EffectiveFrom: timePtr(at),
	}, "admin:2")
	assert.Nil(t, dup)
	require.ErrorIs(t, err, domain.ErrPolicyVersionExists)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Equal(t, "POLICY_VERSION_EXISTS", domain.CodeOf(err))

	history, err := svc.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, first.ID, history[0].ID)
	assert.True(t, history[0].CommissionPercent.Equal(decimal.NewFromInt(6)))
}

func TestPolicyService_EnsureDefault(t *testing.T) {
	ctx := context.Background()
	svc := NewPolicyService(repository.NewPolicyRepository(setupTestDB(t)))

	_, err := svc.GetEffectivePolicy(ctx)
	assert.ErrorIs(t, err, domain.ErrPolicyNotFound)

	seeded, created, err := svc.EnsureDefault(ctx, decimal.NewFromInt(5), decimal.NewFromInt(18))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "system:bootstrap", seeded.CreatedBy)

	again, created, err := svc.EnsureDefault(ctx, decimal.NewFromInt(10), decimal.NewFromInt(18))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, seeded.ID, again.ID)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
