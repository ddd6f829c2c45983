package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/damoang/payout-ledger/internal/settlement/domain"
	"github.com/damoang/payout-ledger/internal/settlement/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPendingSource struct {
	mock.Mock
}

func (m *MockPendingSource) ListPromotable(ctx context.Context, now time.Time, limit int) ([]*domain.Settlement, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Settlement), args.Error(1)
}

type MockPromoter struct {
	mock.Mock
}

func (m *MockPromoter) MarkReady(ctx context.Context, id, actor string) (*domain.Settlement, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

func TestWorker_RunOnce(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("성공 - 대상 전부 승격", func(t *testing.T) {
		source := new(MockPendingSource)
		promoter := new(MockPromoter)
		source.On("ListPromotable", mock.Anything, fixed, 50).Return([]*domain.Settlement{
			{ID: "s-1", SellerID: 1}, {ID: "s-2", SellerID: 2},
		}, nil)
		promoter.On("MarkReady", mock.Anything, "s-1", service.ActorReconciler).Return(&domain.Settlement{ID: "s-1", Status: domain.StatusReady}, nil)
		promoter.On("MarkReady", mock.Anything, "s-2", service.ActorReconciler).Return(&domain.Settlement{ID: "s-2", Status: domain.StatusReady}, nil)

		w := NewWorker(source, promoter, nil, Config{Interval: time.Second, BatchSize: 50})
		w.now = func() time.Time { return fixed }

		res, err := w.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, Result{Scanned: 2, Promoted: 2}, res)
		source.AssertExpectations(t)
		promoter.AssertExpectations(t)
	})

	t.Run("이미 전이된 정산은 건너뜀", func(t *testing.T) {
		source := new(MockPendingSource)
		promoter := new(MockPromoter)
		source.On("ListPromotable", mock.Anything, fixed, 100).Return([]*domain.Settlement{
			{ID: "s-1"}, {ID: "s-2"}, {ID: "s-3"},
		}, nil)
		promoter.On("MarkReady", mock.Anything, "s-1", service.ActorReconciler).Return(nil, domain.ErrConcurrentTransitionConflict)
		promoter.On("MarkReady", mock.Anything, "s-2", service.ActorReconciler).Return(nil, domain.ErrInvalidTransition)
		promoter.On("MarkReady", mock.Anything, "s-3", service.ActorReconciler).Return(nil, errors.New("db gone"))

		w := NewWorker(source, promoter, nil, Config{})
		w.now = func() time.Time { return fixed }

		res, err := w.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, Result{Scanned: 3, Skipped: 2, Failed: 1}, res)
	})

	t.Run("실패 - 조회 에러", func(t *testing.T) {
		source := new(MockPendingSource)
		promoter := new(MockPromoter)
		source.On("ListPromotable", mock.Anything, fixed, 100).Return(nil, errors.New("db gone"))

		w := NewWorker(source, promoter, nil, Config{})
		w.now = func() time.Time { return fixed }

		_, err := w.RunOnce(ctx)
		assert.Error(t, err)
		promoter.AssertNotCalled(t, "MarkReady", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestWorker_StartStop(t *testing.T) {
	called := make(chan struct{}, 1)
	source := new(MockPendingSource)
	source.On("ListPromotable", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case called <- struct{}{}:
			default:
			}
		}).
		Return([]*domain.Settlement{}, nil)

	w := NewWorker(source, new(MockPromoter), nil, Config{Interval: 10 * time.Millisecond})
	w.Start()
	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("reconciler did not run")
	}
	w.Stop()
}
