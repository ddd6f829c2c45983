package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/damoang/payout-ledger/internal/settlement/domain"
	"gorm.io/gorm"
)

// SettlementRepository 정산 저장소 인터페이스
type SettlementRepository interface {
	// 생성/전이
	Create(ctx context.Context, settlement *domain.Settlement, entry *domain.TransitionLog) error
	ApplyTransition(ctx context.Context, settlement *domain.Settlement, expectedVersion int64, entry *domain.TransitionLog) error

	// 조회
	FindByID(ctx context.Context, id string) (*domain.Settlement, error)
	FindBySellerAndOrder(ctx context.Context, sellerID uint64, orderID string) (*domain.Settlement, error)
	List(ctx context.Context, filter *domain.SettlementFilter) ([]*domain.Settlement, int64, error)
	ListPromotable(ctx context.Context, now time.Time, limit int) ([]*domain.Settlement, error)
	ListTransitions(ctx context.Context, settlementID string) ([]*domain.TransitionLog, error)

	// 집계
	SumPlatformRevenue(ctx context.Context) (domain.Amount, error)
	SumNetByStatus(ctx context.Context, status domain.SettlementStatus) (domain.Amount, error)
	TotalsBySeller(ctx context.Context, sellerID uint64) ([]domain.StatusTotal, error)
}

type settlementRepository struct {
	db *gorm.DB
}

// NewSettlementRepository 생성자
// db는 TranslateError: true 로 열려 있어야 중복 키가 gorm.ErrDuplicatedKey로 전달된다.
func NewSettlementRepository(db *gorm.DB) SettlementRepository {
	return &settlementRepository{db: db}
}

// Create 정산 레코드와 첫 전이 로그(sequence 1)를 한 트랜잭션으로 기록
func (r *settlementRepository) Create(ctx context.Context, settlement *domain.Settlement, entry *domain.TransitionLog) error {
	now := time.Now().UTC()
	settlement.CreatedAt = now
	settlement.UpdatedAt = now
	settlement.Version = 1

	entry.SettlementID = settlement.ID
	entry.Sequence = settlement.Version
	entry.CreatedAt = now

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(settlement).Error; err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: seller=%d order=%s", domain.ErrDuplicateSettlement, settlement.SellerID, settlement.OrderID)
	}
	return err
}

// ApplyTransition 저장된 상태/버전이 기대값과 같을 때만 갱신하는 조건부 업데이트
// 갱신된 행이 없으면 다른 요청이 먼저 전이한 것이므로 ErrConcurrentTransitionConflict.
func (r *settlementRepository) ApplyTransition(ctx context.Context, settlement *domain.Settlement, expectedVersion int64, entry *domain.TransitionLog) error {
	now := time.Now().UTC()
	next := expectedVersion + 1

	updates := map[string]interface{}{
		"status":     settlement.Status,
		"version":    next,
		"updated_at": now,
	}
	if settlement.Status == domain.StatusPaid {
		updates["transaction_ref"] = settlement.TransactionRef
		updates["paid_at"] = settlement.PaidAt
	}

	entry.SettlementID = settlement.ID
	entry.Sequence = next
	entry.CreatedAt = now

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Settlement{}).
			Where("id = ? AND status = ? AND version = ?", settlement.ID, entry.FromStatus, expectedVersion).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrConcurrentTransitionConflict
		}
		return tx.Create(entry).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConcurrentTransitionConflict
	}
	if err != nil {
		return err
	}

	settlement.Version = next
	settlement.UpdatedAt = now
	return nil
}

// FindByID ID로 정산 조회
func (r *settlementRepository) FindByID(ctx context.Context, id string) (*domain.Settlement, error) {
	var settlement domain.Settlement
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&settlement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSettlementNotFound
		}
		return nil, err
	}
	return &settlement, nil
}

// FindBySellerAndOrder (seller_id, order_id) 유니크 키로 조회
func (r *settlementRepository) FindBySellerAndOrder(ctx context.Context, sellerID uint64, orderID string) (*domain.Settlement, error) {
	var settlement domain.Settlement
	err := r.db.WithContext(ctx).
		Where("seller_id = ? AND order_id = ?", sellerID, orderID).
		First(&settlement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSettlementNotFound
		}
		return nil, err
	}
	return &settlement, nil
}

// List 정산 목록 (SellerID 0이면 전체)
func (r *settlementRepository) List(ctx context.Context, filter *domain.SettlementFilter) ([]*domain.Settlement, int64, error) {
	var settlements []*domain.Settlement
	var total int64

	filter.Normalize()
	query := r.db.WithContext(ctx).Model(&domain.Settlement{})

	if filter.SellerID > 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := query.Order("created_at DESC").Order("id ASC").
		Offset(offset).Limit(filter.Limit).
		Find(&settlements).Error
	if err != nil {
		return nil, 0, err
	}

	return settlements, total, nil
}

// ListPromotable 취소 가능 기간이 지난 PENDING 정산
func (r *settlementRepository) ListPromotable(ctx context.Context, now time.Time, limit int) ([]*domain.Settlement, error) {
	var settlements []*domain.Settlement
	err := r.db.WithContext(ctx).
		Where("status = ? AND eligible_at <= ?", domain.StatusPending, now.UTC()).
		Order("eligible_at ASC").
		Limit(limit).
		Find(&settlements).Error
	if err != nil {
		return nil, err
	}
	return settlements, nil
}

// ListTransitions 전이 로그 (sequence 순)
func (r *settlementRepository) ListTransitions(ctx context.Context, settlementID string) ([]*domain.TransitionLog, error) {
	var logs []*domain.TransitionLog
	err := r.db.WithContext(ctx).
		Where("settlement_id = ?", settlementID).
		Order("sequence ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// SumPlatformRevenue 상태와 무관하게 Σ(platform_fee + tax)
func (r *settlementRepository) SumPlatformRevenue(ctx context.Context) (domain.Amount, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Settlement{}).
		Select("COALESCE(SUM(platform_fee + tax), 0)").
		Scan(&total).Error
	return domain.Amount(total), err
}

// SumNetByStatus 특정 상태 정산액 합계
func (r *settlementRepository) SumNetByStatus(ctx context.Context, status domain.SettlementStatus) (domain.Amount, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Settlement{}).
		Where("status = ?", status).
		Select("COALESCE(SUM(net_amount), 0)").
		Scan(&total).Error
	return domain.Amount(total), err
}

type statusTotalRow struct {
	Status     string
	TotalCount int64
	TotalNet   int64
}

// TotalsBySeller 판매자의 상태별 건수/정산액
func (r *settlementRepository) TotalsBySeller(ctx context.Context, sellerID uint64) ([]domain.StatusTotal, error) {
	var rows []statusTotalRow
	err := r.db.WithContext(ctx).Model(&domain.Settlement{}).
		Select("status, COUNT(*) AS total_count, COALESCE(SUM(net_amount), 0) AS total_net").
		Where("seller_id = ?", sellerID).
		Group("status").
		Order("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make([]domain.StatusTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, domain.StatusTotal{
			Status: domain.SettlementStatus(row.Status),
			Count:  row.TotalCount,
			Net:    domain.Amount(row.TotalNet),
		})
	}
	return totals, nil
}
