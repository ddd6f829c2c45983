package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus 정산 지급 상태
type SettlementStatus string

const (
	StatusPending SettlementStatus = "PENDING" // 주문 취소 가능 기간
	StatusReady   SettlementStatus = "READY"   // 지급 가능
	StatusHold    SettlementStatus = "HOLD"    // 관리자 보류
	StatusPaid    SettlementStatus = "PAID"    // 지급 완료 (종료 상태)
)

// IsValid 알려진 상태인지 확인
func (s SettlementStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusReady, StatusHold, StatusPaid:
		return true
	}
	return false
}

// Settlement 주문 1건에 대한 판매자 정산 엔티티
// 금액 필드는 생성 시점에 확정되며 이후 상태 전이로만 변경된다.
type Settlement struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	SellerID uint64 `gorm:"column:seller_id;not null;uniqueIndex:uk_settlement_seller_order,priority:1" json:"seller_id"`
	OrderID  string `gorm:"column:order_id;size:64;not null;uniqueIndex:uk_settlement_seller_order,priority:2" json:"order_id"`

	// 생성 시점 정책 스냅샷
	PolicyID                 uint64          `gorm:"column:policy_id;not null" json:"policy_id"`
	CommissionPercentApplied decimal.Decimal `gorm:"column:commission_percent_applied;type:decimal(7,4);not null" json:"commission_percent_applied"`
	GSTPercentApplied        decimal.Decimal `gorm:"column:gst_percent_applied;type:decimal(7,4);not null" json:"gst_percent_applied"`

	// 금액 (최소 단위)
	GrossAmount Amount `gorm:"column:gross_amount;not null" json:"gross_amount"`
	PlatformFee Amount `gorm:"column:platform_fee;not null" json:"platform_fee"`
	Tax         Amount `gorm:"column:tax;not null" json:"tax"`
	NetAmount   Amount `gorm:"column:net_amount;not null" json:"net_amount"`
	Currency    string `gorm:"size:3;not null" json:"currency"`

	// 상태
	Status         SettlementStatus `gorm:"size:10;not null;index:idx_settlement_status_eligible,priority:1" json:"status"`
	EligibleAt     time.Time        `gorm:"column:eligible_at;not null;index:idx_settlement_status_eligible,priority:2" json:"eligible_at"`
	TransactionRef *string          `gorm:"column:transaction_ref;size:64" json:"transaction_ref"`
	PaidAt         *time.Time       `gorm:"column:paid_at" json:"paid_at"`

	// 낙관적 동시성 제어용 버전. 전이 로그 sequence와 같다.
	Version int64 `gorm:"not null" json:"version"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName GORM 테이블명
func (Settlement) TableName() string {
	return "seller_settlements"
}

// Balanced platformFee + tax + netAmount == grossAmount
func (s *Settlement) Balanced() bool {
	return s.PlatformFee+s.Tax+s.NetAmount == s.GrossAmount && s.NetAmount >= 0
}

// CreateSettlementRequest 주문 완료 이벤트 (주문 시스템에서 전달)
type CreateSettlementRequest struct {
	SellerID         uint64     `json:"seller_id" binding:"required"`
	OrderID          string     `json:"order_id" binding:"required,max=64"`
	GrossAmount      Amount     `json:"gross_amount"`
	CancellableUntil *time.Time `json:"cancellable_until,omitempty"`
}

// SettlementFilter 정산 목록 조회 조건
type SettlementFilter struct {
	SellerID uint64 `form:"seller_id"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING READY HOLD PAID"`
	Page     int    `form:"page" binding:"omitempty,gte=1"`
	Limit    int    `form:"limit" binding:"omitempty,gte=1,lte=100"`
}

// Normalize 기본 페이지 값 적용
func (f *SettlementFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
}

// SettlementResponse 정산 응답 DTO
type SettlementResponse struct {
	ID                       string           `json:"id"`
	SellerID                 uint64           `json:"seller_id"`
	OrderID                  string           `json:"order_id"`
	GrossAmount              Amount           `json:"gross_amount"`
	CommissionPercentApplied decimal.Decimal  `json:"commission_percent_applied"`
	GSTPercentApplied        decimal.Decimal  `json:"gst_percent_applied"`
	PlatformFee              Amount           `json:"platform_fee"`
	Tax                      Amount           `json:"tax"`
	NetAmount                Amount           `json:"net_amount"`
	Currency                 string           `json:"currency"`
	Status                   SettlementStatus `json:"status"`
	TransactionRef           *string          `json:"transaction_ref"`
	EligibleAt               time.Time        `json:"eligible_at"`
	CreatedAt                time.Time        `json:"created_at"`
	PaidAt                   *time.Time       `json:"paid_at"`
}

// ToResponse Settlement를 SettlementResponse로 변환
func (s *Settlement) ToResponse() *SettlementResponse {
	return &SettlementResponse{
		ID:                       s.ID,
		SellerID:                 s.SellerID,
		OrderID:                  s.OrderID,
		GrossAmount:              s.GrossAmount,
		CommissionPercentApplied: s.CommissionPercentApplied,
		GSTPercentApplied:        s.GSTPercentApplied,
		PlatformFee:              s.PlatformFee,
		Tax:                      s.Tax,
		NetAmount:                s.NetAmount,
		Currency:                 s.Currency,
		Status:                   s.Status,
		TransactionRef:           s.TransactionRef,
		EligibleAt:               s.EligibleAt,
		CreatedAt:                s.CreatedAt,
		PaidAt:                   s.PaidAt,
	}
}

// StatusTotal 상태별 건수/정산액 합계
type StatusTotal struct {
	Status SettlementStatus `json:"status"`
	Count  int64            `json:"count"`
	Net    Amount           `json:"net_amount"`
}

// SellerSummary 판매자 정산 요약
type SellerSummary struct {
	SellerID   uint64        `json:"seller_id"`
	Currency   string        `json:"currency"`
	ByStatus   []StatusTotal `json:"by_status"`
	TotalNet   Amount        `json:"total_net"`
	PaidNet    Amount        `json:"paid_net"`
	PendingNet Amount        `json:"pending_net"`
}

// WalletView 플랫폼 지갑 (정산 레코드에서 파생되는 조회 전용 값)
type WalletView struct {
	TotalBalance   Amount `json:"total_balance"`
	PendingPayouts Amount `json:"pending_payouts"`
	Currency       string `json:"currency"`
}
