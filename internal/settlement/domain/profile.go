package domain

import "time"

// SellerPayoutProfile 판매자 정산 계좌 정보
// 판매자 프로필 시스템이 소유하며 정산 엔진은 지급 가능 여부 판단에만 사용한다.
type SellerPayoutProfile struct {
	SellerID      uint64    `gorm:"column:seller_id;primaryKey;autoIncrement:false" json:"seller_id"`
	BankVerified  bool      `gorm:"column:bank_verified;not null" json:"bank_verified"`
	AccountMasked string    `gorm:"column:account_masked;size:64" json:"account_masked"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName GORM 테이블명
func (SellerPayoutProfile) TableName() string {
	return "seller_payout_profiles"
}

// SyncProfileRequest 프로필 시스템의 계좌 검증 결과 동기화 요청
type SyncProfileRequest struct {
	BankVerified  *bool  `json:"bank_verified" binding:"required"`
	AccountMasked string `json:"account_masked" binding:"omitempty,max=64"`
}
