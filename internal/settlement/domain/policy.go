package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// maxPercentScale 수수료율 소수 자릿수 (컬럼 decimal(7,4))
const maxPercentScale = 4

// CommissionPolicy 수수료 정책 버전
// 정책은 추가만 가능하며 기존 버전은 수정하지 않는다.
type CommissionPolicy struct {
	ID                uint64          `gorm:"primaryKey" json:"id"`
	CommissionPercent decimal.Decimal `gorm:"column:commission_percent;type:decimal(7,4);not null" json:"commission_percent"`
	GSTPercent        decimal.Decimal `gorm:"column:gst_percent;type:decimal(7,4);not null" json:"gst_percent"`
	EffectiveFrom     time.Time       `gorm:"column:effective_from;precision:6;uniqueIndex;not null" json:"effective_from"`
	CreatedBy         string          `gorm:"column:created_by;size:64" json:"created_by,omitempty"`
	CreatedAt         time.Time       `gorm:"column:created_at" json:"created_at"`
}

// TableName GORM 테이블명
func (CommissionPolicy) TableName() string {
	return "commission_policies"
}

// ValidatePercent [0,100] 범위와 소수 4자리 이내인지 확인
func ValidatePercent(name string, p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return fmt.Errorf("%w: %s=%s", ErrInvalidPolicyValue, name, p.String())
	}
	if !p.Equal(p.Truncate(maxPercentScale)) {
		return fmt.Errorf("%w: %s=%s has more than %d fraction digits", ErrInvalidPolicyValue, name, p.String(), maxPercentScale)
	}
	return nil
}

// Validate 정책 값 검증
func (p *CommissionPolicy) Validate() error {
	if err := ValidatePercent("commission_percent", p.CommissionPercent); err != nil {
		return err
	}
	return ValidatePercent("gst_percent", p.GSTPercent)
}

// Breakdown 정산 금액 분해 결과
type Breakdown struct {
	GrossAmount Amount
	PlatformFee Amount
	Tax         Amount
	NetAmount   Amount
}

// Apply gross 금액에 정책을 적용해 수수료/세금/정산액을 계산한다.
// platformFee = round(gross × commission / 100), tax = round(platformFee × gst / 100)
func (p *CommissionPolicy) Apply(gross Amount) (Breakdown, error) {
	if gross <= 0 {
		return Breakdown{}, ErrInvalidAmount
	}
	fee := PercentOf(gross, p.CommissionPercent)
	tax := PercentOf(fee, p.GSTPercent)
	net := gross - fee - tax
	if net < 0 {
		return Breakdown{}, fmt.Errorf("%w: gross=%s fee=%s tax=%s", ErrPolicyOverflow, gross, fee, tax)
	}
	return Breakdown{GrossAmount: gross, PlatformFee: fee, Tax: tax, NetAmount: net}, nil
}

// SetPolicyRequest 수수료 정책 변경 요청
type SetPolicyRequest struct {
	CommissionPercent *decimal.Decimal `json:"commission_percent" binding:"required"`
	GSTPercent        *decimal.Decimal `json:"gst_percent" binding:"required"`
	EffectiveFrom     *time.Time       `json:"effective_from,omitempty"`
}
