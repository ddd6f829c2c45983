package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// minorUnitExp 화폐 최소 단위 자릿수 (paisa, cent)
const minorUnitExp = 2

// MaxAmount 한 건 금액 상한 (최소 단위). int64 SUM 집계가 넘치지 않도록 여유를 둔다.
const MaxAmount Amount = 100_000_000_000_000

var (
	hundred      = decimal.NewFromInt(100)
	maxAmountDec = decimal.NewFromInt(int64(MaxAmount))
)

// Amount 최소 화폐 단위(paisa) 기준 금액
// DB에는 BIGINT로 저장되어 SUM 집계가 정확하게 유지된다.
type Amount int64

// ParseAmount "1000.00" 형태의 문자열을 Amount로 변환
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return AmountFromDecimal(d)
}

// AmountFromDecimal 소수점 2자리를 넘거나 MaxAmount를 벗어나는 금액은 거부
func AmountFromDecimal(d decimal.Decimal) (Amount, error) {
	if !d.Equal(d.Truncate(minorUnitExp)) {
		return 0, fmt.Errorf("%w: %s has more than %d fraction digits", ErrInvalidAmount, d.String(), minorUnitExp)
	}
	shifted := d.Shift(minorUnitExp)
	if shifted.Abs().GreaterThan(maxAmountDec) {
		return 0, fmt.Errorf("%w: %s exceeds %s", ErrInvalidAmount, d.String(), MaxAmount.String())
	}
	return Amount(shifted.IntPart()), nil
}

// Decimal 주 화폐 단위 decimal 값
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -minorUnitExp)
}

func (a Amount) String() string {
	return a.Decimal().StringFixed(minorUnitExp)
}

// MarshalJSON 금액은 "941.00" 같은 문자열로 직렬화
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON 숫자(1000.5)와 문자열("1000.50") 모두 허용
func (a *Amount) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
		}
		raw = s
	}
	v, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// PercentOf round-half-up(a × pct / 100), 최소 단위로 반올림
// 음수 금액은 다루지 않으므로 decimal의 half-away-from-zero 반올림이 half-up과 같다.
func PercentOf(a Amount, pct decimal.Decimal) Amount {
	v := decimal.NewFromInt(int64(a)).Mul(pct).Div(hundred).Round(0)
	return Amount(v.IntPart())
}
