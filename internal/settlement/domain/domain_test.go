package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pct(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    Amount
		wantErr bool
	}{
		{"1000.00", 100000, false},
		{"1000", 100000, false},
		{"0.5", 50, false},
		{"12.345", 0, true},
		{"abc", 0, true},
		{"1000000000000.00", MaxAmount, false},
		{"1000000000000.01", 0, true},
		{"-1000000000000.01", 0, true},
		// 2^64 + 100 paisa, int64로 자르면 1.00이 된다
		{"184467440737095517.16", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmountJSON(t *testing.T) {
	b, err := json.Marshal(Amount(94100))
	require.NoError(t, err)
	assert.Equal(t, `"941.00"`, string(b))

	var a Amount
	require.NoError(t, json.Unmarshal([]byte(`1000.5`), &a))
	assert.Equal(t, Amount(100050), a)

	require.NoError(t, json.Unmarshal([]byte(`"250.25"`), &a))
	assert.Equal(t, Amount(25025), a)

	err = json.Unmarshal([]byte(`"1.001"`), &a)
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	a = 0
	err = json.Unmarshal([]byte(`"184467440737095517.16"`), &a)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, Amount(0), a)
}

func TestPercentOfRoundsHalfUp(t *testing.T) {
	// 0.05 × 10 = 0.5 paisa → 1
	assert.Equal(t, Amount(1), PercentOf(10, pct("5")))
	// 0.049 → 0
	assert.Equal(t, Amount(0), PercentOf(49, pct("0.1")))
	assert.Equal(t, Amount(5000), PercentOf(100000, pct("5")))
}

func TestCommissionPolicyApply(t *testing.T) {
	t.Run("1000.00 / 5% / GST 18%", func(t *testing.T) {
		p := &CommissionPolicy{CommissionPercent: pct("5.0"), GSTPercent: pct("18.0")}
		b, err := p.Apply(100000)
		require.NoError(t, err)
		assert.Equal(t, "50.00", b.PlatformFee.String())
		assert.Equal(t, "9.00", b.Tax.String())
		assert.Equal(t, "941.00", b.NetAmount.String())
	})

	t.Run("합계 불변식", func(t *testing.T) {
		p := &CommissionPolicy{CommissionPercent: pct("7.35"), GSTPercent: pct("18")}
		for _, gross := range []Amount{1, 3, 99, 12345, 999999, 100000001} {
			b, err := p.Apply(gross)
			require.NoError(t, err)
			assert.Equal(t, gross, b.PlatformFee+b.Tax+b.NetAmount)
			assert.GreaterOrEqual(t, int64(b.NetAmount), int64(0))
		}
	})

	t.Run("100% + GST는 PolicyOverflow", func(t *testing.T) {
		p := &CommissionPolicy{CommissionPercent: pct("100"), GSTPercent: pct("18")}
		_, err := p.Apply(100000)
		assert.ErrorIs(t, err, ErrPolicyOverflow)
	})

	t.Run("0 이하 금액 거부", func(t *testing.T) {
		p := &CommissionPolicy{CommissionPercent: pct("5"), GSTPercent: pct("18")}
		_, err := p.Apply(0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestValidatePercent(t *testing.T) {
	assert.NoError(t, ValidatePercent("c", pct("0")))
	assert.NoError(t, ValidatePercent("c", pct("100")))
	assert.NoError(t, ValidatePercent("c", pct("12.3456")))
	assert.ErrorIs(t, ValidatePercent("c", pct("-0.01")), ErrInvalidPolicyValue)
	assert.ErrorIs(t, ValidatePercent("c", pct("100.01")), ErrInvalidPolicyValue)
	assert.ErrorIs(t, ValidatePercent("c", pct("1.23456")), ErrInvalidPolicyValue)
}

func TestActionTarget(t *testing.T) {
	tests := []struct {
		action Action
		from   SettlementStatus
		want   SettlementStatus
		err    error
	}{
		{ActionPromote, StatusPending, StatusReady, nil},
		{ActionPay, StatusReady, StatusPaid, nil},
		{ActionHold, StatusReady, StatusHold, nil},
		{ActionRelease, StatusHold, StatusReady, nil},
		{ActionHold, StatusPending, "", ErrInvalidTransition},
		{ActionPay, StatusPending, "", ErrInvalidTransition},
		{ActionPay, StatusHold, "", ErrInvalidTransition},
		{ActionRelease, StatusReady, "", ErrInvalidTransition},
		{ActionPromote, StatusReady, "", ErrInvalidTransition},
		{ActionHold, StatusPaid, "", ErrAlreadyPaid},
		{ActionPay, StatusPaid, "", ErrAlreadyPaid},
		{ActionRelease, StatusPaid, "", ErrAlreadyPaid},
	}
	for _, tt := range tests {
		t.Run(string(tt.action)+"_from_"+string(tt.from), func(t *testing.T) {
			got, err := tt.action.Target(tt.from)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanTransition(t *testing.T) {
	all := []SettlementStatus{StatusPending, StatusReady, StatusHold, StatusPaid}
	reachable := func(from SettlementStatus) []SettlementStatus {
		var out []SettlementStatus
		for _, to := range all {
			if CanTransition(from, to) {
				out = append(out, to)
			}
		}
		return out
	}
	assert.Equal(t, []SettlementStatus{StatusReady}, reachable(StatusPending))
	assert.Equal(t, []SettlementStatus{StatusReady}, reachable(StatusHold))
	assert.Empty(t, reachable(StatusPaid))
	assert.ElementsMatch(t, []SettlementStatus{StatusHold, StatusPaid}, reachable(StatusReady))
}

func TestErrorClassification(t *testing.T) {
	wrapped := errors.Join(errors.New("ctx"), ErrSellerBankUnverified)
	assert.Equal(t, KindPrecondition, KindOf(wrapped))
	assert.Equal(t, "SELLER_BANK_UNVERIFIED", CodeOf(wrapped))
	assert.Equal(t, KindConflict, KindOf(ErrAlreadyPaid))
	assert.Equal(t, KindIntegrity, KindOf(ErrPolicyOverflow))
	assert.Equal(t, KindConflict, KindOf(ErrPolicyVersionExists))
	assert.Equal(t, "POLICY_VERSION_EXISTS", CodeOf(ErrPolicyVersionExists))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}
