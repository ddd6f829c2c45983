package domain

import "errors"

// 정산 에러 정의
var (
	// validation
	ErrInvalidPolicyValue = errors.New("commission and gst percent must be within [0,100]")
	ErrInvalidAmount      = errors.New("gross amount must be a positive value with at most two fraction digits")
	ErrInvalidInput       = errors.New("invalid input")

	// conflict
	ErrInvalidTransition            = errors.New("invalid settlement status transition")
	ErrAlreadyPaid                  = errors.New("settlement is already paid")
	ErrConcurrentTransitionConflict = errors.New("settlement was modified concurrently, re-read and retry")
	ErrPolicyVersionExists          = errors.New("a commission policy version already exists at effective_from")

	// precondition
	ErrSellerBankUnverified = errors.New("seller bank details are not verified")

	// integrity
	ErrPolicyOverflow      = errors.New("commission policy yields a negative net amount")
	ErrDuplicateSettlement = errors.New("settlement already exists for this seller and order with a different amount")

	// not found
	ErrSettlementNotFound = errors.New("settlement not found")
	ErrPolicyNotFound     = errors.New("no effective commission policy")
	ErrProfileNotFound    = errors.New("seller payout profile not found")
	ErrForbidden          = errors.New("settlement belongs to another seller")
)

// ErrorKind 에러 분류. 호출자의 대응 방법이 분류마다 다르다.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindConflict     ErrorKind = "conflict"
	KindPrecondition ErrorKind = "precondition"
	KindIntegrity    ErrorKind = "integrity"
	KindNotFound     ErrorKind = "not_found"
	KindForbidden    ErrorKind = "forbidden"
	KindInternal     ErrorKind = "internal"
)

type errorClass struct {
	err  error
	kind ErrorKind
	code string
}

var errorClasses = []errorClass{
	{ErrInvalidPolicyValue, KindValidation, "INVALID_POLICY_VALUE"},
	{ErrInvalidAmount, KindValidation, "INVALID_AMOUNT"},
	{ErrInvalidInput, KindValidation, "INVALID_INPUT"},
	{ErrInvalidTransition, KindConflict, "INVALID_TRANSITION"},
	{ErrAlreadyPaid, KindConflict, "ALREADY_PAID"},
	{ErrConcurrentTransitionConflict, KindConflict, "CONCURRENT_TRANSITION_CONFLICT"},
	{ErrPolicyVersionExists, KindConflict, "POLICY_VERSION_EXISTS"},
	{ErrSellerBankUnverified, KindPrecondition, "SELLER_BANK_UNVERIFIED"},
	{ErrPolicyOverflow, KindIntegrity, "POLICY_OVERFLOW"},
	{ErrDuplicateSettlement, KindIntegrity, "DUPLICATE_SETTLEMENT"},
	{ErrSettlementNotFound, KindNotFound, "SETTLEMENT_NOT_FOUND"},
	{ErrPolicyNotFound, KindNotFound, "POLICY_NOT_FOUND"},
	{ErrProfileNotFound, KindNotFound, "PROFILE_NOT_FOUND"},
	{ErrForbidden, KindForbidden, "FORBIDDEN"},
}

// KindOf err의 분류. 알 수 없는 에러는 KindInternal.
func KindOf(err error) ErrorKind {
	for _, c := range errorClasses {
		if errors.Is(err, c.err) {
			return c.kind
		}
	}
	return KindInternal
}

// CodeOf API 응답에 쓰는 에러 코드
func CodeOf(err error) string {
	for _, c := range errorClasses {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "INTERNAL_SERVER_ERROR"
}
