package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/damoang/payout-ledger/internal/settlement/domain"
	"github.com/damoang/payout-ledger/internal/settlement/repository"
	"github.com/damoang/payout-ledger/pkg/logger"
	"github.com/google/uuid"
)

// 시스템 동작 주체
const (
	ActorOrderEvents = "system:order-events"
	ActorReconciler  = "system:reconciler"
)

// SettlementService 정산 서비스 인터페이스
type SettlementService interface {
	// 정산 생성 (주문 완료 이벤트). 같은 주문 재전달 시 기존 정산을 반환하며 created=false.
	CreateSettlement(ctx context.Context, req *domain.CreateSettlementRequest) (settlement *domain.Settlement, created bool, err error)

	// 정산 조회 (sellerID 0이면 관리자)
	GetSettlement(ctx context.Context, id string, sellerID uint64) (*domain.Settlement, error)
	ListSettlements(ctx context.Context, filter *domain.SettlementFilter) ([]*domain.Settlement, int64, error)
	ListTransitions(ctx context.Context, id string, sellerID uint64) ([]*domain.TransitionLog, error)
	GetSellerSummary(ctx context.Context, sellerID uint64) (*domain.SellerSummary, error)

	// 상태 전이
	MarkReady(ctx context.Context, id, actor string) (*domain.Settlement, error)
	Pay(ctx context.Context, id, transactionRef, actor string) (*domain.Settlement, error)
	Hold(ctx context.Context, id, actor, note string) (*domain.Settlement, error)
	Release(ctx context.Context, id, actor, note string) (*domain.Settlement, error)
}

// SettlementConfig 정산 설정
type SettlementConfig struct {
	Currency     string
	ReturnWindow time.Duration // cancellable_until 미지정 시 취소 가능 기간
}

// BalanceInvalidator 정산 생성 후 지갑 캐시 무효화
type BalanceInvalidator interface {
	Invalidate(ctx context.Context)
}

type settlementService struct {
	repo     repository.SettlementRepository
	policies PolicyService
	gate     BankGate
	wallet   BalanceInvalidator
	config   SettlementConfig
}

// NewSettlementService 생성자. wallet은 nil 가능.
func NewSettlementService(
	repo repository.SettlementRepository,
	policies PolicyService,
	gate BankGate,
	wallet BalanceInvalidator,
	config SettlementConfig,
) SettlementService {
	if config.Currency == "" {
		config.Currency = "INR"
	}
	return &settlementService{
		repo:     repo,
		policies: policies,
		gate:     gate,
		wallet:   wallet,
		config:   config,
	}
}

// CreateSettlement 정산 생성
func (s *settlementService) CreateSettlement(ctx context.Context, req *domain.CreateSettlementRequest) (*domain.Settlement, bool, error) {
	if req.SellerID == 0 || strings.TrimSpace(req.OrderID) == "" {
		settlementsCreated.WithLabelValues("rejected").Inc()
		return nil, false, fmt.Errorf("%w: seller_id and order_id are required", domain.ErrInvalidInput)
	}
	if req.GrossAmount <= 0 {
		settlementsCreated.WithLabelValues("rejected").Inc()
		return nil, false, domain.ErrInvalidAmount
	}

	// 중복 전달된 주문 완료 이벤트
	existing, err := s.repo.FindBySellerAndOrder(ctx, req.SellerID, req.OrderID)
	if err == nil {
		return s.replay(existing, req)
	}
	if !errors.Is(err, domain.ErrSettlementNotFound) {
		return nil, false, err
	}

	policy, err := s.policies.GetEffectivePolicy(ctx)
	if err != nil {
		return nil, false, err
	}

	breakdown, err := policy.Apply(req.GrossAmount)
	if err != nil {
		settlementsCreated.WithLabelValues("rejected").Inc()
		if errors.Is(err, domain.ErrPolicyOverflow) {
			logger.GetLogger().Error().Err(err).
				Uint64("seller_id", req.SellerID).
				Str("order_id", req.OrderID).
				Uint64("policy_id", policy.ID).
				Msg("settlement rejected: policy overflow")
		}
		return nil, false, err
	}

	now := time.Now().UTC()
	eligibleAt := now.Add(s.config.ReturnWindow)
	if req.CancellableUntil != nil {
		eligibleAt = req.CancellableUntil.UTC()
	}

	settlement := &domain.Settlement{
		ID:                       uuid.NewString(),
		SellerID:                 req.SellerID,
		OrderID:                  req.OrderID,
		PolicyID:                 policy.ID,
		CommissionPercentApplied: policy.CommissionPercent,
		GSTPercentApplied:        policy.GSTPercent,
		GrossAmount:              breakdown.GrossAmount,
		PlatformFee:              breakdown.PlatformFee,
		Tax:                      breakdown.Tax,
		NetAmount:                breakdown.NetAmount,
		Currency:                 s.config.Currency,
		Status:                   domain.StatusPending,
		EligibleAt:               eligibleAt,
	}
	entry := &domain.TransitionLog{
		Action:   domain.ActionCreate,
		ToStatus: domain.StatusPending,
		Actor:    ActorOrderEvents,
	}

	if err := s.repo.Create(ctx, settlement, entry); err != nil {
		if errors.Is(err, domain.ErrDuplicateSettlement) {
			// 동시에 들어온 같은 이벤트가 먼저 저장됨
			existing, findErr := s.repo.FindBySellerAndOrder(ctx, req.SellerID, req.OrderID)
			if findErr != nil {
				return nil, false, findErr
			}
			return s.replay(existing, req)
		}
		return nil, false, err
	}

	if s.wallet != nil {
		s.wallet.Invalidate(ctx)
	}
	settlementsCreated.WithLabelValues("created").Inc()

	log := logger.WithSettlement(settlement.ID, settlement.SellerID)
	log.Info().
		Str("order_id", settlement.OrderID).
		Str("gross_amount", settlement.GrossAmount.String()).
		Str("net_amount", settlement.NetAmount.String()).
		Uint64("policy_id", settlement.PolicyID).
		Msg("settlement created")

	return settlement, true, nil
}

// replay 같은 (seller, order) 재요청. 금액이 다르면 데이터 무결성 에러.
func (s *settlementService) replay(existing *domain.Settlement, req *domain.CreateSettlementRequest) (*domain.Settlement, bool, error) {
	log := logger.WithSettlement(existing.ID, existing.SellerID)
	if existing.GrossAmount != req.GrossAmount {
		settlementsCreated.WithLabelValues("rejected").Inc()
		log.Error().
			Str("order_id", existing.OrderID).
			Str("stored_gross", existing.GrossAmount.String()).
			Str("requested_gross", req.GrossAmount.String()).
			Msg("conflicting duplicate settlement request")
		return nil, false, fmt.Errorf("%w: stored gross %s, requested %s",
			domain.ErrDuplicateSettlement, existing.GrossAmount, req.GrossAmount)
	}

	settlementsCreated.WithLabelValues("replayed").Inc()
	log.Info().
		Str("order_id", existing.OrderID).
		Msg("settlement creation replayed")
	return existing, false, nil
}

// GetSettlement 정산 조회
func (s *settlementService) GetSettlement(ctx context.Context, id string, sellerID uint64) (*domain.Settlement, error) {
	settlement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 소유자 확인 (sellerID가 0이면 관리자)
	if sellerID > 0 && settlement.SellerID != sellerID {
		return nil, domain.ErrForbidden
	}
	return settlement, nil
}

// ListSettlements 정산 목록 (filter.SellerID 0이면 전체)
func (s *settlementService) ListSettlements(ctx context.Context, filter *domain.SettlementFilter) ([]*domain.Settlement, int64, error) {
	return s.repo.List(ctx, filter)
}

// ListTransitions 정산 전이 이력
func (s *settlementService) ListTransitions(ctx context.Context, id string, sellerID uint64) ([]*domain.TransitionLog, error) {
	if _, err := s.GetSettlement(ctx, id, sellerID); err != nil {
		return nil, err
	}
	return s.repo.ListTransitions(ctx, id)
}

// GetSellerSummary 판매자 정산 요약
func (s *settlementService) GetSellerSummary(ctx context.Context, sellerID uint64) (*domain.SellerSummary, error) {
	totals, err := s.repo.TotalsBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	summary := &domain.SellerSummary{
		SellerID: sellerID,
		Currency: s.config.Currency,
		ByStatus: totals,
	}
	for _, t := range totals {
		summary.TotalNet += t.Net
		switch t.Status {
		case domain.StatusPaid:
			summary.PaidNet += t.Net
		default:
			summary.PendingNet += t.Net
		}
	}
	return summary, nil
}

// MarkReady PENDING → READY (주문 취소 불가 확정)
func (s *settlementService) MarkReady(ctx context.Context, id, actor string) (*domain.Settlement, error) {
	return s.transition(ctx, id, domain.ActionPromote, actor, "", nil)
}

// Hold READY → HOLD
func (s *settlementService) Hold(ctx context.Context, id, actor, note string) (*domain.Settlement, error) {
	return s.transition(ctx, id, domain.ActionHold, actor, note, nil)
}

// Release HOLD → READY
func (s *settlementService) Release(ctx context.Context, id, actor, note string) (*domain.Settlement, error) {
	return s.transition(ctx, id, domain.ActionRelease, actor, note, nil)
}

// Pay READY → PAID
// 같은 transactionRef로 재시도하면 이미 지급된 정산을 그대로 반환하고,
// 다른 ref로 요청하면 ErrAlreadyPaid (이중 송금 방지).
func (s *settlementService) Pay(ctx context.Context, id, transactionRef, actor string) (*domain.Settlement, error) {
	transactionRef = strings.TrimSpace(transactionRef)

	return s.transition(ctx, id, domain.ActionPay, actor, "", func(ctx context.Context, st *domain.Settlement) (bool, error) {
		if st.Status == domain.StatusPaid {
			if transactionRef != "" && st.TransactionRef != nil && *st.TransactionRef == transactionRef {
				return true, nil
			}
			return false, fmt.Errorf("%w: settlement %s", domain.ErrAlreadyPaid, st.ID)
		}
		if st.Status != domain.StatusReady {
			return false, nil
		}

		ok, err := s.gate.CanPayout(ctx, st.SellerID)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, fmt.Errorf("%w: seller %d", domain.ErrSellerBankUnverified, st.SellerID)
		}

		ref := transactionRef
		if ref == "" {
			ref = generateTransactionRef()
		}
		paidAt := time.Now().UTC()
		st.TransactionRef = &ref
		st.PaidAt = &paidAt
		return false, nil
	})
}

// guardFunc 전이 직전 검사. done=true면 아무것도 기록하지 않고 현재 상태를 반환한다.
type guardFunc func(ctx context.Context, st *domain.Settlement) (done bool, err error)

// transition 저장된 상태를 읽고, 전이 표와 guard를 확인한 뒤 조건부 업데이트
// 충돌 시 재시도하지 않고 호출자에게 ErrConcurrentTransitionConflict를 돌려준다.
func (s *settlementService) transition(ctx context.Context, id string, action domain.Action, actor, note string, guard guardFunc) (*domain.Settlement, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		settlementTransitions.WithLabelValues(string(action), resultLabel(err)).Inc()
		return nil, err
	}
	log := logger.WithSettlement(st.ID, st.SellerID)

	if guard != nil {
		done, err := guard(ctx, st)
		if err != nil {
			settlementTransitions.WithLabelValues(string(action), resultLabel(err)).Inc()
			log.Warn().Err(err).Str("action", string(action)).Str("actor", actor).Str("status", string(st.Status)).Msg("settlement transition rejected")
			return nil, err
		}
		if done {
			settlementTransitions.WithLabelValues(string(action), "idempotent").Inc()
			log.Info().Str("action", string(action)).Str("actor", actor).Msg("settlement transition replayed")
			return st, nil
		}
	}

	from := st.Status
	to, err := action.Target(from)
	if err != nil {
		settlementTransitions.WithLabelValues(string(action), resultLabel(err)).Inc()
		log.Warn().Err(err).Str("action", string(action)).Str("actor", actor).Msg("settlement transition rejected")
		return nil, err
	}

	expected := st.Version
	st.Status = to
	entry := &domain.TransitionLog{
		Action:         action,
		FromStatus:     from,
		ToStatus:       to,
		Actor:          actor,
		TransactionRef: st.TransactionRef,
		Note:           note,
	}
	if to != domain.StatusPaid {
		entry.TransactionRef = nil
	}

	if err := s.repo.ApplyTransition(ctx, st, expected, entry); err != nil {
		settlementTransitions.WithLabelValues(string(action), resultLabel(err)).Inc()
		log.Warn().Err(err).Str("action", string(action)).Str("actor", actor).Msg("settlement transition failed")
		return nil, err
	}

	settlementTransitions.WithLabelValues(string(action), "ok").Inc()
	event := log.Info().
		Str("action", string(action)).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("actor", actor).
		Int64("version", st.Version)
	if st.TransactionRef != nil && to == domain.StatusPaid {
		event = event.Str("transaction_ref", *st.TransactionRef)
	}
	event.Msg("settlement transition applied")

	return st, nil
}

// generateTransactionRef 관리자가 ref를 비워 둔 경우 시스템 생성
func generateTransactionRef() string {
	return "PAY-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
