package domain

import (
	"fmt"
	"time"
)

// Action 정산 상태 전이를 일으키는 동작
type Action string

const (
	ActionCreate  Action = "create"
	ActionPromote Action = "promote" // 취소 불가 확정 (reconciliation)
	ActionPay     Action = "pay"
	ActionHold    Action = "hold"
	ActionRelease Action = "release"
)

type edge struct {
	from SettlementStatus
	to   SettlementStatus
}

// 허용되는 전이는 이 표가 유일한 기준이다.
var actionEdges = map[Action]edge{
	ActionPromote: {StatusPending, StatusReady},
	ActionPay:     {StatusReady, StatusPaid},
	ActionHold:    {StatusReady, StatusHold},
	ActionRelease: {StatusHold, StatusReady},
}

// Target from 상태에서 동작을 적용한 결과 상태
func (a Action) Target(from SettlementStatus) (SettlementStatus, error) {
	if from == StatusPaid {
		return "", fmt.Errorf("%w: cannot %s", ErrAlreadyPaid, a)
	}
	e, ok := actionEdges[a]
	if !ok || e.from != from {
		return "", fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, a, from)
	}
	return e.to, nil
}

// CanTransition from → to 전이가 허용되는지 여부
func CanTransition(from, to SettlementStatus) bool {
	for _, e := range actionEdges {
		if e.from == from && e.to == to {
			return true
		}
	}
	return false
}

// TransitionLog 정산 상태 전이 감사 로그 (삭제하지 않음)
type TransitionLog struct {
	ID             uint64           `gorm:"primaryKey" json:"id"`
	SettlementID   string           `gorm:"column:settlement_id;size:36;not null;uniqueIndex:uk_transition_settlement_seq,priority:1" json:"settlement_id"`
	Sequence       int64            `gorm:"column:sequence;not null;uniqueIndex:uk_transition_settlement_seq,priority:2" json:"sequence"`
	Action         Action           `gorm:"size:16;not null" json:"action"`
	FromStatus     SettlementStatus `gorm:"column:from_status;size:10" json:"from_status,omitempty"`
	ToStatus       SettlementStatus `gorm:"column:to_status;size:10;not null" json:"to_status"`
	Actor          string           `gorm:"size:64;not null" json:"actor"`
	TransactionRef *string          `gorm:"column:transaction_ref;size:64" json:"transaction_ref,omitempty"`
	Note           string           `gorm:"type:text" json:"note,omitempty"`
	CreatedAt      time.Time        `gorm:"column:created_at" json:"created_at"`
}

// TableName GORM 테이블명
func (TransitionLog) TableName() string {
	return "settlement_transitions"
}

// PayRequest 지급 요청
type PayRequest struct {
	TransactionRef string `json:"transaction_ref" binding:"omitempty,max=64,txref"`
}

// TransitionRequest 보류/해제 요청
type TransitionRequest struct {
	Note string `json:"note" binding:"omitempty,max=1000"`
}
