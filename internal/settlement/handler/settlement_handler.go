package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/damoang/payout-ledger/internal/common"
	"github.com/damoang/payout-ledger/internal/middleware"
	"github.com/damoang/payout-ledger/internal/settlement/domain"
	"github.com/damoang/payout-ledger/internal/settlement/service"
	"github.com/damoang/payout-ledger/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// SettlementHandler 정산 HTTP 핸들러
type SettlementHandler struct {
	service service.SettlementService
}

// NewSettlementHandler 생성자
func NewSettlementHandler(svc service.SettlementService) *SettlementHandler {
	RegisterValidators()
	return &SettlementHandler{service: svc}
}

// scopeSellerID 판매자는 자기 ID, 관리자는 0 (전체). 판매자 ID를 해석할 수 없으면 false.
func scopeSellerID(c *gin.Context) (uint64, bool) {
	if middleware.IsAdmin(c) {
		return 0, true
	}
	id := middleware.GetSellerID(c)
	return id, id > 0
}

// ListSettlements godoc
// @Summary      정산 목록 조회
// @Description  판매자는 자신의 정산만, 관리자는 전체(또는 seller_id 필터) 조회
// @Tags         settlements
// @Produce      json
// @Security     BearerAuth
// @Param        seller_id  query     int     false  "판매자 ID (관리자 전용)"
// @Param        status     query     string  false  "상태 필터 (PENDING, READY, HOLD, PAID)"
// @Param        page       query     int     false  "페이지 (기본: 1)"
// @Param        limit      query     int     false  "페이지당 개수 (기본: 20, 최대: 100)"
// @Success      200  {object}  common.APIResponse{data=[]domain.SettlementResponse}
// @Router       /settlements [get]
func (h *SettlementHandler) ListSettlements(c *gin.Context) {
	scope, ok := scopeSellerID(c)
	if !ok {
		respondError(c, domain.ErrForbidden, "Forbidden")
		return
	}

	var filter domain.SettlementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return
	}
	if filter.SellerID == 0 {
		// 이전 클라이언트의 sellerId 파라미터
		id, _, err := ginutil.QueryUint64(c, "sellerId")
		if err != nil {
			bindError(c, err)
			return
		}
		filter.SellerID = id
	}
	if scope > 0 {
		filter.SellerID = scope
	}
	filter.Normalize()

	settlements, total, err := h.service.ListSettlements(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, err, "Failed to fetch settlements")
		return
	}

	items := make([]*domain.SettlementResponse, 0, len(settlements))
	for _, s := range settlements {
		items = append(items, s.ToResponse())
	}
	common.SuccessResponse(c, items, &common.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

// GetSettlement godoc
// @Summary      정산 상세 조회
// @Tags         settlements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "정산 ID"
// @Success      200  {object}  common.APIResponse{data=domain.SettlementResponse}
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /settlements/{id} [get]
func (h *SettlementHandler) GetSettlement(c *gin.Context) {
	scope, ok := scopeSellerID(c)
	if !ok {
		respondError(c, domain.ErrForbidden, "Forbidden")
		return
	}

	settlement, err := h.service.GetSettlement(c.Request.Context(), c.Param("id"), scope)
	if err != nil {
		respondError(c, err, "Failed to fetch settlement")
		return
	}
	common.SuccessResponse(c, settlement.ToResponse(), nil)
}

// ListTransitions godoc
// @Summary      정산 상태 전이 이력
// @Tags         settlements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "정산 ID"
// @Success      200  {object}  common.APIResponse{data=[]domain.TransitionLog}
// @Router       /settlements/{id}/transitions [get]
func (h *SettlementHandler) ListTransitions(c *gin.Context) {
	scope, ok := scopeSellerID(c)
	if !ok {
		respondError(c, domain.ErrForbidden, "Forbidden")
		return
	}

	logs, err := h.service.ListTransitions(c.Request.Context(), c.Param("id"), scope)
	if err != nil {
		respondError(c, err, "Failed to fetch transitions")
		return
	}
	common.SuccessResponse(c, logs, nil)
}

// GetSummary godoc
// @Summary      판매자 정산 요약
// @Description  상태별 건수와 정산액 합계. 관리자는 seller_id 지정 필수.
// @Tags         settlements
// @Produce      json
// @Security     BearerAuth
// @Param        seller_id  query  int  false  "판매자 ID (관리자 전용)"
// @Success      200  {object}  common.APIResponse{data=domain.SellerSummary}
// @Router       /settlements/summary [get]
func (h *SettlementHandler) GetSummary(c *gin.Context) {
	sellerID, ok := scopeSellerID(c)
	if !ok {
		respondError(c, domain.ErrForbidden, "Forbidden")
		return
	}
	if sellerID == 0 {
		id, _, err := ginutil.QueryUint64(c, "seller_id", "sellerId")
		if err != nil || id == 0 {
			respondError(c, domain.ErrInvalidInput, "seller_id is required")
			return
		}
		sellerID = id
	}

	summary, err := h.service.GetSellerSummary(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err, "Failed to fetch summary")
		return
	}
	common.SuccessResponse(c, summary, nil)
}

// Pay godoc
// @Summary      정산 지급 (READY → PAID)
// @Description  같은 transaction_ref로 재시도하면 기존 결과를 반환. 미입력 시 시스템이 생성.
// @Tags         settlements-admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string             true   "정산 ID"
// @Param        request  body  domain.PayRequest  false  "송금 참조번호"
// @Success      200  {object}  common.APIResponse{data=domain.SettlementResponse}
// @Failure      409  {object}  common.APIResponse
// @Router       /settlements/{id}/pay [post]
func (h *SettlementHandler) Pay(c *gin.Context) {
	var req domain.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}

	settlement, err := h.service.Pay(c.Request.Context(), c.Param("id"), req.TransactionRef, middleware.Actor(c))
	if err != nil {
		respondError(c, err, "Payout failed")
		return
	}
	common.SuccessResponse(c, settlement.ToResponse(), nil)
}

// Hold godoc
// @Summary      정산 보류 (READY → HOLD)
// @Tags         settlements-admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                    true   "정산 ID"
// @Param        request  body  domain.TransitionRequest  false  "메모"
// @Success      200  {object}  common.APIResponse{data=domain.SettlementResponse}
// @Router       /settlements/{id}/hold [post]
func (h *SettlementHandler) Hold(c *gin.Context) {
	note, ok := bindNote(c)
	if !ok {
		return
	}

	settlement, err := h.service.Hold(c.Request.Context(), c.Param("id"), middleware.Actor(c), note)
	if err != nil {
		respondError(c, err, "Hold failed")
		return
	}
	common.SuccessResponse(c, settlement.ToResponse(), nil)
}

// Release godoc
// @Summary      정산 보류 해제 (HOLD → READY)
// @Tags         settlements-admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                    true   "정산 ID"
// @Param        request  body  domain.TransitionRequest  false  "메모"
// @Success      200  {object}  common.APIResponse{data=domain.SettlementResponse}
// @Router       /settlements/{id}/release [post]
func (h *SettlementHandler) Release(c *gin.Context) {
	note, ok := bindNote(c)
	if !ok {
		return
	}

	settlement, err := h.service.Release(c.Request.Context(), c.Param("id"), middleware.Actor(c), note)
	if err != nil {
		respondError(c, err, "Release failed")
		return
	}
	common.SuccessResponse(c, settlement.ToResponse(), nil)
}

func bindNote(c *gin.Context) (string, bool) {
	var req domain.TransitionRequest
	// 본문 없는 요청 허용
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return "", false
	}
	return req.Note, true
}

// CreateSettlement godoc
// @Summary      주문 완료 이벤트 수신 (내부)
// @Description  같은 (seller_id, order_id) 재전달은 200으로 기존 정산 반환, 금액이 다르면 409
// @Tags         internal
// @Accept       json
// @Produce      json
// @Param        X-API-Key  header  string                          true  "내부 API 키"
// @Param        request    body    domain.CreateSettlementRequest  true  "주문 정보"
// @Success      201  {object}  common.APIResponse{data=domain.SettlementResponse}
// @Success      200  {object}  common.APIResponse{data=domain.SettlementResponse}
// @Failure      409  {object}  common.APIResponse
// @Router       /internal/settlements [post]
func (h *SettlementHandler) CreateSettlement(c *gin.Context) {
	var req domain.CreateSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	settlement, created, err := h.service.CreateSettlement(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateSettlement) {
			// 같은 주문이 다른 금액으로 재전달됨
			common.CodedErrorResponse(c, http.StatusConflict, domain.CodeOf(err), "Conflicting duplicate settlement", err)
			return
		}
		respondError(c, err, "Failed to create settlement")
		return
	}

	if created {
		common.CreatedResponse(c, settlement.ToResponse())
		return
	}
	common.SuccessResponse(c, settlement.ToResponse(), nil)
}

// MarkReady godoc
// @Summary      취소 불가 확정 (PENDING → READY, 내부)
// @Tags         internal
// @Produce      json
// @Param        X-API-Key  header  string  true  "내부 API 키"
// @Param        id         path    string  true  "정산 ID"
// @Success      200  {object}  common.APIResponse{data=domain.SettlementResponse}
// @Router       /internal/settlements/{id}/ready [post]
func (h *SettlementHandler) MarkReady(c *gin.Context) {
	settlement, err := h.service.MarkReady(c.Request.Context(), c.Param("id"), middleware.Actor(c))
	if err != nil {
		respondError(c, err, "Failed to mark settlement ready")
		return
	}
	common.SuccessResponse(c, settlement.ToResponse(), nil)
}
