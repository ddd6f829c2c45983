package handler

import (
	"github.com/damoang/payout-ledger/internal/common"
	"github.com/damoang/payout-ledger/internal/middleware"
	"github.com/damoang/payout-ledger/internal/settlement/domain"
	"github.com/damoang/payout-ledger/internal/settlement/service"
	"github.com/damoang/payout-ledger/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// PolicyHandler 수수료 정책 HTTP 핸들러
type PolicyHandler struct {
	service service.PolicyService
}

// NewPolicyHandler 생성자
func NewPolicyHandler(svc service.PolicyService) *PolicyHandler {
	return &PolicyHandler{service: svc}
}

// GetPolicy godoc
// @Summary      현재 유효한 수수료 정책
// @Tags         commission-policy
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse{data=domain.CommissionPolicy}
// @Failure      404  {object}  common.APIResponse
// @Router       /commission-policy [get]
func (h *PolicyHandler) GetPolicy(c *gin.Context) {
	policy, err := h.service.GetEffectivePolicy(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch commission policy")
		return
	}
	common.SuccessResponse(c, policy, nil)
}

// SetPolicy godoc
// @Summary      수수료 정책 변경
// @Description  새 버전을 추가한다. 기존 정산은 재계산되지 않으며 과거 effective_from은 거부.
// @Tags         commission-policy
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.SetPolicyRequest  true  "수수료율 / GST율"
// @Success      201  {object}  common.APIResponse{data=domain.CommissionPolicy}
// @Failure      400  {object}  common.APIResponse
// @Router       /commission-policy [put]
func (h *PolicyHandler) SetPolicy(c *gin.Context) {
	var req domain.SetPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	policy, err := h.service.SetPolicy(c.Request.Context(), &req, middleware.Actor(c))
	if err != nil {
		respondError(c, err, "Invalid commission policy")
		return
	}
	common.CreatedResponse(c, policy)
}

// History godoc
// @Summary      수수료 정책 이력 (최신순)
// @Tags         commission-policy
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query  int  false  "개수 (기본: 50, 최대: 200)"
// @Success      200  {object}  common.APIResponse{data=[]domain.CommissionPolicy}
// @Router       /commission-policy/history [get]
func (h *PolicyHandler) History(c *gin.Context) {
	limit := ginutil.QueryInt(c, "limit", 50, 1, 200)

	history, err := h.service.History(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "Failed to fetch policy history")
		return
	}
	common.SuccessResponse(c, history, nil)
}
