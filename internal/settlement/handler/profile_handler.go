package handler

import (
	"github.com/damoang/payout-ledger/internal/common"
	"github.com/damoang/payout-ledger/internal/settlement/domain"
	"github.com/damoang/payout-ledger/internal/settlement/service"
	"github.com/damoang/payout-ledger/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// ProfileHandler 판매자 정산 계좌 프로필
type ProfileHandler struct {
	service service.ProfileService
}

// NewProfileHandler 생성자
func NewProfileHandler(svc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: svc}
}

func parseSellerID(c *gin.Context) (uint64, bool) {
	id, err := ginutil.ParamUint64(c, "seller_id")
	if err != nil || id == 0 {
		respondError(c, domain.ErrInvalidInput, "Invalid seller ID")
		return 0, false
	}
	return id, true
}

// GetProfile godoc
// @Summary      판매자 계좌 검증 상태 조회
// @Tags         payout-profiles
// @Produce      json
// @Security     BearerAuth
// @Param        seller_id  path  int  true  "판매자 ID"
// @Success      200  {object}  common.APIResponse{data=domain.SellerPayoutProfile}
// @Failure      404  {object}  common.APIResponse
// @Router       /payout-profiles/{seller_id} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	sellerID, ok := parseSellerID(c)
	if !ok {
		return
	}

	profile, err := h.service.Get(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err, "Failed to fetch payout profile")
		return
	}
	common.SuccessResponse(c, profile, nil)
}

// SyncProfile godoc
// @Summary      판매자 계좌 검증 상태 동기화 (내부)
// @Tags         internal
// @Accept       json
// @Produce      json
// @Param        X-API-Key  header  string                     true  "내부 API 키"
// @Param        seller_id  path    int                        true  "판매자 ID"
// @Param        request    body    domain.SyncProfileRequest  true  "검증 상태"
// @Success      200  {object}  common.APIResponse{data=domain.SellerPayoutProfile}
// @Router       /internal/payout-profiles/{seller_id} [put]
func (h *ProfileHandler) SyncProfile(c *gin.Context) {
	sellerID, ok := parseSellerID(c)
	if !ok {
		return
	}

	var req domain.SyncProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	profile, err := h.service.Sync(c.Request.Context(), sellerID, &req)
	if err != nil {
		respondError(c, err, "Failed to sync payout profile")
		return
	}
	common.SuccessResponse(c, profile, nil)
}
