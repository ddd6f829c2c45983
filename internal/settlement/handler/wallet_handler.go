package handler

import (
	"github.com/damoang/payout-ledger/internal/common"
	"github.com/damoang/payout-ledger/internal/settlement/service"
	"github.com/gin-gonic/gin"
)

// WalletHandler 플랫폼 지갑 조회
type WalletHandler struct {
	service service.WalletService
}

// NewWalletHandler 생성자
func NewWalletHandler(svc service.WalletService) *WalletHandler {
	return &WalletHandler{service: svc}
}

// GetWallet godoc
// @Summary      플랫폼 지갑
// @Description  total_balance = 전체 정산의 수수료+세금, pending_payouts = READY 정산액 합계
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse{data=domain.WalletView}
// @Router       /wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	wallet, err := h.service.GetWallet(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch wallet")
		return
	}
	common.SuccessResponse(c, wallet, nil)
}
