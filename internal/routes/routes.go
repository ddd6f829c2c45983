package routes

import (
	"github.com/damoang/payout-ledger/internal/middleware"
	"github.com/damoang/payout-ledger/internal/settlement/handler"
	"github.com/damoang/payout-ledger/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Handlers 라우팅에 필요한 핸들러 묶음
type Handlers struct {
	Settlement *handler.SettlementHandler
	Policy     *handler.PolicyHandler
	Wallet     *handler.WalletHandler
	Profile    *handler.ProfileHandler
}

// Options 인증/제한 설정
type Options struct {
	JWTManager      *jwt.Manager
	InternalAPIKey  string
	Redis           *redis.Client // nil이면 rate limit 비활성
	PayoutRateLimit int
}

// Setup configures all ledger routes
func Setup(router gin.IRouter, h Handlers, opts Options) {
	authed := router.Group("", middleware.JWTAuth(opts.JWTManager))
	admin := authed.Group("", middleware.RequireAdmin())
	adminWrite := admin.Group("", middleware.RateLimitPerActor(opts.Redis, opts.PayoutRateLimit))

	// 정산 (판매자는 자기 것만, 관리자는 전체)
	settlements := authed.Group("/settlements")
	settlements.GET("", h.Settlement.ListSettlements)
	settlements.GET("/summary", h.Settlement.GetSummary)
	settlements.GET("/:id", h.Settlement.GetSettlement)
	settlements.GET("/:id/transitions", h.Settlement.ListTransitions)

	// 정산 상태 전이 (관리자)
	adminWrite.POST("/settlements/:id/pay", h.Settlement.Pay)
	adminWrite.POST("/settlements/:id/hold", h.Settlement.Hold)
	adminWrite.POST("/settlements/:id/release", h.Settlement.Release)

	// 플랫폼 지갑 / 수수료 정책 / 계좌 프로필 (정책 조회 외에는 관리자)
	admin.GET("/wallet", h.Wallet.GetWallet)
	authed.GET("/commission-policy", h.Policy.GetPolicy)
	admin.GET("/commission-policy/history", h.Policy.History)
	adminWrite.PUT("/commission-policy", h.Policy.SetPolicy)
	admin.GET("/payout-profiles/:seller_id", h.Profile.GetProfile)

	// 서비스 간 호출 (주문 시스템, 반품 시스템, 판매자 프로필 시스템)
	internal := router.Group("/internal", middleware.InternalAPIKey(opts.InternalAPIKey))
	internal.POST("/settlements", h.Settlement.CreateSettlement)
	internal.POST("/settlements/:id/ready", h.Settlement.MarkReady)
	internal.PUT("/payout-profiles/:seller_id", h.Profile.SyncProfile)
}
