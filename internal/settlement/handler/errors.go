package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/damoang/payout-ledger/internal/common"
	"github.com/damoang/payout-ledger/internal/settlement/domain"
	"github.com/damoang/payout-ledger/pkg/logger"
	"github.com/gin-gonic/gin"
)

// statusOf 에러 분류 → HTTP 상태
func statusOf(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindConflict, domain.KindPrecondition:
		return http.StatusConflict
	case domain.KindIntegrity:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError 도메인 에러를 분류별 상태 코드와 에러 코드로 응답
func respondError(c *gin.Context, err error, message string) {
	kind := domain.KindOf(err)
	status := statusOf(kind)
	code := domain.CodeOf(err)

	if status == http.StatusInternalServerError {
		logger.GetLogger().Error().Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.FullPath()).
			Msg(message)
		// 내부 에러 메시지는 노출하지 않는다
		common.CodedErrorResponse(c, status, code, message, nil)
		return
	}
	common.CodedErrorResponse(c, status, code, message, err)
}

// bindError 요청 바인딩 실패. 금액 형식 에러는 그대로, 나머지는 입력 오류로 분류.
func bindError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrInvalidAmount) {
		respondError(c, err, "Invalid amount")
		return
	}
	respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err), "Invalid request")
}
