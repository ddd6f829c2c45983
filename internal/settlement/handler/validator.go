package handler

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// 은행 거래 참조번호 (UTR, NEFT/IMPS ref 등). 영숫자로 시작, 이후 . _ / - 허용.
var txRefPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]*$`)

var registerOnce sync.Once

// RegisterValidators gin 바인딩 검증기에 커스텀 태그 등록
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("txref", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || txRefPattern.MatchString(s)
		})
	})
}
