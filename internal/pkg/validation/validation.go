// internal/pkg/validation/validation.go
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	shippingdomain "mycelium/internal/service/shipping/domain"
)

// ErrInvalidRequest 是所有请求校验失败的根错误，HTTP 层统一映射为 400
var ErrInvalidRequest = errors.New("invalid request")

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// region 必须是 16 个区域之一，逐字节匹配
	_ = validate.RegisterValidation("region", func(fl validator.FieldLevel) bool {
		return shippingdomain.IsKnownRegion(fl.Field().String())
	})
}

// Struct 校验请求 DTO，把 validator 的错误整理成一行可读信息
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
}
