package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Xushengqwer/fruitmaster_service/myErrors"
)

// 与 gin 的 binding 共用同一套标签，HTTP 层之外的调用方同样受约束。
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct 校验请求结构体，失败时返回 ErrValidation 类的业务错误。
func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return myErrors.New(myErrors.ErrValidation, formatFieldError(verrs[0]))
	}
	return myErrors.New(myErrors.ErrValidation, "请求参数不合法")
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s 不能为空", field)
	case "oneof":
		return fmt.Sprintf("%s 只能是 %s 之一", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s 长度不能超过 %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s 长度不能少于 %s", field, fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s 超出允许范围", field)
	default:
		return fmt.Sprintf("%s 不合法", field)
	}
}
