package controller

import (
	"errors"
	"net/http"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/fruitmaster_service/models/vo"
	"github.com/Xushengqwer/fruitmaster_service/myErrors"
)

// respond 把 Store 的统一结果写成 HTTP 响应，失败时按错误类别选择状态码。
func respond[T any](c *gin.Context, r vo.Result[T], okMsg string) {
	if r.Success {
		response.RespondSuccess(c, r.Data, okMsg)
		return
	}
	err := r.Err()
	switch {
	case errors.Is(err, myErrors.ErrValidation):
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, r.Message)
	case errors.Is(err, myErrors.ErrConflict):
		response.RespondError(c, http.StatusConflict, response.ErrCodeClientInvalidInput, r.Message)
	case errors.Is(err, myErrors.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, r.Message)
	case errors.Is(err, myErrors.ErrAuth):
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, r.Message)
	case errors.Is(err, myErrors.ErrPermission), errors.Is(err, myErrors.ErrSelfDelete):
		response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, r.Message)
	default:
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, r.Message)
	}
}

// badRequest 请求体或查询参数绑定失败。
func badRequest(c *gin.Context, err error) {
	response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求参数: "+err.Error())
}
