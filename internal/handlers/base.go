package handlers

import (
	"errors"
	"net/http"
	"os"

	"answerhub/internal/middleware"
	"answerhub/internal/services"
	"answerhub/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CurrentAuth 从上下文取认证信息，AuthRequired 之后的路由里一定存在
func CurrentAuth(c *gin.Context) services.AuthContext {
	auth, _ := c.Get(middleware.AuthContextKey)
	ctx, _ := auth.(services.AuthContext)
	return ctx
}

// parsePagination 解析 page/limit 查询参数，越界值交给服务层钳制
func parsePagination(c *gin.Context) services.Pagination {
	return services.Pagination{
		Page:  utils.StringToInt(c.DefaultQuery("page", "1")),
		Limit: utils.StringToInt(c.DefaultQuery("limit", "20")),
	}
}

// errorJSON 统一错误响应体：error 是状态类别，message 是具体原因
func errorJSON(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error":   http.StatusText(status),
		"message": message,
	})
}

// uuidParam 校验 :id 路径参数是合法 UUID，非法直接 400
func uuidParam(c *gin.Context) (string, bool) {
	return uuidParamNamed(c, "id")
}

// uuidParamNamed 同 uuidParam，参数名不叫 :id 的路由用
func uuidParamNamed(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid "+name+" parameter")
		return "", false
	}
	return id, true
}

// writeServiceError 把服务层哨兵错误映射成 HTTP 状态码。
// 未识别的错误一律 500，生产环境下不回显内部错误文本。
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		errorJSON(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrForbidden):
		errorJSON(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrValidation):
		errorJSON(c, http.StatusBadRequest, err.Error())
	default:
		message := err.Error()
		if os.Getenv("APP_ENV") == "production" {
			message = "internal server error"
		}
		errorJSON(c, http.StatusInternalServerError, message)
	}
}
