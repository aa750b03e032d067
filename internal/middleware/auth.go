package middleware

import (
	"net/http"

	"answerhub/internal/db"
	"answerhub/internal/services"

	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"
const AuthContextKey = "auth"

// 上游网关（开发环境为调用方自报）注入的身份请求头
const (
	HeaderUserID       = "X-User-Id"
	HeaderUserEmail    = "X-User-Email"
	HeaderUserName     = "X-User-Name"
	HeaderDepartmentID = "X-Department-Id"
)

// LoadUser 从请求头解析身份，找不到用户时自动建档并挂到上下文。
// 头缺失时不拦截，交给 AuthRequired 决定是否放行。
func LoadUser() gin.HandlerFunc {
	userService := services.NewUserService(db.DB)
	return func(c *gin.Context) {
		userID := c.GetHeader(HeaderUserID)
		if userID != "" {
			auth := services.AuthContext{
				UserID:       userID,
				Email:        c.GetHeader(HeaderUserEmail),
				DisplayName:  c.GetHeader(HeaderUserName),
				DepartmentID: c.GetHeader(HeaderDepartmentID),
			}
			if auth.DisplayName == "" {
				auth.DisplayName = auth.Email
			}

			user, err := userService.GetOrProvision(auth)
			if err == nil {
				c.Set(CheckUserKey, user)
				c.Set(AuthContextKey, auth)
			}
		}
		c.Next()
	}
}

// AuthRequired ensures the request carries a resolvable identity
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(AuthContextKey); !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   http.StatusText(http.StatusUnauthorized),
				"message": "authentication required, set the X-User-Id header",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
