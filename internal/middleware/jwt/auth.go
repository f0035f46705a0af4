package jwt

import (
	"context"
	"strings"

	"RepairDesk/pkg/back"
	"RepairDesk/pkg/util/myjwt"
	"RepairDesk/pkg/xerr"
	"RepairDesk/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CtxUUID     = "uuid"
	CtxUsername = "username"
)

type TokenParser interface {
	ParseToken(token string) (*myjwt.CustomClaims, error)
}

// AdminChecker 按 uuid 判断是否为管理员
type AdminChecker interface {
	IsAdmin(ctx context.Context, uuid string) (bool, error)
}

// Auth 校验 Bearer token；浏览器 websocket 无法带 header，允许用 ?token= 传入
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			tokenString = strings.TrimPrefix(h, "Bearer ")
		} else if q := c.Query("token"); q != "" {
			tokenString = q
		}
		if tokenString == "" {
			back.Error(c, xerr.Unauthorized, "missing or invalid authorization header")
			c.Abort()
			return
		}

		claims, err := parser.ParseToken(tokenString)
		if err != nil {
			back.Error(c, xerr.Unauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set(CtxUUID, claims.Uuid)
		c.Set(CtxUsername, claims.Username)
		c.Next()
	}
}

// RequireAdmin 必须挂在 Auth 之后
func RequireAdmin(checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		uuid := c.GetString(CtxUUID)
		ok, err := checker.IsAdmin(c.Request.Context(), uuid)
		if err != nil {
			zlog.Error("admin check failed", zap.String("uuid", uuid), zap.Error(err))
			back.Error(c, xerr.InternalServerError, xerr.ErrServerError.Message)
			c.Abort()
			return
		}
		if !ok {
			back.Error(c, xerr.Forbidden, xerr.ErrForbidden.Message)
			c.Abort()
			return
		}
		c.Next()
	}
}
