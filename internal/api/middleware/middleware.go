// Package middleware 提供 hertz 服务使用的通用中间件
package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"resume-insights/internal/logger"
	"resume-insights/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
	"github.com/hertz-contrib/cors"
	"github.com/hertz-contrib/keyauth"
)

// HeaderRequestID 请求ID使用的头
const HeaderRequestID = "X-Request-ID"

// HeaderAPIKey API Key 使用的头
const HeaderAPIKey = "X-API-Key"

// ContextKeyRequestID RequestContext 中保存请求ID的键
const ContextKeyRequestID = "request_id"

var errInvalidAPIKey = errors.New("invalid api key")

// RequestID 透传或生成请求ID，并把带 request_id 字段的日志放进 context
func RequestID() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		id := string(ctx.GetHeader(HeaderRequestID))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		ctx.Set(ContextKeyRequestID, id)
		ctx.Response.Header.Set(HeaderRequestID, id)

		reqLogger := logger.Logger.With().Str("request_id", id).Logger()
		ctx.Next(reqLogger.WithContext(c))
	}
}

// AccessLog 记录请求与响应
func AccessLog() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		hlog.CtxInfof(c, "%s %s status=%d latency=%s request_id=%s",
			string(ctx.Method()), string(ctx.Path()), ctx.Response.StatusCode(),
			time.Since(start), ctx.GetString(ContextKeyRequestID))
	}
}

// CORS 允许的来源为空时放行所有来源
func CORS(allowedOrigins []string) app.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", HeaderAPIKey, HeaderRequestID},
		ExposeHeaders: []string{HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cors.New(cfg)
}

// APIKeyAuth 校验 X-API-Key 头。keys 为空时返回 nil，调用方不应注册
func APIKeyAuth(keys []string) app.HandlerFunc {
	if len(keys) == 0 {
		return nil
	}
	return keyauth.New(
		keyauth.WithKeyLookUp("header:"+HeaderAPIKey, ""),
		keyauth.WithValidator(func(_ context.Context, _ *app.RequestContext, key string) (bool, error) {
			for _, k := range keys {
				if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
					return true, nil
				}
			}
			return false, errInvalidAPIKey
		}),
		keyauth.WithErrorHandler(func(c context.Context, ctx *app.RequestContext, err error) {
			logger.Ctx(c).Warn().Err(err).Str("path", string(ctx.Path())).Msg("API Key 校验失败")
			ctx.AbortWithStatusJSON(consts.StatusUnauthorized, types.ErrorResponse{Error: "未授权"})
		}),
	)
}
