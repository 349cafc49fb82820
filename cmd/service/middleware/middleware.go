package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/knova-ai/knova/app/core"
	v1 "github.com/knova-ai/knova/app/logic/v1"
	"github.com/knova-ai/knova/app/response"
	"github.com/knova-ai/knova/pkg/auth"
	"github.com/knova-ai/knova/pkg/errors"
	"github.com/knova-ai/knova/pkg/i18n"
	"github.com/knova-ai/knova/pkg/security"
	"github.com/knova-ai/knova/pkg/types"
)

func I18n() gin.HandlerFunc {
	var allowList []string
	for k := range i18n.ALLOW_LANG {
		allowList = append(allowList, k)
	}
	l := i18n.NewLocalizer(allowList...)

	return response.ProvideResponseLocalizer(l)
}

func Cors(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept-Language, "+security.TOKEN_HEADER_KEY)

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

// Metrics records per-route response time and error counts.
func Metrics(appCore *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := appCore.Metrics().ApiResponseTimer(c.FullPath())
		c.Next()
		timer.ObserveDuration()
		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			appCore.Metrics().ApiErrorInc(c.Request.Method, c.FullPath(), status)
		}
	}
}

// Authorization resolves the bearer token into caller claims. The redis cache
// is tried first; a miss falls back to signature verification. An inactive or
// deleted user is rejected even with a valid token.
func Authorization(appCore *core.Core) gin.HandlerFunc {
	tracePrefix := "middleware.Authorization"
	return func(c *gin.Context) {
		tokenValue := strings.TrimPrefix(c.GetHeader(security.TOKEN_HEADER_KEY), "Bearer ")
		if tokenValue == "" {
			response.APIError(c, errors.New(tracePrefix, i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
			return
		}

		claims, err := auth.ValidateTokenFromCache(c, tokenValue, appCore.Cache())
		if err != nil {
			response.APIError(c, errors.Trace(tracePrefix, err))
			return
		}

		if claims == nil {
			parsed, err := security.ParseToken(tokenValue, appCore.Cfg().Auth.JWTSecret)
			if err != nil {
				response.APIError(c, errors.New(tracePrefix+".ParseToken", i18n.ERROR_INVALID_TOKEN, err).Code(http.StatusUnauthorized))
				return
			}
			if err = parsed.Valid(); err != nil {
				response.APIError(c, errors.New(tracePrefix+".Valid", i18n.ERROR_TOKEN_EXPIRED, err).Code(http.StatusUnauthorized))
				return
			}
			claims = &parsed
		}

		user, err := appCore.Store().UserStore().GetUser(c, claims.User)
		if err != nil {
			response.APIError(c, errors.New(tracePrefix+".UserStore.GetUser", i18n.ERROR_UNAUTHORIZED, err).Code(http.StatusUnauthorized))
			return
		}
		if !user.Active {
			response.APIError(c, errors.New(tracePrefix+".inactive", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden))
			return
		}

		// Role and department come from the user record, not the token, so a
		// reassignment takes effect without waiting for token expiry.
		c.Set(v1.TOKEN_CONTEXT_KEY, security.TokenClaims{
			User:       user.ID,
			UserName:   user.Name,
			Role:       user.Role,
			Department: user.DepartmentOrEmpty(),
			ExpireTime: claims.ExpireTime,
			NotBefore:  claims.NotBefore,
		})
	}
}

// VerifyAdminRole guards the admin surface. Authorization must run first.
func VerifyAdminRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := v1.InjectTokenClaim(c)
		if !ok || claims.Role != types.USER_ROLE_ADMIN {
			response.APIError(c, errors.New("middleware.VerifyAdminRole", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden))
			return
		}
	}
}

// UseLimit rate-limits by a caller-derived key.
func UseLimit(appCore *core.Core, genKey func(c *gin.Context) string, opts ...core.LimitOption) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !appCore.UseLimiter(genKey(c), opts...).Allow() {
			response.APIError(c, errors.New("middleware.UseLimit", i18n.ERROR_TOO_MANY_REQUESTS, nil).Code(http.StatusTooManyRequests))
		}
	}
}
