package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zumnet/numeros-sorte/internal/api/handler/v1/response"
	"github.com/zumnet/numeros-sorte/internal/pkg/jwthelper"
)

const claimsContextKey = "jwt_claims"

var (
	errMissingToken      = errors.New("missing bearer token")
	errUserAgentMismatch = errors.New("token was issued to another user agent")
)

type Authenticator struct {
	key []byte
}

func NewAuthenticator(key string) *Authenticator {
	return &Authenticator{
		key: []byte(key),
	}
}

// VerifyJWT rejects requests without a valid bearer token and stores its
// claims in the gin context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(tokenString) == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.key, strings.TrimSpace(tokenString))
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		if claims.UserAgent != "" && claims.UserAgent != ctx.Request.UserAgent() {
			response.RenderErr(ctx, response.ErrUnauthorized(errUserAgentMismatch))
			return
		}

		ctx.Set(claimsContextKey, claims)
		ctx.Next()
	}
}

// RequireRole must run after VerifyJWT.
func RequireRole(role string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, ok := ClaimsFromContext(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		if claims.Role != role {
			response.RenderErr(ctx, response.ErrPermissionDenied())
			return
		}

		ctx.Next()
	}
}

func ClaimsFromContext(ctx *gin.Context) (*jwthelper.Claims, bool) {
	value, exists := ctx.Get(claimsContextKey)
	if !exists {
		return nil, false
	}

	claims, ok := value.(*jwthelper.Claims)

	return claims, ok
}
