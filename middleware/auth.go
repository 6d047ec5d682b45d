package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"weblog/utils"
)

const (
	// ContextUserIDKey stores the authenticated user ID in the gin context.
	ContextUserIDKey = "user_id"
	// ContextEmailKey stores the authenticated user's email.
	ContextEmailKey = "email"
	// SessionCookieName is the http-only cookie carrying the session token.
	SessionCookieName = "weblog_session"
)

// AuthRequired resolves the current user from either a bearer token or the
// session cookie and rejects requests with missing, invalid or revoked
// tokens.
func AuthRequired(tm *utils.TokenManager, bl *utils.TokenBlacklist) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := sessionToken(ctx)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authentication required")
			ctx.Abort()
			return
		}

		if bl.Contains(token) {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "session revoked")
			ctx.Abort()
			return
		}

		claims, err := tm.Parse(token)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid session token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextEmailKey, claims.Email)
		ctx.Next()
	}
}

// sessionToken extracts the token from the Authorization header, falling
// back to the session cookie.
func sessionToken(ctx *gin.Context) (string, bool) {
	if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token, true
			}
		}
		return "", false
	}

	if token, err := ctx.Cookie(SessionCookieName); err == nil && token != "" {
		return token, true
	}
	return "", false
}
