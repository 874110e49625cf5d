package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ahmadqo/campus-console/internal/model"
	"github.com/ahmadqo/campus-console/internal/response"
	"github.com/ahmadqo/campus-console/internal/utils"
)

type contextKey string

const (
	ContextKeyUserID contextKey = "user_id"
	ContextKeyEmail  contextKey = "email"
	ContextKeyRole   contextKey = "role"
	ContextKeyName   contextKey = "name"
)

// SessionCookie holds the operator's access token for the HTML pages.
const SessionCookie = "session"

// tokenFrom reads a Bearer header first, then the session cookie.
func tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func withClaims(r *http.Request, claims *model.JWTClaims) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, ContextKeyUserID, claims.UserID)
	ctx = context.WithValue(ctx, ContextKeyEmail, claims.Email)
	ctx = context.WithValue(ctx, ContextKeyRole, claims.Role)
	ctx = context.WithValue(ctx, ContextKeyName, claims.Name)
	return r.WithContext(ctx)
}

// Authenticate validates the JWT of an API call.
func Authenticate(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFrom(r)
			if token == "" {
				response.Unauthorized(w, "Missing access token, use: Bearer <token>")
				return
			}

			claims, err := utils.ValidateToken(token, jwtSecret)
			if err != nil {
				response.Unauthorized(w, "Access token is invalid or expired")
				return
			}

			next.ServeHTTP(w, withClaims(r, claims))
		})
	}
}

// RequireSession is Authenticate for HTML pages: without a valid session
// the browser is sent to the login page and brought back afterwards.
func RequireSession(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := utils.ValidateToken(tokenFrom(r), jwtSecret)
			if err != nil {
				ClearSessionCookie(w)
				http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, withClaims(r, claims))
		})
	}
}

// RequireRole lets through only the listed roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole := GetRoleFromContext(r.Context())
			if userRole == "" {
				response.Unauthorized(w, "Token carries no role")
				return
			}

			for _, role := range roles {
				if strings.EqualFold(userRole, role) {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "You do not have access to this resource")
		})
	}
}

// RequireWriter blocks viewers from create, update and delete calls.
func RequireWriter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !model.Role(GetRoleFromContext(r.Context())).CanWrite() {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				response.Forbidden(w, "Read-only accounts cannot change records")
				return
			}
			http.Error(w, "Read-only accounts cannot change records", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func SetSessionCookie(w http.ResponseWriter, token string, expiresAt int64, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge(expiresAt),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func GetUserIDFromContext(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyUserID).(string)
	return val
}

func GetRoleFromContext(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyRole).(string)
	return val
}

func GetNameFromContext(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyName).(string)
	return val
}

func maxAge(expiresAt int64) int {
	secs := int(expiresAt - time.Now().Unix())
	if secs < 0 {
		return -1
	}
	return secs
}
