// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the session side of the access guard. Sessions ride
// in an authenticated cookie (gin-contrib/sessions cookie store); the only
// thing stored server-visible is the user ID. RequireAuth gates every
// lifecycle and settings route: an unauthenticated caller is rejected with
// a 401 envelope before any handler runs, which keeps "unauthenticated"
// distinct from "not found" and "validation failed".
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/kitadesk/kitadesk-backend/internal/config"
)

const (
	// userIDKey is the Gin context key carrying the authenticated user ID.
	userIDKey = "userID"
	// sessionUserKey is the session value key for the user ID.
	sessionUserKey = "user_id"
)

// Sessions returns the cookie-session middleware configured from cfg.
// Install it before RequireAuth and before any handler that establishes
// or clears sessions.
func Sessions(cfg config.SessionConfig) gin.HandlerFunc {
	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TTL / time.Second),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(cfg.CookieName, store)
}

// RequireAuth rejects requests without an authenticated session. On
// success the user ID is exposed under the "userID" context key for
// handlers and the rate limiter.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		v := sess.Get(sessionUserKey)
		uid, ok := v.(string)
		if !ok || uid == "" {
			rid, _ := c.Get(requestIDKey)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": asString(rid),
				"code":       "unauthorized",
				"message":    "authentication required",
			})
			return
		}
		c.Set(userIDKey, uid)
		c.Next()
	}
}

// EstablishSession binds the current caller's cookie to userID. Called by
// the auth handlers after register/login succeed.
func EstablishSession(c *gin.Context, userID string) error {
	sess := sessions.Default(c)
	sess.Set(sessionUserKey, userID)
	return sess.Save()
}

// ClearSession terminates the caller's session (logout).
func ClearSession(c *gin.Context) error {
	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	return sess.Save()
}

// SessionUserID returns the authenticated user ID placed in the context by
// RequireAuth, or "" when the request is anonymous.
func SessionUserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
