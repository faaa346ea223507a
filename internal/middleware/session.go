package middleware

import (
	"net/http"

	"garrison/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	SessionName = "garrison_session"

	adminKey  = "admin_logged_in"
	userIDKey = "user_id"

	// Context keys set by Sessions.Load and the member guard.
	CtxAdmin  = "admin_logged_in"
	CtxUserID = "user_id"
)

// Sessions keeps the two session flags in a signed cookie.
type Sessions struct {
	store sessions.Store
}

func NewSessions(secret string, secure bool) *Sessions {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

func (s *Sessions) session(c *gin.Context) *sessions.Session {
	sess, err := s.store.Get(c.Request, SessionName)
	if err != nil {
		// A cookie signed with a rotated secret is treated as no session.
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			logger.Debug("session.decode_failed", "path", c.Request.URL.Path)
		} else {
			logger.Warn("session.load_failed", "err", err)
		}
	}
	return sess
}

// Load reads the session once at the start of the request and exposes its
// flags on the gin context.
func (s *Sessions) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := s.session(c)
		if ok, _ := sess.Values[adminKey].(bool); ok {
			c.Set(CtxAdmin, true)
		}
		if id, ok := sess.Values[userIDKey].(int); ok && id > 0 {
			c.Set(CtxUserID, id)
		}
		c.Next()
	}
}

func (s *Sessions) SetAdmin(c *gin.Context) error {
	sess := s.session(c)
	sess.Values[adminKey] = true
	return sess.Save(c.Request, c.Writer)
}

func (s *Sessions) ClearAdmin(c *gin.Context) error {
	sess := s.session(c)
	delete(sess.Values, adminKey)
	return sess.Save(c.Request, c.Writer)
}

func (s *Sessions) SetMember(c *gin.Context, id int) error {
	sess := s.session(c)
	sess.Values[userIDKey] = id
	return sess.Save(c.Request, c.Writer)
}

func (s *Sessions) ClearMember(c *gin.Context) error {
	sess := s.session(c)
	delete(sess.Values, userIDKey)
	return sess.Save(c.Request, c.Writer)
}

// MemberID returns the member identity established for this request, by
// session or bearer token.
func MemberID(c *gin.Context) (int, bool) {
	id := c.GetInt(CtxUserID)
	return id, id > 0
}

func IsAdmin(c *gin.Context) bool { return c.GetBool(CtxAdmin) }
