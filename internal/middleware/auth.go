package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	AdminLoginPath  = "/admin/login"
	MemberLoginPath = "/login"
)

// AdminRequired sends anyone without the admin flag to the admin login
// page. It never answers 401 or 403.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.Redirect(http.StatusFound, AdminLoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// MemberRequired admits a member identified by session, or by a bearer
// token when tokens is non-nil. Requests with neither are redirected to the
// member login page; a bad bearer token is a 401.
func MemberRequired(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := MemberID(c); ok {
			c.Next()
			return
		}
		if raw, ok := bearer(c.GetHeader("Authorization")); ok && tokens != nil {
			uid, _, renewed, err := tokens.Parse(raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
				return
			}
			if renewed != "" {
				c.Header("X-New-Token", renewed)
			}
			c.Set(CtxUserID, uid)
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, MemberLoginPath)
		c.Abort()
	}
}
