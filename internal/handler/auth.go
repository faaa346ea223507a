package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"garrison/internal/logger"
	"garrison/internal/middleware"
	"garrison/internal/model"
	"garrison/internal/service"

	"github.com/gin-gonic/gin"
)

const msgBadLogin = "Неверный логин или пароль"

type AuthHandler struct {
	auth          *service.AuthService
	sessions      *middleware.Sessions
	tokens        *middleware.Tokens
	adminUsername string
	adminPassword string
}

func NewAuthHandler(auth *service.AuthService, sessions *middleware.Sessions, tokens *middleware.Tokens, adminUsername, adminPassword string) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, tokens: tokens, adminUsername: adminUsername, adminPassword: adminPassword}
}

type loginPage struct {
	Role   string
	Action string
	Error  string
}

func renderLogin(c *gin.Context, role, errMsg string) {
	action := middleware.MemberLoginPath
	if role == "admin" {
		action = middleware.AdminLoginPath
	}
	c.HTML(http.StatusOK, "login.html", loginPage{Role: role, Action: action, Error: errMsg})
}

// GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) { renderLogin(c, "user", "") }

// POST /login  form: username, password
func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := strings.TrimSpace(c.PostForm("password"))

	m, err := h.auth.Login(c.Request.Context(), username, password)
	if err != nil {
		if !errors.Is(err, service.ErrBadCredentials) {
			logger.Error("login.error", "err", err)
		}
		logger.Warn("login.failed", "username", username)
		renderLogin(c, "user", msgBadLogin)
		return
	}
	if err := h.sessions.SetMember(c, m.ID); err != nil {
		respondError(c, err)
		return
	}
	logger.Info("login.ok", "uid", m.ID, "username", m.Username)
	c.Redirect(http.StatusFound, "/user")
}

// GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.ClearMember(c); err != nil {
		logger.Warn("logout.failed", "err", err)
	}
	c.Redirect(http.StatusFound, "/")
}

// GET /admin/login
func (h *AuthHandler) AdminLoginPage(c *gin.Context) { renderLogin(c, "admin", "") }

// POST /admin/login  form: username, password
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.adminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.adminPassword)) == 1
	if !userOK || !passOK {
		logger.Warn("admin_login.failed", "username", username)
		renderLogin(c, "admin", msgBadLogin)
		return
	}
	if err := h.sessions.SetAdmin(c); err != nil {
		respondError(c, err)
		return
	}
	logger.Info("admin_login.ok")
	c.Redirect(http.StatusFound, "/admin")
}

// GET /admin/logout
func (h *AuthHandler) AdminLogout(c *gin.Context) {
	if err := h.sessions.ClearAdmin(c); err != nil {
		logger.Warn("admin_logout.failed", "err", err)
	}
	c.Redirect(http.StatusFound, "/")
}

// POST /api/login  body: {"username":"...","password":"..."}
// Issues a bearer token for API clients that cannot hold a cookie.
func (h *AuthHandler) TokenLogin(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	m, err := h.auth.Login(c.Request.Context(), strings.TrimSpace(req.Username), strings.TrimSpace(req.Password))
	if err != nil {
		logger.Warn("login.failed", "username", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgBadLogin})
		return
	}

	token, err := h.tokens.Issue(m.ID, m.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	logger.Info("login.token", "uid", m.ID)
	c.JSON(http.StatusOK, model.LoginResponse{Token: token, User: service.AccountView(m)})
}
