package handler

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"garrison/internal/config"
	"garrison/internal/middleware"
	"garrison/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

//go:embed templates/*.html
var templateFS embed.FS

// NewRouter wires services, middleware and the route table. Guards are
// attached per route so the table reads as the access policy.
func NewRouter(cfg *config.Config, db *gorm.DB) (*gin.Engine, error) {
	creds, err := service.NewCredentialStrategy(cfg.Auth.CredentialStrategy)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	sess := middleware.NewSessions(cfg.Auth.SecretKey, cfg.Auth.CookieSecure)
	tokens := middleware.NewTokens(cfg.Auth.JWTSecret)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	memberSvc := service.NewMemberService(db)
	authH := NewAuthHandler(service.NewAuthService(db, creds), sess, tokens, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword)
	recruitH := NewRecruitmentHandler(service.NewRecruitmentService(db, creds, cfg.Recruitment.AtomicSubmission))
	appH := NewApplicationHandler(service.NewApplicationService(db))
	newsH := NewNewsHandler(service.NewNewsService(db, service.NewRenderer()))
	groupH := NewGroupHandler(service.NewGroupService(db))
	actionH := NewActionHandler(service.NewActionService(db))
	memberH := NewMemberHandler(memberSvc)
	pageH := NewPageHandler(memberSvc)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(), metrics.Handler())
	r.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	r.Use(sess.Load())

	admin := middleware.AdminRequired()
	member := middleware.MemberRequired(tokens)
	memberPage := middleware.MemberRequired(nil)

	r.GET("/healthz", health(db))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// pages
	r.GET("/", pageH.Static("index", "Гарнизон"))
	r.GET("/recruitment", pageH.Static("recruitment", "Набор"))
	r.GET("/admin", admin, pageH.Static("admin", "Панель администратора"))
	r.GET("/admin/applications", admin, pageH.Static("admin_applications", "Заявки"))
	r.GET("/admin/news", admin, pageH.Static("admin_news", "Новости"))
	r.GET("/admin/users", admin, pageH.Static("admin_users", "Пользователи"))
	r.GET("/user", memberPage, pageH.Member)

	// auth
	r.GET("/login", authH.LoginPage)
	r.POST("/login", authH.Login)
	r.GET("/logout", authH.Logout)
	r.GET("/admin/login", authH.AdminLoginPage)
	r.POST("/admin/login", authH.AdminLogin)
	r.GET("/admin/logout", authH.AdminLogout)
	r.POST("/api/login", authH.TokenLogin)

	r.POST("/recruitment/submit", recruitH.Submit)

	r.GET("/api/applications", admin, appH.List)
	r.GET("/api/applications/:id", admin, appH.Get)
	r.PUT("/api/applications/:id/status", admin, appH.UpdateStatus)
	r.GET("/api/admin/applications/export", admin, appH.Export)

	r.GET("/api/news", newsH.List)
	r.GET("/api/news/:id", newsH.Get)
	r.POST("/api/news", admin, newsH.Create)
	r.PUT("/api/news/:id", admin, newsH.Update)
	r.DELETE("/api/news/:id", admin, newsH.Delete)

	r.POST("/api/admin/actions/task", admin, actionH.Task())
	r.POST("/api/admin/actions/assignment", admin, actionH.Assignment())
	r.POST("/api/admin/actions/schedule", admin, actionH.Schedule())
	r.POST("/api/admin/actions/notification", admin, actionH.Notification())

	r.GET("/api/admin/groups", admin, groupH.List)
	r.POST("/api/admin/groups", admin, groupH.Create)
	r.PUT("/api/admin/groups/:id", admin, groupH.Update)
	r.DELETE("/api/admin/groups/:id", admin, groupH.Delete)
	r.GET("/api/admin/groups/:id/members", admin, groupH.Members)
	r.POST("/api/admin/groups/:id/members", admin, groupH.AddMember)
	r.DELETE("/api/admin/groups/:id/members/:user_id", admin, groupH.RemoveMember)

	r.GET("/api/admin/users", admin, memberH.List)
	r.PUT("/api/admin/users/:id", admin, memberH.UpdateRank)

	r.GET("/api/user/me", member, memberH.Me)
	r.GET("/api/user/tasks", member, memberH.Tasks)
	r.GET("/api/user/assignments", member, memberH.Assignments)
	r.GET("/api/user/notifications", member, memberH.Notifications)
	r.PUT("/api/user/notifications/:id/read", member, memberH.MarkRead)
	r.GET("/api/user/schedule", member, memberH.Schedule)

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"X-New-Token", middleware.RequestIDHeader},
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
