package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"microblog-backend/internal/shared/middleware"
	"microblog-backend/pkg/container"
	"microblog-backend/web"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.SetHTMLTemplate(web.Templates())

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.SessionIdentity(c.Tokens),
	)

	router.GET("/healthz", healthCheckHandler(c))

	setupPostRoutes(router, c)
	setupAuthRoutes(router, c)

	router.NoRoute(func(ctx *gin.Context) {
		ctx.HTML(http.StatusNotFound, "error.html", gin.H{
			"status":  http.StatusNotFound,
			"message": "Page not found",
		})
	})

	return router
}

// ========================================
// POST PAGES
// ========================================
func setupPostRoutes(router *gin.Engine, c *container.Container) {
	h := c.PostHandler

	router.GET("/", h.Index)
	router.GET("/group/:slug", h.GroupPosts)
	router.GET("/profile/:username", h.Profile)
	router.GET("/posts/:id", h.PostDetail)

	// Authoring requires a session; unauthenticated requests are
	// redirected to the login page.
	authed := router.Group("", middleware.RequireAuth("/auth/login"))
	{
		authed.GET("/create", h.PostCreate)
		authed.POST("/create", h.PostCreate)
		authed.GET("/posts/:id/edit", h.PostEdit)
		authed.POST("/posts/:id/edit", h.PostEdit)
	}
}

// ========================================
// ACCOUNT PAGES
// ========================================
func setupAuthRoutes(router *gin.Engine, c *container.Container) {
	h := c.AuthHandler

	auth := router.Group("/auth")
	{
		auth.GET("/signup", h.Signup)
		auth.POST("/signup", h.Signup)
		auth.GET("/login", h.Login)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"services":  gin.H{},
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = err.Error()
				health["status"] = "degraded"
			}
		}

		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = err.Error()
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
