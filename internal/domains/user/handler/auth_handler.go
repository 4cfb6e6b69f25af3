package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"microblog-backend/internal/domains/user"
	"microblog-backend/internal/shared/middleware"
	"microblog-backend/internal/shared/render"
	"microblog-backend/pkg/jwt"
	"microblog-backend/pkg/logger"
)

// AuthHandler serves the signup/login/logout pages and manages the
// session cookie.
type AuthHandler struct {
	service    user.Service
	tokens     *jwt.Manager
	sessionTTL time.Duration
}

func NewAuthHandler(svc user.Service, tokens *jwt.Manager, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		service:    svc,
		tokens:     tokens,
		sessionTTL: sessionTTL,
	}
}

// Signup - GET|POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		render.HTML(c, http.StatusOK, "signup.html", gin.H{"form": &user.SignupForm{}})
		return
	}

	f := &user.SignupForm{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	}

	created, fieldErrors, err := h.service.Signup(c.Request.Context(), f)
	if err != nil {
		logger.Error("signup failed", err)
		render.InternalError(c)
		return
	}

	if len(fieldErrors) > 0 {
		// Validation failure is a normal page render, not a protocol error
		render.HTML(c, http.StatusOK, "signup.html", gin.H{
			"form":   f,
			"errors": fieldErrors,
		})
		return
	}

	// Log the fresh account straight in
	if err := h.setSession(c, created.ID, created.Username); err != nil {
		logger.Error("failed to open session after signup", err)
		render.InternalError(c)
		return
	}

	render.Redirect(c, "/")
}

// Login - GET|POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		render.HTML(c, http.StatusOK, "login.html", gin.H{"form": &user.LoginForm{}})
		return
	}

	f := &user.LoginForm{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	}

	if fieldErrors := f.Validate(); len(fieldErrors) > 0 {
		render.HTML(c, http.StatusOK, "login.html", gin.H{
			"form":   f,
			"errors": fieldErrors,
		})
		return
	}

	u, err := h.service.Login(c.Request.Context(), f)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			render.HTML(c, http.StatusOK, "login.html", gin.H{
				"form":   f,
				"errors": user.FieldErrors{"form": "invalid username or password"},
			})
			return
		}
		logger.Error("login failed", err)
		render.InternalError(c)
		return
	}

	if err := h.setSession(c, u.ID, u.Username); err != nil {
		logger.Error("failed to open session", err)
		render.InternalError(c)
		return
	}

	render.Redirect(c, "/")
}

// Logout - POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	render.Redirect(c, "/")
}

func (h *AuthHandler) setSession(c *gin.Context, userID int64, username string) error {
	token, err := h.tokens.Generate(userID, username)
	if err != nil {
		return err
	}

	c.SetCookie(
		middleware.SessionCookie,
		token,
		int(h.sessionTTL.Seconds()),
		"/",
		"",
		false, // secure: terminated at the proxy in production
		true,  // httpOnly
	)
	return nil
}
