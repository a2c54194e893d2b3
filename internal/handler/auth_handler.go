package handler

import (
	"net/http"

	"gaportal/internal/guard"
	"gaportal/internal/middleware"
	"gaportal/internal/model"
	"gaportal/internal/service"
	"gaportal/internal/session"
	"gaportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type LoginResponse struct {
	User     *model.User `json:"user"`
	Token    string      `json:"token"`
	Redirect string      `json:"redirect"`
}

type AuthHandler struct {
	authService service.AuthService
	cookies     *middleware.SessionCookies
	limiter     *middleware.RateLimiter
}

func NewAuthHandler(authService service.AuthService, cookies *middleware.SessionCookies, limiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies, limiter: limiter}
}

// RegisterRoutes binds the session endpoints. They are reachable without a session.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, guard.DashboardPath) })
	router.GET("/login", h.LoginPage)
	router.GET("/theme", h.GetTheme)
	router.POST("/theme", h.ToggleTheme)

	auth := router.Group("/auth")
	{
		auth.POST("/login", h.limiter.Middleware(), h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.GetMe)
	}

	router.GET("/navigation", middleware.RequireRole(), h.GetNavigation)
}

// LoginPage answers the guard's login redirect. Signed-in users go straight to the dashboard.
// @Summary      Login page
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Success      302
// @Router       /login [get]
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if middleware.CurrentSession(c) != nil {
		c.Redirect(http.StatusFound, guard.DashboardPath)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"page":  "login",
		"state": middleware.CurrentState(c),
		"theme": model.LightTheme(),
	}))
}

// Login handles POST /auth/login
// @Summary      Sign in
// @Description  Signs in against the GA backend and starts a portal session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=LoginResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sess, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	token, err := h.cookies.Set(c, sess)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, LoginResponse{
		User:     sess.User(),
		Token:    token,
		Redirect: guard.DashboardPath,
	}))
}

// Logout handles POST /auth/logout. It always clears the cookie, with or without a session.
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	err := h.authService.Logout(c.Request.Context(), middleware.CurrentSession(c), middleware.SessionKey(c))
	h.cookies.Clear(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"state": session.StateAnonymous, "redirect": guard.LoginPath}))
}

// GetMe handles GET /auth/me
// @Summary      Current session
// @Description  Returns the signed-in user, or state anonymous
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.MeResponse}
// @Router       /auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.authService.Me(middleware.CurrentSession(c), middleware.CurrentState(c))))
}

// GetNavigation handles GET /navigation
// @Summary      Menu of the signed-in user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]guard.Route}
// @Router       /navigation [get]
func (h *AuthHandler) GetNavigation(c *gin.Context) {
	me := h.authService.Me(middleware.CurrentSession(c), middleware.CurrentState(c))
	c.JSON(http.StatusOK, response.Success(http.StatusOK, me.Navigation))
}

// GetTheme handles GET /theme. The portal ships only the light theme.
// @Summary      Theme
// @Tags         theme
// @Produce      json
// @Success      200  {object}  response.Response{data=model.Theme}
// @Router       /theme [get]
func (h *AuthHandler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, model.LightTheme()))
}

// ToggleTheme handles POST /theme. The toggle is accepted and has no effect.
// @Summary      Toggle theme
// @Tags         theme
// @Produce      json
// @Success      200  {object}  response.Response{data=model.Theme}
// @Router       /theme [post]
func (h *AuthHandler) ToggleTheme(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, model.LightTheme()))
}
