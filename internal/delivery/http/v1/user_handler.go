package v1

import (
	"net/http"
	"time"

	"go-dreamjob-backend/internal/delivery/http/middleware"
	"go-dreamjob-backend/internal/delivery/http/response"
	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/pkg/apperror"
	"go-dreamjob-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUC       domain.UserUsecase
	secureCookie bool
}

func NewUserHandler(public, protected *gin.RouterGroup, limit gin.HandlerFunc, userUC domain.UserUsecase, secureCookie bool) {
	handler := &UserHandler{userUC: userUC, secureCookie: secureCookie}

	publicUsers := public.Group("/users")
	{
		publicUsers.POST("/register", limit, handler.Register)
		publicUsers.POST("/login", limit, handler.Login)
		publicUsers.POST("/logout", handler.Logout)
	}

	protected.GET("/users/me", handler.Me)
}

type RegisterRequest struct {
	Email    string `json:"email" form:"email"`
	Name     string `json:"name" form:"name"`
	Password string `json:"password" form:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Register godoc
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        register  body      RegisterRequest  true  "Registration details"
// @Success      201  {object}  response.Response{data=domain.User}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	user, err := h.userUC.Register(c.Request.Context(), domain.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "User registered", user)
}

// Login godoc
// @Summary      Log in
// @Description  Issues a session token, also set as the "session" cookie with a matching "csrf_token" cookie
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Credentials"
// @Success      200  {object}  response.Response{data=domain.Session}
// @Failure      401  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Router       /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	session, err := h.userUC.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		_ = c.Error(err)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(security.SessionCookieName, session.Token, maxAge, "/", "", h.secureCookie, true)
	if _, err := middleware.IssueCSRFToken(c, maxAge, h.secureCookie); err != nil {
		_ = c.Error(apperror.Internal(err))
		return
	}
	response.Success(c, http.StatusOK, "Logged in", session)
}

// Logout godoc
// @Summary      Log out
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(security.SessionCookieName, "", -1, "/", "", h.secureCookie, true)
	middleware.ClearCSRFToken(c, h.secureCookie)
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// Me godoc
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /users/me [get]
// @Security     BearerAuth
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userUC.GetCurrentUser(c.Request.Context(), c.GetInt(string(domain.KeyUserID)))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Current user", user)
}
