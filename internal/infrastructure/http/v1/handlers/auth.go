package handlers

import (
	"github.com/gin-gonic/gin"

	"rentware/internal/core/appctx"
	"rentware/internal/core/apperror"
	"rentware/internal/domain/auth"
	"rentware/internal/infrastructure/http/v1/dto"
)

// AuthHandler serves authentication and user management endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes wires the auth endpoints onto their groups.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/login", h.Login)
	public.POST("/refresh", h.Refresh)

	protected.POST("/logout", h.Logout)
	protected.GET("/me", h.Me)
	protected.POST("/change-password", h.ChangePassword)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tokens, user, err := h.service.Login(c.Request.Context(), auth.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.LoginResponse{Tokens: tokens, User: user})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, tokens)
}

// Logout handles POST /auth/logout. Revokes all the caller's refresh
// tokens.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	userID := appctx.ActorID(ctx)
	if userID == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	if err := h.service.Logout(ctx, *userID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "logged out")
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	userID := appctx.ActorID(ctx)
	if userID == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	user, err := h.service.GetUser(ctx, *userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, user)
}

// ChangePassword handles POST /auth/change-password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	ctx := c.Request.Context()

	userID := appctx.ActorID(ctx)
	if userID == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.ChangePassword(ctx, *userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "password changed")
}

// UserHandler serves admin user management.
type UserHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewUserHandler creates a user management handler.
func NewUserHandler(base *BaseHandler, service *auth.Service) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Register handles POST /users.
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.Register(c.Request.Context(), auth.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, user)
}

// List handles GET /users.
func (h *UserHandler) List(c *gin.Context) {
	filter := auth.UserFilter{
		Search: c.Query("search"),
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if activeStr := c.Query("isActive"); activeStr != "" {
		active := activeStr == "true"
		filter.IsActive = &active
	}
	if roleStr := c.Query("role"); roleStr != "" {
		role := auth.Role(roleStr)
		if !role.Valid() {
			h.Error(c, apperror.NewValidation("unknown role").WithDetail("role", roleStr))
			return
		}
		filter.Role = &role
	}

	users, total, err := h.service.ListUsers(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{
		Items:      users,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, user)
}

// SetActive handles POST /users/:id/active.
func (h *UserHandler) SetActive(c *gin.Context) {
	userID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.SetActiveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetUserActive(c.Request.Context(), userID, req.Active); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "user updated")
}
