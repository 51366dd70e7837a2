package handler

import (
	"strconv"

	appidentity "github.com/backoffice/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// UserHandler serves the user administration endpoints. Routes are
// expected to sit behind the admin-role middleware.
type UserHandler struct {
	BaseHandler
	users *appidentity.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *appidentity.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes registers the user administration routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("", h.List)
		users.POST("", h.Create)
		users.GET("/:id", h.Get)
		users.PUT("/:id/role", h.SetRole)
		users.POST("/:id/lock", h.Lock)
		users.POST("/:id/unlock", h.Unlock)
		users.DELETE("/:id", h.Delete)
	}
}

func parseUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err == nil
}

// Create handles POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var input appidentity.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.users.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toUserResponse(user))
}

// Get handles GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		h.BadRequest(c, "invalid user ID")
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserResponse(user))
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	result, err := h.users.List(c.Request.Context(), c.Query("name"), c.Query("group_role"), page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]UserResponse, len(result.Items))
	for i := range result.Items {
		items[i] = toUserResponse(&result.Items[i])
	}
	h.SuccessWithMeta(c, items, result.Total, result.Page, result.PageSize)
}

// SetRole handles PUT /users/:id/role
func (h *UserHandler) SetRole(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		h.BadRequest(c, "invalid user ID")
		return
	}

	var body struct {
		Role string `json:"group_role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.users.SetRole(c.Request.Context(), id, body.Role)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserResponse(user))
}

// Lock handles POST /users/:id/lock
func (h *UserHandler) Lock(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		h.BadRequest(c, "invalid user ID")
		return
	}
	if err := h.users.Lock(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Unlock handles POST /users/:id/unlock
func (h *UserHandler) Unlock(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		h.BadRequest(c, "invalid user ID")
		return
	}
	if err := h.users.Unlock(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete handles DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		h.BadRequest(c, "invalid user ID")
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
