package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RegistrarFunc adapts a plain function to the RouteRegistrar interface.
type RegistrarFunc func(rg *gin.RouterGroup)

// RegisterRoutes implements RouteRegistrar.
func (f RegistrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

// Router manages HTTP route registration. Registrars are split into
// three tiers: public (no auth), protected (valid token), and admin
// (token plus admin role).
type Router struct {
	engine     *gin.Engine
	apiVersion string
	public     []RouteRegistrar
	protected  []RouteRegistrar
	admin      []RouteRegistrar
	auth       gin.HandlerFunc
	adminOnly  gin.HandlerFunc
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance. authMiddleware guards the
// protected tier; adminMiddleware is applied on top of it for the
// admin tier.
func NewRouter(engine *gin.Engine, authMiddleware, adminMiddleware gin.HandlerFunc, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		auth:       authMiddleware,
		adminOnly:  adminMiddleware,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RegisterPublic adds a registrar whose routes need no authentication.
func (r *Router) RegisterPublic(registrar RouteRegistrar) *Router {
	r.public = append(r.public, registrar)
	return r
}

// Register adds a registrar whose routes require a valid token.
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.protected = append(r.protected, registrar)
	return r
}

// RegisterAdmin adds a registrar whose routes require the admin role.
func (r *Router) RegisterAdmin(registrar RouteRegistrar) *Router {
	r.admin = append(r.admin, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.public {
		registrar.RegisterRoutes(api)
	}

	protected := api.Group("", r.auth)
	for _, registrar := range r.protected {
		registrar.RegisterRoutes(protected)
	}

	admin := api.Group("", r.auth, r.adminOnly)
	for _, registrar := range r.admin {
		registrar.RegisterRoutes(admin)
	}
}
