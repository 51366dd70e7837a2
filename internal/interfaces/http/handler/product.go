package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	appcatalog "github.com/backoffice/backend/internal/application/catalog"
	domain "github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/infrastructure/storage"
	"github.com/gin-gonic/gin"
)

// ProductHandler serves the product catalog endpoints.
type ProductHandler struct {
	BaseHandler
	service *appcatalog.Service
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(service *appcatalog.Service) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterRoutes registers the product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.List)
		products.POST("", h.Create)
		products.GET("/:id", h.Get)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
		products.POST("/:id/image", h.UploadImage)
		products.GET("/:id/image", h.Image)
	}
}

// ProductResponse is the API shape of a product.
type ProductResponse struct {
	ID          string    `json:"product_id"`
	Name        string    `json:"product_name"`
	Image       string    `json:"image,omitempty"`
	Price       string    `json:"price"`
	SaleStatus  int       `json:"is_sales"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Image:       p.Image,
		Price:       p.Price.String(),
		SaleStatus:  int(p.SaleStatus),
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var input appcatalog.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	p, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toProductResponse(p))
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductResponse(p))
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var input appcatalog.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	p, err := h.service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductResponse(p))
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadImage handles POST /products/:id/image
func (h *ProductHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		h.BadRequest(c, "image file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		h.BadRequest(c, "unable to read image file")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		h.BadRequest(c, "unable to read image file")
		return
	}

	key, err := h.service.UploadImage(c.Request.Context(), c.Param("id"), data, filepath.Ext(file.Filename))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"image": key})
}

// Image handles GET /products/:id/image
func (h *ProductHandler) Image(c *gin.Context) {
	data, key, err := h.service.Image(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			h.NotFound(c, "product image not found")
			return
		}
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, mime.TypeByExtension(filepath.Ext(key)), data)
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	var saleStatus *int
	if raw := c.Query("is_sales"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			saleStatus = &v
		}
	}

	result, err := h.service.List(c.Request.Context(), c.Query("product_name"), saleStatus, page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]ProductResponse, len(result.Items))
	for i := range result.Items {
		items[i] = toProductResponse(&result.Items[i])
	}
	h.SuccessWithMeta(c, items, result.Total, result.Page, result.PageSize)
}
