package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	appcustomer "github.com/backoffice/backend/internal/application/customer"
	"github.com/backoffice/backend/internal/application/customerimport"
	domain "github.com/backoffice/backend/internal/domain/customer"
	"github.com/backoffice/backend/internal/infrastructure/csvio"
	"github.com/backoffice/backend/internal/infrastructure/logger"
	"github.com/backoffice/backend/internal/infrastructure/storage"
	"github.com/backoffice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Operator-facing messages of the import/export endpoints.
const (
	msgImportRejected   = "File CSV có lỗi. Vui lòng tải file lỗi để xem chi tiết."
	msgImportNoData     = "File CSV không có dữ liệu hợp lệ"
	msgImportUnreadable = "Lỗi đọc file CSV"
	msgExportEmpty      = "Không có dữ liệu khách hàng để xuất."
	msgImportBadType    = "File phải có định dạng CSV"
	msgImportTooLarge   = "File vượt quá dung lượng cho phép"

	msgMissingColumnsFmt = "File CSV thiếu các cột: %s"
)

// CustomerHandler serves the customer management endpoints.
type CustomerHandler struct {
	BaseHandler
	service   *appcustomer.Service
	maxUpload int64
}

// NewCustomerHandler creates a CustomerHandler. maxUpload caps the
// accepted import file size in bytes; zero disables the check.
func NewCustomerHandler(service *appcustomer.Service, maxUpload int64) *CustomerHandler {
	return &CustomerHandler{service: service, maxUpload: maxUpload}
}

// RegisterRoutes registers the customer routes
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.GET("", h.Search)
		customers.POST("", h.Create)
		customers.GET("/export", h.Export)
		customers.POST("/import", h.Import)
		customers.GET("/import/errors/:filename", h.DownloadErrorReport)
		customers.GET("/:id", h.Get)
		customers.PUT("/:id", h.Update)
		customers.DELETE("/:id", h.Delete)
	}
}

// CustomerResponse is the API shape of a customer.
type CustomerResponse struct {
	ID        uint      `json:"customer_id"`
	Name      string    `json:"customer_name"`
	Email     string    `json:"email"`
	TelNum    string    `json:"tel_num"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		TelNum:    c.TelNum,
		Address:   c.Address,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid customer ID: %s", c.Param("id"))
	}
	return uint(id), nil
}

// Create handles POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var input appcustomer.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toCustomerResponse(created))
}

// Get handles GET /customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCustomerResponse(found))
}

// Update handles PUT /customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var input appcustomer.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCustomerResponse(updated))
}

// Delete handles DELETE /customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// searchQuery binds the search endpoint's query parameters.
type searchQuery struct {
	Name     string `form:"customer_name"`
	Email    string `form:"email"`
	Address  string `form:"address"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Search handles GET /customers
func (h *CustomerHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.service.Search(c.Request.Context(), appcustomer.SearchInput{
		Name:     q.Name,
		Email:    q.Email,
		Address:  q.Address,
		IsActive: q.IsActive,
		Page:     q.Page,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]CustomerResponse, len(page.Items))
	for i := range page.Items {
		items[i] = toCustomerResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

// Import handles POST /customers/import. The uploaded CSV is processed
// as one batch: either every row is imported or the whole file is
// rejected with a downloadable error report.
func (h *CustomerHandler) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "CSV file is required")
		return
	}

	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".csv", ".txt":
	default:
		h.BadRequest(c, msgImportBadType)
		return
	}
	if h.maxUpload > 0 && file.Size > h.maxUpload {
		h.BadRequest(c, msgImportTooLarge)
		return
	}

	src, err := file.Open()
	if err != nil {
		h.BadRequest(c, msgImportUnreadable)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		h.BadRequest(c, msgImportUnreadable)
		return
	}

	result, err := h.service.Import(c.Request.Context(), data)
	if err != nil {
		h.importError(c, err)
		return
	}

	if !result.Committed {
		c.JSON(http.StatusUnprocessableEntity, dto.Response{
			Success: false,
			Message: msgImportRejected,
			Data:    gin.H{"error_file_name": result.ErrorFileName},
			Error:   &dto.ErrorInfo{Code: dto.ErrCodeValidation, Message: msgImportRejected},
		})
		return
	}

	h.SuccessWithMessage(c,
		fmt.Sprintf("Import thành công %d khách hàng", result.ImportedCount),
		gin.H{"imported_count": result.ImportedCount},
	)
}

// importError maps file-level import failures to responses.
func (h *CustomerHandler) importError(c *gin.Context, err error) {
	var missing *customerimport.MissingHeadersError
	switch {
	case errors.As(err, &missing):
		h.BadRequest(c, fmt.Sprintf(msgMissingColumnsFmt, strings.Join(missing.Missing, ", ")))
	case errors.Is(err, customerimport.ErrEmptyFile), errors.Is(err, customerimport.ErrNoDataRows):
		h.BadRequest(c, msgImportNoData)
	case errors.Is(err, csvio.ErrInvalidEncoding), errors.Is(err, customerimport.ErrUnreadable):
		h.BadRequest(c, msgImportUnreadable)
	default:
		logger.GetGinLogger(c).Error("customer import failed", zap.Error(err))
		h.HandleError(c, err)
	}
}

// Export handles GET /customers/export. The generated file is stored
// and streamed back in one response.
func (h *CustomerHandler) Export(c *gin.Context) {
	filename, err := h.service.Export(c.Request.Context())
	if err != nil {
		if errors.Is(err, customerimport.ErrEmptyExport) {
			h.UnprocessableEntity(c, dto.ErrCodeValidation, msgExportEmpty)
			return
		}
		h.HandleError(c, err)
		return
	}

	data, err := h.service.DownloadExport(c.Request.Context(), filename)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	serveCSV(c, filename, data)
}

// DownloadErrorReport handles GET /customers/import/errors/:filename
func (h *CustomerHandler) DownloadErrorReport(c *gin.Context) {
	filename := c.Param("filename")

	data, err := h.service.DownloadErrorReport(c.Request.Context(), filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			h.NotFound(c, "error report not found")
			return
		}
		h.HandleError(c, err)
		return
	}
	serveCSV(c, filename, data)
}

// serveCSV streams a CSV artifact as a file download.
func serveCSV(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
