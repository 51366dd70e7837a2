// Package customer contains the application service for customer
// management: CRUD, search with adaptive pagination, and the CSV
// import/export entry points.
package customer

import (
	"context"

	"github.com/backoffice/backend/internal/application/customerimport"
	domain "github.com/backoffice/backend/internal/domain/customer"
	"github.com/backoffice/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Page size thresholds. Small result sets are returned whole, large
// ones get bigger pages so the operator pages less.
const (
	smallResultThreshold = 20
	largeResultThreshold = 100
	defaultPageSize      = 10
	largePageSize        = 20
)

// Service coordinates customer use cases.
type Service struct {
	repo        domain.Repository
	coordinator *customerimport.Coordinator
	exporter    *customerimport.Exporter
	reports     *customerimport.ErrorReportWriter
	logger      *zap.Logger
}

// NewService creates a customer Service.
func NewService(
	repo domain.Repository,
	coordinator *customerimport.Coordinator,
	exporter *customerimport.Exporter,
	reports *customerimport.ErrorReportWriter,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		coordinator: coordinator,
		exporter:    exporter,
		reports:     reports,
		logger:      logger,
	}
}

// CreateInput carries the fields for creating a customer.
type CreateInput struct {
	Name    string `json:"customer_name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	TelNum  string `json:"tel_num" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// UpdateInput carries the fields for updating a customer.
type UpdateInput struct {
	Name    string `json:"customer_name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	TelNum  string `json:"tel_num" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// SearchInput carries the search criteria and paging controls.
type SearchInput struct {
	Name     string
	Email    string
	Address  string
	IsActive *bool
	Page     int
	OrderBy  string
	OrderDir string
}

// Create validates and persists a new customer.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Customer, error) {
	c, err := domain.NewCustomer(input.Name, input.Email, input.TelNum, input.Address)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, c.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", customerimport.MsgEmailTaken)
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("customer created", zap.Uint("customer_id", c.ID))
	return c, nil
}

// Get returns one customer by ID.
func (s *Service) Get(ctx context.Context, id uint) (*domain.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies changes to an existing customer.
func (s *Service) Update(ctx context.Context, id uint, input UpdateInput) (*domain.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousEmail := c.Email
	if err := c.Update(input.Name, input.Email, input.TelNum, input.Address); err != nil {
		return nil, err
	}

	if c.Email != previousEmail {
		exists, err := s.repo.ExistsByEmail(ctx, c.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("EMAIL_TAKEN", customerimport.MsgEmailTaken)
		}
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a customer.
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("customer deleted", zap.Uint("customer_id", id))
	return nil
}

// Search lists customers matching the criteria. The page size adapts
// to the match count: fewer than 20 matches come back on one page,
// more than 100 use pages of 20, anything between pages of 10.
func (s *Service) Search(ctx context.Context, input SearchInput) (shared.Paginated[domain.Customer], error) {
	filter := shared.DefaultFilter()
	filter.Page = input.Page
	if filter.Page < 1 {
		filter.Page = 1
	}
	if input.OrderBy != "" {
		filter.OrderBy = input.OrderBy
	}
	if input.OrderDir != "" {
		filter.OrderDir = input.OrderDir
	}
	if input.Name != "" {
		filter.Filters["name"] = input.Name
	}
	if input.Email != "" {
		filter.Filters["email"] = input.Email
	}
	if input.Address != "" {
		filter.Filters["address"] = input.Address
	}
	if input.IsActive != nil {
		filter.Filters["is_active"] = *input.IsActive
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return shared.Paginated[domain.Customer]{}, err
	}

	filter.PageSize = adaptivePageSize(total)
	if total < smallResultThreshold {
		filter.Page = 1
	}

	items, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[domain.Customer]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// adaptivePageSize picks the page size for a result set of the given size.
func adaptivePageSize(total int64) int {
	switch {
	case total < smallResultThreshold:
		return smallResultThreshold // single page holds everything
	case total > largeResultThreshold:
		return largePageSize
	default:
		return defaultPageSize
	}
}

// Import runs the CSV bulk import for an uploaded file.
func (s *Service) Import(ctx context.Context, data []byte) (*customerimport.ImportResult, error) {
	return s.coordinator.Import(ctx, data)
}

// Export writes every customer to a CSV artifact and returns its file
// name. Returns customerimport.ErrEmptyExport when there is nothing to
// export.
func (s *Service) Export(ctx context.Context) (string, error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "customer_id"
	filter.OrderDir = "asc"
	filter.PageSize = 0 // no paging for exports

	customers, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return "", err
	}
	return s.exporter.Export(ctx, customers)
}

// DownloadErrorReport fetches a previously generated import error
// report by file name.
func (s *Service) DownloadErrorReport(ctx context.Context, filename string) ([]byte, error) {
	return s.reports.Fetch(ctx, filename)
}

// DownloadExport fetches a previously generated export by file name.
func (s *Service) DownloadExport(ctx context.Context, filename string) ([]byte, error) {
	return s.exporter.Fetch(ctx, filename)
}
