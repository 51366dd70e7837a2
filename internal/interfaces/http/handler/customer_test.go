package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcustomer "github.com/backoffice/backend/internal/application/customer"
	"github.com/backoffice/backend/internal/application/customerimport"
	"github.com/backoffice/backend/internal/domain/customer"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/storage"
	"github.com/backoffice/backend/internal/interfaces/http/dto"
)

// memCustomerRepo is an in-memory customer.Repository for handler tests.
type memCustomerRepo struct {
	mu        sync.Mutex
	customers []customer.Customer
	nextID    uint
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{nextID: 1}
}

func (r *memCustomerRepo) FindByID(_ context.Context, id uint) (*customer.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.customers {
		if r.customers[i].ID == id {
			c := r.customers[i]
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomerRepo) FindAll(_ context.Context, filter shared.Filter) ([]customer.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]customer.Customer(nil), r.customers...)
	if filter.PageSize > 0 {
		off := filter.Offset()
		if off >= len(out) {
			return nil, nil
		}
		end := off + filter.PageSize
		if end > len(out) {
			end = len(out)
		}
		out = out[off:end]
	}
	return out, nil
}

func (r *memCustomerRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.customers)), nil
}

func (r *memCustomerRepo) Save(_ context.Context, c *customer.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextID
	r.nextID++
	r.customers = append(r.customers, *c)
	return nil
}

func (r *memCustomerRepo) Update(_ context.Context, c *customer.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.customers {
		if r.customers[i].ID == c.ID {
			r.customers[i] = *c
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memCustomerRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.customers {
		if r.customers[i].ID == id {
			r.customers = append(r.customers[:i], r.customers[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memCustomerRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.customers {
		if r.customers[i].Email == strings.ToLower(email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCustomerRepo) Emails(_ context.Context) (customer.EmailSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := make(customer.EmailSet, len(r.customers))
	for i := range r.customers {
		set[strings.ToLower(r.customers[i].Email)] = struct{}{}
	}
	return set, nil
}

func (r *memCustomerRepo) InsertBatch(_ context.Context, customers []*customer.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range customers {
		c.ID = r.nextID
		r.nextID++
		r.customers = append(r.customers, *c)
	}
	return nil
}

func setupCustomerRouter(t *testing.T) (*gin.Engine, *memCustomerRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newMemCustomerRepo()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	reports := customerimport.NewErrorReportWriter(store)
	exporter := customerimport.NewExporter(store)
	coordinator := customerimport.NewCoordinator(repo, reports)
	service := appcustomer.NewService(repo, coordinator, exporter, reports, nil)

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewCustomerHandler(service, 10<<20).RegisterRoutes(api)
	return engine, repo
}

func multipartCSV(t *testing.T, body string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("file", "customers.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestCustomerImportCommitsValidFile(t *testing.T) {
	engine, repo := setupCustomerRouter(t)

	csv := "Tên khách hàng,Email,TelNum,Địa chỉ\n" +
		"Nguyễn Văn An,an@example.com,0912345678,123 Lê Lợi Q1\n" +
		"Trần Thị Bình,binh@example.com,0987654321,45 Hai Bà Trưng\n"
	body, contentType := multipartCSV(t, csv)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Import thành công 2 khách hàng", resp.Message)

	customers, err := repo.FindAll(context.Background(), shared.Filter{})
	require.NoError(t, err)
	assert.Len(t, customers, 2)
}

func TestCustomerImportRejectsInvalidRows(t *testing.T) {
	engine, repo := setupCustomerRouter(t)

	csv := "Tên khách hàng,Email,TelNum,Địa chỉ\n" +
		"Nguyễn Văn An,an@example.com,0912345678,123 Lê Lợi Q1\n" +
		"Bad,not-an-email,12,\n"
	body, contentType := multipartCSV(t, csv)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			ErrorFileName string `json:"error_file_name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "File CSV có lỗi. Vui lòng tải file lỗi để xem chi tiết.", resp.Message)
	require.NotEmpty(t, resp.Data.ErrorFileName)
	assert.True(t, strings.HasPrefix(resp.Data.ErrorFileName, "customer_import_errors_"))

	// nothing committed
	customers, err := repo.FindAll(context.Background(), shared.Filter{})
	require.NoError(t, err)
	assert.Empty(t, customers)

	// the report is downloadable and carries a BOM
	dlReq := httptest.NewRequest(http.MethodGet, "/api/v1/customers/import/errors/"+resp.Data.ErrorFileName, nil)
	dlRec := httptest.NewRecorder()
	engine.ServeHTTP(dlRec, dlReq)

	require.Equal(t, http.StatusOK, dlRec.Code)
	assert.Contains(t, dlRec.Header().Get("Content-Disposition"), resp.Data.ErrorFileName)
	report := dlRec.Body.Bytes()
	assert.True(t, bytes.HasPrefix(report, []byte("\xEF\xBB\xBF")))
	assert.Contains(t, string(report), "customer_name,email,tel_num,address,errors")
}

func TestCustomerImportMissingColumns(t *testing.T) {
	engine, _ := setupCustomerRouter(t)

	body, contentType := multipartCSV(t, "Email,TelNum\nan@example.com,0912345678\n")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error.Message, "File CSV thiếu các cột")
	assert.Contains(t, resp.Error.Message, "Tên khách hàng")
}

func TestCustomerImportRejectsNonCSVFile(t *testing.T) {
	engine, _ := setupCustomerRouter(t)

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("file", "customers.xlsx")
	require.NoError(t, err)
	_, err = part.Write([]byte("not a csv"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/import", buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "File phải có định dạng CSV", resp.Error.Message)
}

func TestCustomerImportNoFile(t *testing.T) {
	engine, _ := setupCustomerRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/import", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCustomerCRUDAndSearch(t *testing.T) {
	engine, _ := setupCustomerRouter(t)

	create := func(name, email string) uint {
		payload := fmt.Sprintf(`{"customer_name":%q,"email":%q,"tel_num":"0912345678","address":"12 Nguyễn Huệ"}`, name, email)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp struct {
			Data CustomerResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp.Data.ID
	}

	id := create("Nguyễn Văn An", "an@example.com")
	create("Trần Thị Bình", "binh@example.com")

	// duplicate email is a validation failure
	payload := `{"customer_name":"Nguyễn Văn An","email":"an@example.com","tel_num":"0912345678","address":"12 Nguyễn Huệ"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// get by id
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/customers/%d", id), nil)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// search: two customers, small result set forces page 1 of 20
	req = httptest.NewRequest(http.MethodGet, "/api/v1/customers?page=3", nil)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var list dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.NotNil(t, list.Meta)
	assert.Equal(t, int64(2), list.Meta.Total)
	assert.Equal(t, 1, list.Meta.Page)
	assert.Equal(t, 20, list.Meta.PageSize)

	// delete then 404
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/customers/%d", id), nil)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/customers/%d", id), nil)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomerExport(t *testing.T) {
	engine, repo := setupCustomerRouter(t)

	// empty catalog has nothing to export
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/export", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	c, err := customer.NewCustomer("Nguyễn Văn An", "an@example.com", "0912345678", "123 Lê Lợi Q1")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), c))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/customers/export", nil)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "customers_export_")

	body := rec.Body.Bytes()
	assert.True(t, bytes.HasPrefix(body, []byte("\xEF\xBB\xBF")))
	assert.Contains(t, string(body), "Tên khách hàng,Email,TelNum,Địa chỉ")
	assert.Contains(t, string(body), "an@example.com")
}
