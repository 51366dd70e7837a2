package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/storage"
)

type stubProductRepo struct {
	products map[string]*domain.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*domain.Product)}
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *stubProductRepo) Save(_ context.Context, p *domain.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return shared.ErrNotFound
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	_, ok := r.products[id]
	return ok, nil
}

func newTestService(t *testing.T) (*Service, *stubProductRepo) {
	t.Helper()
	repo := newStubProductRepo()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewService(repo, store, nil), repo
}

func TestCreateProduct(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateInput{
		ID:          "PRD001",
		Name:        "Ballpoint pen",
		Price:       "12500.50",
		SaleStatus:  1,
		Description: "Blue ink",
	})
	require.NoError(t, err)
	assert.Equal(t, "PRD001", p.ID)
	assert.Equal(t, "12500.5", p.Price.String())
	assert.Contains(t, repo.products, "PRD001")
}

func TestCreateProductRejectsBadPrice(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{ID: "PRD001", Name: "Pen", Price: "abc"})
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_PRICE", de.Code)
}

func TestCreateProductRejectsDuplicateID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ID: "PRD001", Name: "Pen", Price: "100"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{ID: "PRD001", Name: "Other pen", Price: "200"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestUploadImageStoresAndLinks(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ID: "PRD001", Name: "Pen", Price: "100"})
	require.NoError(t, err)

	key, err := svc.UploadImage(ctx, "PRD001", []byte{0x89, 'P', 'N', 'G'}, ".PNG")
	require.NoError(t, err)
	assert.Equal(t, "products/PRD001.png", key)
	assert.Equal(t, key, repo.products["PRD001"].Image)

	data, gotKey, err := svc.Image(ctx, "PRD001")
	require.NoError(t, err)
	assert.Equal(t, key, gotKey)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
}

func TestUploadImageRejectsUnknownFormat(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{ID: "PRD001", Name: "Pen", Price: "100"})
	require.NoError(t, err)

	_, err = svc.UploadImage(ctx, "PRD001", []byte("exe"), ".exe")
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_IMAGE", de.Code)
}

func TestImageMissingProductOrImage(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Image(ctx, "PRD404")
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	_, err = svc.Create(ctx, CreateInput{ID: "PRD001", Name: "Pen", Price: "100"})
	require.NoError(t, err)

	_, _, err = svc.Image(ctx, "PRD001")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
