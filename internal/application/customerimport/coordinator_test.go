package customerimport

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/backoffice/backend/internal/domain/customer"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/csvio"
	"github.com/backoffice/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCustomerRepo implements customer.Repository for coordinator tests.
// Only the methods the import path touches are functional.
type fakeCustomerRepo struct {
	emails    customer.EmailSet
	inserted  []*customer.Customer
	insertErr error
	emailsErr error
}

func newFakeRepo(emails ...string) *fakeCustomerRepo {
	set := customer.EmailSet{}
	for _, e := range emails {
		set.Add(e)
	}
	return &fakeCustomerRepo{emails: set}
}

func (f *fakeCustomerRepo) Emails(ctx context.Context) (customer.EmailSet, error) {
	if f.emailsErr != nil {
		return nil, f.emailsErr
	}
	return f.emails, nil
}

func (f *fakeCustomerRepo) InsertBatch(ctx context.Context, customers []*customer.Customer) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, customers...)
	return nil
}

func (f *fakeCustomerRepo) FindByID(context.Context, uint) (*customer.Customer, error) {
	return nil, shared.ErrNotFound
}
func (f *fakeCustomerRepo) FindAll(context.Context, shared.Filter) ([]customer.Customer, error) {
	return nil, nil
}
func (f *fakeCustomerRepo) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
func (f *fakeCustomerRepo) Save(context.Context, *customer.Customer) error     { return nil }
func (f *fakeCustomerRepo) Update(context.Context, *customer.Customer) error   { return nil }
func (f *fakeCustomerRepo) Delete(context.Context, uint) error                 { return nil }
func (f *fakeCustomerRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return f.emails.Contains(email), nil
}

func newTestCoordinator(t *testing.T, repo customer.Repository) (*Coordinator, *ErrorReportWriter) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	writer := NewErrorReportWriter(store)
	return NewCoordinator(repo, writer), writer
}

const validCSV = "Tên khách hàng,Email,TelNum,Địa chỉ\n" +
	"Nguyễn Văn An,an@example.com,0912345678,Hà Nội\n" +
	"Trần Thị Bình,binh@example.com,0987654321,Đà Nẵng\n"

func TestCoordinator_Import_HappyPath(t *testing.T) {
	repo := newFakeRepo()
	coord, _ := newTestCoordinator(t, repo)

	result, err := coord.Import(context.Background(), []byte(validCSV))

	require.NoError(t, err)
	assert.True(t, result.Committed)
	assert.Equal(t, 2, result.ImportedCount)
	assert.Empty(t, result.ErrorFileName)

	require.Len(t, repo.inserted, 2)
	assert.Equal(t, "an@example.com", repo.inserted[0].Email)
	assert.Equal(t, "binh@example.com", repo.inserted[1].Email)
}

func TestCoordinator_Import_HeaderOrderIndependent(t *testing.T) {
	repo := newFakeRepo()
	coord, _ := newTestCoordinator(t, repo)

	shuffled := "Email,Địa chỉ,Tên khách hàng,TelNum\n" +
		"an@example.com,Hà Nội,Nguyễn Văn An,0912345678\n"

	result, err := coord.Import(context.Background(), []byte(shuffled))

	require.NoError(t, err)
	assert.True(t, result.Committed)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, "Nguyễn Văn An", repo.inserted[0].Name)
	assert.Equal(t, "0912345678", repo.inserted[0].TelNum)
}

func TestCoordinator_Import_FileLevelFailures(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		coord, _ := newTestCoordinator(t, newFakeRepo())
		_, err := coord.Import(context.Background(), nil)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("header only", func(t *testing.T) {
		coord, _ := newTestCoordinator(t, newFakeRepo())
		_, err := coord.Import(context.Background(), []byte("Tên khách hàng,Email,TelNum,Địa chỉ\n"))
		assert.ErrorIs(t, err, ErrNoDataRows)
	})

	t.Run("missing columns listed in error", func(t *testing.T) {
		coord, _ := newTestCoordinator(t, newFakeRepo())
		_, err := coord.Import(context.Background(), []byte("Email,TelNum\nan@example.com,0912345678\n"))

		var missing *MissingHeadersError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{HeaderCustomerName, HeaderAddress}, missing.Missing)
	})

	t.Run("non-UTF-8 content", func(t *testing.T) {
		coord, _ := newTestCoordinator(t, newFakeRepo())
		_, err := coord.Import(context.Background(), []byte{'a', 0xFF, 0xFE, '\n'})
		assert.ErrorIs(t, err, csvio.ErrInvalidEncoding)
	})

	t.Run("file level failure produces no artifact and no insert", func(t *testing.T) {
		repo := newFakeRepo()
		coord, writer := newTestCoordinator(t, repo)

		_, err := coord.Import(context.Background(), []byte("Email\n"))
		require.Error(t, err)
		assert.Empty(t, repo.inserted)

		// No report was generated for a file rejected before validation.
		_, err = writer.Fetch(context.Background(), "anything.csv")
		assert.ErrorIs(t, err, storage.ErrNotExist)
	})
}

func TestCoordinator_Import_RejectsWholeBatchOnAnyInvalidRow(t *testing.T) {
	repo := newFakeRepo()
	coord, writer := newTestCoordinator(t, repo)

	mixed := "Tên khách hàng,Email,TelNum,Địa chỉ\n" +
		"Nguyễn Văn An,an@example.com,0912345678,Hà Nội\n" +
		"Bad,not-an-email,123,Đà Nẵng\n"

	result, err := coord.Import(context.Background(), []byte(mixed))

	require.NoError(t, err)
	assert.False(t, result.Committed)
	assert.Zero(t, result.ImportedCount)
	require.NotEmpty(t, result.ErrorFileName)
	assert.Empty(t, repo.inserted, "valid rows of a rejected batch are not inserted")

	data, err := writer.Fetch(context.Background(), result.ErrorFileName)
	require.NoError(t, err)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, "\xEF\xBB\xBF"), "error report carries a BOM")
	assert.Contains(t, content, "customer_name,email,tel_num,address,errors")
	assert.Contains(t, content, MsgNameTooShort+" | "+MsgEmailFormat+" | "+MsgTelNumFormat)

	// Row/error correlation: only rejected rows appear, carrying their
	// original field values; valid rows are excluded from the artifact.
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(content, "\xEF\xBB\xBF")), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "Bad,not-an-email,123,Đà Nẵng"))
	assert.NotContains(t, content, "an@example.com", "valid rows stay out of the error report")
}

func TestCoordinator_Import_RejectsEmailsAlreadyPersisted(t *testing.T) {
	repo := newFakeRepo("an@example.com")
	coord, _ := newTestCoordinator(t, repo)

	result, err := coord.Import(context.Background(), []byte(validCSV))

	require.NoError(t, err)
	assert.False(t, result.Committed)
	assert.NotEmpty(t, result.ErrorFileName)
	assert.Empty(t, repo.inserted)
}

func TestCoordinator_Import_InsertFailureSurfaces(t *testing.T) {
	repo := newFakeRepo()
	repo.insertErr = errors.New("connection lost")
	coord, _ := newTestCoordinator(t, repo)

	result, err := coord.Import(context.Background(), []byte(validCSV))

	assert.Nil(t, result)
	assert.ErrorContains(t, err, "connection lost")
}

func TestCoordinator_Import_IsDeterministic(t *testing.T) {
	first := newFakeRepo()
	coordA, _ := newTestCoordinator(t, first)
	resultA, err := coordA.Import(context.Background(), []byte(validCSV))
	require.NoError(t, err)

	second := newFakeRepo()
	coordB, _ := newTestCoordinator(t, second)
	resultB, err := coordB.Import(context.Background(), []byte(validCSV))
	require.NoError(t, err)

	assert.Equal(t, resultA.Committed, resultB.Committed)
	assert.Equal(t, resultA.ImportedCount, resultB.ImportedCount)
	require.Len(t, second.inserted, len(first.inserted))
	for i := range first.inserted {
		assert.Equal(t, first.inserted[i].Email, second.inserted[i].Email)
	}
}
