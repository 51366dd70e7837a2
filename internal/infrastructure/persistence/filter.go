package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// orderClause builds a safe ORDER BY clause from the filter. Columns
// not present in allowed fall back to created_at to keep user input out
// of the SQL.
func orderClause(filter shared.Filter, allowed map[string]string) string {
	column, ok := allowed[filter.OrderBy]
	if !ok {
		column = "created_at"
	}
	dir := "ASC"
	if strings.EqualFold(filter.OrderDir, "desc") {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s", column, dir)
}

// isUniqueViolation reports whether err is a unique-constraint failure
// from any of the supported drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value") // postgres
}
