package customerimport

import (
	"strings"
	"unicode/utf8"

	"github.com/backoffice/backend/internal/domain/customer"
)

// Validation messages shown to back office operators.
const (
	MsgNameRequired    = "Tên khách hàng không được để trống"
	MsgNameTooShort    = "Tên khách hàng phải có ít nhất 5 ký tự"
	MsgNameTooLong     = "Tên khách hàng không được vượt quá 255 ký tự"
	MsgEmailRequired   = "Email không được để trống"
	MsgEmailFormat     = "Email không đúng định dạng"
	MsgEmailTaken      = "Email đã tồn tại trong hệ thống"
	MsgTelNumRequired  = "Số điện thoại không được để trống"
	MsgTelNumFormat    = "Số điện thoại phải có 10-11 chữ số"
	MsgAddressRequired = "Địa chỉ không được để trống"
	MsgAddressTooLong  = "Địa chỉ không được vượt quá 255 ký tự"
)

// ValidateRecord checks one record against the import rules and returns
// the violations in field order (name, email, tel_num, address). Every
// field is evaluated independently, so one bad field never hides
// another. existing holds emails already taken, either persisted or
// claimed by an earlier row of the same file.
func ValidateRecord(record customer.ImportRecord, existing customer.EmailSet) []string {
	var violations []string

	name := strings.TrimSpace(record.Name)
	switch {
	case name == "":
		violations = append(violations, MsgNameRequired)
	case utf8.RuneCountInString(name) < customer.NameMinLen:
		violations = append(violations, MsgNameTooShort)
	case utf8.RuneCountInString(name) > customer.NameMaxLen:
		violations = append(violations, MsgNameTooLong)
	}

	email := strings.ToLower(strings.TrimSpace(record.Email))
	switch {
	case email == "":
		violations = append(violations, MsgEmailRequired)
	case !customer.IsPlausibleEmail(email) || utf8.RuneCountInString(email) > customer.EmailMaxLen:
		violations = append(violations, MsgEmailFormat)
	case existing.Contains(email):
		violations = append(violations, MsgEmailTaken)
	}

	telNum := strings.TrimSpace(record.TelNum)
	switch {
	case telNum == "":
		violations = append(violations, MsgTelNumRequired)
	case !customer.IsTelNum(telNum):
		violations = append(violations, MsgTelNumFormat)
	}

	address := strings.TrimSpace(record.Address)
	switch {
	case address == "":
		violations = append(violations, MsgAddressRequired)
	case utf8.RuneCountInString(address) > customer.AddressMaxLen:
		violations = append(violations, MsgAddressTooLong)
	}

	return violations
}

// BatchResult is the outcome of validating a whole file.
type BatchResult struct {
	// Rows holds one outcome per input record, in input order.
	Rows []customer.RowOutcome
	// AnyInvalid is true when at least one row carries violations.
	AnyInvalid bool
}

// ValidateBatch validates every record of an import file. Emails
// claimed by a valid row are reserved against later rows, so duplicate
// emails inside one file are rejected the same way as emails already
// in the database. The snapshot set is not mutated.
func ValidateBatch(records []customer.ImportRecord, persisted customer.EmailSet) BatchResult {
	taken := make(customer.EmailSet, len(persisted)+len(records))
	for email := range persisted {
		taken.Add(email)
	}

	result := BatchResult{Rows: make([]customer.RowOutcome, len(records))}
	for i, record := range records {
		violations := ValidateRecord(record, taken)
		result.Rows[i] = customer.RowOutcome{Record: record, Violations: violations}

		if len(violations) == 0 {
			taken.Add(strings.ToLower(strings.TrimSpace(record.Email)))
		} else {
			result.AnyInvalid = true
		}
	}
	return result
}
