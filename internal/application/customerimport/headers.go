// Package customerimport implements the customer CSV bulk-import
// pipeline: header mapping, per-row validation, batch validation, the
// all-or-nothing import coordinator, error report generation, and the
// customer export.
package customerimport

// Display headers of the customer CSV files exchanged with the back
// office operators. Import files must carry all four; export files and
// error reports reuse them.
const (
	HeaderCustomerName = "Tên khách hàng"
	HeaderEmail        = "Email"
	HeaderTelNum       = "TelNum"
	HeaderAddress      = "Địa chỉ"
)

// RequiredHeaders returns the headers an import file must contain, in
// canonical column order.
func RequiredHeaders() []string {
	return []string{HeaderCustomerName, HeaderEmail, HeaderTelNum, HeaderAddress}
}
