package customer

// ImportRecord is the canonical shape of one CSV row, produced by the
// record mapper. All fields are trimmed strings; a missing value for a
// present header is the empty string. The record is immutable once built
// and lives only for the duration of one import request.
type ImportRecord struct {
	Name    string `json:"customer_name"`
	Email   string `json:"email"`
	TelNum  string `json:"tel_num"`
	Address string `json:"address"`
}

// ToCustomer turns a validated record into a persistable customer.
func (r ImportRecord) ToCustomer() (*Customer, error) {
	return NewCustomer(r.Name, r.Email, r.TelNum, r.Address)
}

// RowOutcome pairs an import record with the ordered list of rule
// violations found for it. An empty Violations slice means the row passed.
type RowOutcome struct {
	Record     ImportRecord
	Violations []string
}

// Valid reports whether the row carries no violations.
func (o RowOutcome) Valid() bool {
	return len(o.Violations) == 0
}
