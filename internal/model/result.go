package model

// Report row statuses. One row is produced per attempted unit of work
// (one per person for generation, one per person for sending).
const (
	StatusOK     = "OK"
	StatusFail   = "FAIL"
	StatusSkip   = "SKIP"
	StatusDryRun = "DRY-RUN"
)

// ResultRow is one immutable outcome record. Rows are appended in
// processing order, which correlates report line N with input record N.
type ResultRow struct {
	Nama    string `json:"name"`
	NIP     string `json:"id_number"`
	Email   string `json:"email"`
	Status  string `json:"status"`
	Message string `json:"message"`
}
