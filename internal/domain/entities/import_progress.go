package entities

import "time"

// ImportProgress is emitted after every batch of an import run and once more
// when the run finishes.
type ImportProgress struct {
	RunID     string    `json:"run_id"`
	Batch     int       `json:"batch"`
	Batches   int       `json:"batches"`
	Imported  int       `json:"imported"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	Processed int       `json:"processed"`
	Total     int       `json:"total"`
	Done      bool      `json:"done"`
	Timestamp time.Time `json:"timestamp"`
}
