package entities

import "fmt"

// MessageNoHospitals is reported when filtering and slicing left nothing to import.
const MessageNoHospitals = "No hospitals found matching criteria"

// BatchOutcome counts what happened to the candidates of one batch.
type BatchOutcome struct {
	Imported int
	Skipped  int
	Failed   int
}

// Size is the number of candidates the batch accounted for.
func (b BatchOutcome) Size() int {
	return b.Imported + b.Skipped + b.Failed
}

// ImportOutcome summarises one import run. Empty marks the short-circuit
// result where no candidate survived filtering.
type ImportOutcome struct {
	Imported int
	Skipped  int
	Failed   int
	Total    int
	Message  string
	Empty    bool
}

// NoHospitalsOutcome is the result of a run with no candidates.
func NoHospitalsOutcome() *ImportOutcome {
	return &ImportOutcome{Message: MessageNoHospitals, Empty: true}
}

// Merge returns a copy of o with the batch counts added.
func (o ImportOutcome) Merge(b BatchOutcome) ImportOutcome {
	o.Imported += b.Imported
	o.Skipped += b.Skipped
	o.Failed += b.Failed
	return o
}

// Processed is the number of candidates accounted for so far.
func (o ImportOutcome) Processed() int {
	return o.Imported + o.Skipped + o.Failed
}

// Finish sets the total and the completion message.
func (o ImportOutcome) Finish(total int) ImportOutcome {
	o.Total = total
	o.Message = fmt.Sprintf("Successfully imported %d hospitals", o.Imported)
	return o
}
