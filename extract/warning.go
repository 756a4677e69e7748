package extract

import "fmt"

// Warning describes a non-fatal issue encountered during processing. The
// affected item degrades gracefully and the batch continues.
type Warning struct {
	DocIndex int
	Page     int
	Message  string
}

func (w Warning) String() string {
	return fmt.Sprintf("doc %d page %d: %s", w.DocIndex, w.Page, w.Message)
}
