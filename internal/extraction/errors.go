package extraction

import "fmt"

// ExhaustedError is returned when every credential has failed on every retry
// attempt. Last carries the final underlying backend error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("extraction failed after %d attempts across all credentials: %v", e.Attempts, e.Last)
	}
	return fmt.Sprintf("extraction failed after %d attempts across all credentials", e.Attempts)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}
