package rfp

import "errors"

// ErrInvalidRecord is returned when the extraction record is not a structured
// object at all. This indicates a programmer error upstream, not bad data.
var ErrInvalidRecord = errors.New("rfp: extraction record is not a structured object")
