package adapter

import (
	"fmt"
	"strings"
)

// IncompleteDataError enumerates canonical field paths that were absent
// or empty in an upstream payload among a given essential-fields set
// (§4.3). The adapter never fabricates values for these — it always
// surfaces this error instead.
type IncompleteDataError struct {
	Entity        string
	MissingFields []string
}

func (e *IncompleteDataError) Error() string {
	return fmt.Sprintf("%s payload missing required fields: %s", e.Entity, strings.Join(e.MissingFields, ", "))
}
