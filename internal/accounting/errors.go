package accounting

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrForbidden indicates the actor lacks the role required for a
	// mutating operation
	ErrForbidden = errors.New("admin role required")
)

// ValidationError carries every violated field of a rejected payload so a
// caller can surface all of them at once.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("invalid fields: %s", strings.Join(fields, ", "))
}
