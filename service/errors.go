package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyCart        = errors.New("cart is empty, nothing to checkout")
	ErrAlreadyProcessed = errors.New("payment already completed")
	ErrInvalidState     = errors.New("can only refund completed payments")
	ErrNotCancellable   = errors.New("order can no longer be cancelled")
)

// ValidationError reports every missing or malformed request field at once.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}
