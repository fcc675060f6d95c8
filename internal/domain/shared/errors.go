package shared

import "fmt"

// DomainError is the base error type for all domain-rule violations.
// Rule violations are returned as values and roll their enclosing
// transaction back in full; they are never panics.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// NotFoundError indicates a referenced entity does not exist.
type NotFoundError struct {
	*DomainError
	Entity string
	ID     string
}

func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s not found: %s", entity, id)},
		Entity:      entity,
		ID:          id,
	}
}

// UnauthorizedError indicates an ownership mismatch: the acting nation does
// not control the target entity.
type UnauthorizedError struct {
	*DomainError
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{DomainError: &DomainError{Message: message}}
}

// InsufficientResourceError carries the resource name and the shortfall that
// could not be covered.
type InsufficientResourceError struct {
	*DomainError
	Resource  Resource
	Shortfall float64
}

func NewInsufficientResourceError(resource Resource, shortfall float64) *InsufficientResourceError {
	return &InsufficientResourceError{
		DomainError: &DomainError{Message: fmt.Sprintf("insufficient %s: short %g", resource, shortfall)},
		Resource:    resource,
		Shortfall:   shortfall,
	}
}

// InsufficientCashError indicates a treasury cannot cover a required amount.
type InsufficientCashError struct {
	*DomainError
	Shortfall float64
}

func NewInsufficientCashError(shortfall float64) *InsufficientCashError {
	return &InsufficientCashError{
		DomainError: &DomainError{Message: fmt.Sprintf("insufficient cash: short %g", shortfall)},
		Shortfall:   shortfall,
	}
}

// InsufficientManpowerError indicates a state cannot field the requested
// manpower.
type InsufficientManpowerError struct {
	*DomainError
	Shortfall int
}

func NewInsufficientManpowerError(shortfall int) *InsufficientManpowerError {
	return &InsufficientManpowerError{
		DomainError: &DomainError{Message: fmt.Sprintf("insufficient recruitable manpower: short %d", shortfall)},
		Shortfall:   shortfall,
	}
}

// InvalidStateError indicates an operation is not valid for the entity's
// current lifecycle state (e.g. cancelling a completed build).
type InvalidStateError struct {
	*DomainError
}

func NewInvalidStateError(message string) *InvalidStateError {
	return &InvalidStateError{DomainError: &DomainError{Message: message}}
}

// AdmissionLimitError indicates a per-nation concurrency cap was hit.
type AdmissionLimitError struct {
	*DomainError
	Limit int
	Open  int
}

func NewAdmissionLimitError(limit, open int) *AdmissionLimitError {
	return &AdmissionLimitError{
		DomainError: &DomainError{Message: fmt.Sprintf("admission limit exceeded: %d open (limit %d)", open, limit)},
		Limit:       limit,
		Open:        open,
	}
}

// StoreError wraps an unexpected persistence failure. Callers must assume
// the attempted operation did not apply.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}
