// Package errors provides custom error types for pricing-domain errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrConfigInvalid = errors.New("invalid configuration")
	ErrDataNotFound  = errors.New("data not found")
	ErrStoreClosed   = errors.New("store is closed")
)

// DomainError represents an input that violates a mathematical precondition.
type DomainError struct {
	Field   string
	Value   float64
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s %s (got %v)", e.Field, e.Message, e.Value)
}

// NewDomainError creates a new DomainError.
func NewDomainError(field string, value float64, message string) *DomainError {
	return &DomainError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// OutOfBoundsError represents a target price outside the no-arbitrage interval.
type OutOfBoundsError struct {
	Bound string // "upper" or "lower"
	Limit float64
	Price float64
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("price %g is outside the no-arbitrage %s bound %g", e.Price, e.Bound, e.Limit)
}

// NewOutOfBoundsError creates a new OutOfBoundsError.
func NewOutOfBoundsError(bound string, limit, price float64) *OutOfBoundsError {
	return &OutOfBoundsError{
		Bound: bound,
		Limit: limit,
		Price: price,
	}
}

// ConvergenceError represents a root-finding failure in the implied-vol solver.
type ConvergenceError struct {
	Phase      string // "bracket", "bisection", "newton"
	Iterations int
}

func (e *ConvergenceError) Error() string {
	if e.Phase == "bracket" {
		return "cannot bracket implied volatility"
	}
	return fmt.Sprintf("implied volatility did not converge in %s phase after %d iterations", e.Phase, e.Iterations)
}

// NewConvergenceError creates a new ConvergenceError.
func NewConvergenceError(phase string, iterations int) *ConvergenceError {
	return &ConvergenceError{
		Phase:      phase,
		Iterations: iterations,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
