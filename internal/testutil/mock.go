package testutil

import (
	"errors"
	"fmt"

	"github.com/stretchr/testify/mock"
)

// errMockSetup is returned when a mocked call was configured with the wrong
// return values.
var errMockSetup = errors.New("mock not properly configured")

// ErrorResult extracts the single error return of a mocked method.
func ErrorResult(args mock.Arguments) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: want 1 return value, got %d", errMockSetup, len(args))
	}
	return errorAt(args, 0)
}

// ValueResult extracts a (T, error) pair from a mocked method. Return(err)
// alone is shorthand for Return(zero, err).
func ValueResult[T any](args mock.Arguments) (T, error) {
	var zero T

	switch len(args) {
	case 1:
		if err := errorAt(args, 0); err != nil {
			return zero, err
		}
		return zero, fmt.Errorf("%w: want 2 return values, got 1", errMockSetup)
	case 2:
	default:
		return zero, fmt.Errorf("%w: want 2 return values, got %d", errMockSetup, len(args))
	}

	err := errorAt(args, 1)
	if args.Get(0) == nil {
		return zero, err
	}
	value, ok := args.Get(0).(T)
	if !ok {
		return zero, fmt.Errorf("%w: returned %T, want %T", errMockSetup, args.Get(0), zero)
	}
	return value, err
}

func errorAt(args mock.Arguments, i int) error {
	v := args.Get(i)
	if v == nil {
		return nil
	}
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("%w: returned %T where an error belongs", errMockSetup, v)
}
