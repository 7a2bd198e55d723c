package helper

import (
	"fmt"
)

// GetTypedValueOf safely asserts the result of a getter function to the expected type T.
// Returns an error if the getter fails or the type assertion fails.
func GetTypedValueOf[T any](getFn func() (any, error)) (T, error) {
	var zero T

	res, err := getFn()
	if err != nil {
		return zero, fmt.Errorf("failed to get value: %w", err)
	}

	val, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected type: %T", res)
	}

	return val, nil
}

// MustGetTypedValue is the panic-on-failure variant of GetTypedValueOf.
// Use when failure should be fatal (e.g., when the value is guaranteed to exist).
func MustGetTypedValue[T any](getFn func() (any, error)) T {
	res, err := GetTypedValueOf[T](getFn)
	if err != nil {
		panic(err)
	}
	return res
}

// TypedResult converts the untyped result of a call to T.
//
// A non-nil err is returned as is, so callers can compare it by identity.
// A nil value gives the zero T. Any other value of the wrong type is an error.
func TypedResult[T any](res any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	val, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected type: %T, want %T", res, zero)
	}
	return val, nil
}
