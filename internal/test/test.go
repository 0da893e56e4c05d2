// Package test contains helper functions for the package tests. The Expect
// functions report a failure and let the test continue; the Demand functions
// stop the test.
package test

import (
	"errors"
	"fmt"
	"testing"
)

func id(tags ...any) string {
	if len(tags) == 0 {
		return ""
	}
	return fmt.Sprint(tags...) + ": "
}

// ExpectEquality fails the test if v does not equal expectedValue.
func ExpectEquality[T comparable](t *testing.T, v T, expectedValue T, tags ...any) bool {
	t.Helper()
	if v != expectedValue {
		t.Errorf("%sequality test of type %T failed: '%v' does not equal '%v'", id(tags...), v, v, expectedValue)
		return false
	}
	return true
}

// DemandEquality is like ExpectEquality but a failure ends the test. Useful
// when later checks depend on the value.
func DemandEquality[T comparable](t *testing.T, v T, expectedValue T, tags ...any) {
	t.Helper()
	if v != expectedValue {
		t.Fatalf("%sequality test of type %T failed: '%v' does not equal '%v'", id(tags...), v, v, expectedValue)
	}
}

// ExpectSuccess tests v for the success value of its type:
//
//	bool  -> true
//	error -> nil
//	nil   -> always succeeds
func ExpectSuccess(t *testing.T, v any, tags ...any) bool {
	t.Helper()
	if !success(t, v) {
		t.Errorf("%sexpected success (%T: %v)", id(tags...), v, v)
		return false
	}
	return true
}

// ExpectFailure tests v for the failure value of its type. See ExpectSuccess.
func ExpectFailure(t *testing.T, v any, tags ...any) bool {
	t.Helper()
	if success(t, v) {
		t.Errorf("%sexpected failure (%T)", id(tags...), v)
		return false
	}
	return true
}

// DemandSuccess is like ExpectSuccess but a failure ends the test.
func DemandSuccess(t *testing.T, v any, tags ...any) {
	t.Helper()
	if !success(t, v) {
		t.Fatalf("%sa success value is demanded (%T: %v)", id(tags...), v, v)
	}
}

// ExpectError checks that err matches target with errors.Is.
func ExpectError(t *testing.T, err error, target error, tags ...any) bool {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("%sexpected error %q, got %v", id(tags...), target, err)
		return false
	}
	return true
}

func success(t *testing.T, v any) bool {
	t.Helper()
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return v
	case error:
		return v == nil
	default:
		t.Fatalf("unsupported type (%T) for expectation testing", v)
	}
	return false
}
