/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when an item is not found
	ErrNotFound = errors.New("item not found")

	// ErrInvalidInput is returned when request validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConditionFailed is returned when a conditional write fails
	ErrConditionFailed = errors.New("condition check failed")

	// ErrStoreUnavailable is returned when the backing table rejects or fails a call
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrMisconfigured is returned when required configuration is missing
	ErrMisconfigured = errors.New("misconfigured")

	// ErrMissingPrimaryKey is returned when a scanned record lacks its primary-key attribute
	ErrMissingPrimaryKey = errors.New("record missing primary key")
)

// NotFoundError represents an error when an item is not found
type NotFoundError struct {
	Table string
	Key   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item with key %q not found in %s", e.Key, e.Table)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ConditionFailedError represents a failed conditional operation
type ConditionFailedError struct {
	Operation string
	Condition string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition check failed for %s operation: %s", e.Operation, e.Condition)
}

func (e *ConditionFailedError) Is(target error) bool {
	return target == ErrConditionFailed
}

// StoreError wraps a failure returned by the backing table.
// It matches ErrStoreUnavailable and unwraps to the underlying SDK error.
type StoreError struct {
	Op    string
	Table string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s on table %q failed: %v", e.Op, e.Table, e.Err)
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStoreUnavailable
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ConfigError names a configuration value that is missing or malformed
type ConfigError struct {
	Name    string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Name, e.Message)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrMisconfigured
}

// MissingPrimaryKeyError reports a record that came back from a scan without its key attribute
type MissingPrimaryKeyError struct {
	Attribute string
}

func (e *MissingPrimaryKeyError) Error() string {
	return fmt.Sprintf("record has no value for primary key attribute %q", e.Attribute)
}

func (e *MissingPrimaryKeyError) Is(target error) bool {
	return target == ErrMissingPrimaryKey
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(table, key string) error {
	return &NotFoundError{Table: table, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewConditionFailedError creates a new ConditionFailedError
func NewConditionFailedError(operation, condition string) error {
	return &ConditionFailedError{Operation: operation, Condition: condition}
}

// NewStoreError creates a new StoreError
func NewStoreError(op, table string, err error) error {
	return &StoreError{Op: op, Table: table, Err: err}
}

// NewConfigError creates a new ConfigError
func NewConfigError(name, message string) error {
	return &ConfigError{Name: name, Message: message}
}

// NewMissingPrimaryKeyError creates a new MissingPrimaryKeyError
func NewMissingPrimaryKeyError(attribute string) error {
	return &MissingPrimaryKeyError{Attribute: attribute}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConditionFailed checks if an error is a condition failed error
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}

// IsStoreUnavailable checks if an error came from the backing table
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IsMisconfigured checks if an error is a configuration error
func IsMisconfigured(err error) bool {
	return errors.Is(err, ErrMisconfigured)
}
