package service

import "fmt"

// ValidationError reports malformed input (bad name length, hour out of
// range). Adapters map it to a 4xx response or a gentle chat reply.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ForbiddenError reports an ownership mismatch between the acting identity
// and the user a request targets. The operation performs no mutation.
type ForbiddenError struct {
	Actor string
	Owner string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("identity %s may not act on user %s", e.Actor, e.Owner)
}

// NotFoundError reports an operation against an absent resource. It is
// distinct from "already in the desired state", which surfaces as a plain
// false return.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// StorageError wraps a store failure so adapters can map it to a 5xx
// response without losing the underlying cause.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
