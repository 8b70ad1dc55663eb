// Package service implements the booking lifecycle engine: creation
// and update of bookings with conflict detection, the payment
// reconciliation that drives status transitions, and the periodic
// expiration sweep.  Collaborators - storage, the accommodation and
// user lookups, the payment gateway and the notifier - are consumed
// through narrow interfaces so the engine can be exercised without any
// real infrastructure.
package service

import "fmt"

// NotFoundError reports that an entity referenced by id does not exist.
// Handlers translate it into HTTP 404.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError reports that an operation cannot proceed because of
// current state: a date overlap, an already-canceled booking, an owner
// mismatch or an outstanding unpaid payment.  Handlers translate it
// into HTTP 409.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// InvalidInputError reports a request the state machine refuses to
// look at: bad date ordering, past dates, a non-positive night count or
// an unknown status value.  Handlers translate it into HTTP 400.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return e.Reason }

// ConfigError is fatal misconfiguration detected at call time, such as
// a missing payment-gateway credential.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return e.Reason }

// GatewayError wraps a transport or provider failure from the payment
// gateway.  It is never silently downgraded; callers see the cause via
// Unwrap.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string { return fmt.Sprintf("payment gateway %s: %v", e.Op, e.Err) }

func (e *GatewayError) Unwrap() error { return e.Err }
