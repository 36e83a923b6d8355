// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package capabilities

import (
	"errors"
	"fmt"
)

// ErrCapability is wrapped by every error returned when setting a capability.
var ErrCapability = errors.New("capability error")

// ValueError means the raw value could not be parsed for this capability.
type ValueError struct {
	Capability string
	Value      string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s", e.Value, e.Capability)
}

func (e *ValueError) Unwrap() error { return ErrCapability }

// LogicError means the value is well-formed but conflicts with another
// capability's current value.
type LogicError struct {
	Capability string
	Reason     string
}

func (e *LogicError) Error() string {
	return fmt.Sprintf("%s: %s", e.Capability, e.Reason)
}

func (e *LogicError) Unwrap() error { return ErrCapability }

// UnsupportedError means the value is valid but deliberately not supported.
type UnsupportedError struct {
	Capability string
	Value      string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s=%s is not supported", e.Capability, e.Value)
}

func (e *UnsupportedError) Unwrap() error { return ErrCapability }

func valueErr(name, value string) error {
	return &ValueError{Capability: name, Value: value}
}

func logicErr(name, format string, args ...interface{}) error {
	return &LogicError{Capability: name, Reason: fmt.Sprintf(format, args...)}
}
