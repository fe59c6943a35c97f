package models

import (
	"fmt"
	"strings"
)

// UsageError is a user input problem. Usage carries the help text of the
// option involved so the CLI can print it next to the message.
type UsageError struct {
	Message string
	Usage   string
}

func (e *UsageError) Error() string {
	return e.Message
}

func NewUsageError(usage, format string, args ...interface{}) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...), Usage: usage}
}

type StackNotFoundError struct {
	Name string
}

func (e *StackNotFoundError) Error() string {
	return fmt.Sprintf("AWS reports unknown stack: %s", e.Name)
}

// StackStatusError is returned when a stack leaves the expected states.
// Reasons holds the status reason of every failed stack event.
type StackStatusError struct {
	Name    string
	Status  string
	Reasons []string
}

func (e *StackStatusError) Error() string {
	msg := fmt.Sprintf("unsupported AWS status: %s", e.Status)
	if len(e.Reasons) > 0 {
		msg += "\n\n" + strings.Join(e.Reasons, "\n")
	}
	return msg
}

type NotAClusterError struct {
	Name string
}

func (e *NotAClusterError) Error() string {
	return fmt.Sprintf("not a Kurento Cluster: %s", e.Name)
}

type UnsupportedRegionError struct {
	Region string
}

func (e *UnsupportedRegionError) Error() string {
	return fmt.Sprintf("kurento cluster not supported in region: %s", e.Region)
}
