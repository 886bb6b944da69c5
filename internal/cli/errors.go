package cli

import (
	"errors"
	"fmt"
	"io"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type unknownTopicError struct{ topic string }

func (e unknownTopicError) Error() string {
	return fmt.Sprintf("unknown docs topic: %q (run `ticketdesk docs` to list topics)", e.topic)
}

// reportedError marks an error a command already printed to stderr.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// Report prints err to w unless a command already did. Cobra's own flag and
// argument errors reach here unprinted.
func Report(w io.Writer, err error) {
	var r reportedError
	if err == nil || errors.As(err, &r) {
		return
	}
	fmt.Fprintln(w, err.Error())
}
