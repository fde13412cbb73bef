package alert

import (
	"context"
	"fmt"
	"io"
	"os"
)

// StdoutSender writes alerts to a writer instead of delivering them.
// Useful for development and dry runs.
type StdoutSender struct {
	out io.Writer
}

// NewStdoutSender creates a StdoutSender. A nil writer defaults to
// os.Stdout.
func NewStdoutSender(out io.Writer) *StdoutSender {
	if out == nil {
		out = os.Stdout
	}
	return &StdoutSender{out: out}
}

// Name returns the backend name.
func (s *StdoutSender) Name() string { return "stdout" }

// Send prints the alert.
func (s *StdoutSender) Send(_ context.Context, a Alert) error {
	_, err := fmt.Fprintf(s.out, "To: %s\nSubject: %s\n\n%s\n", a.To, a.Subject(), a.Body())
	return err
}
