// Package decision abstracts operator prompts behind an injectable provider
// so the convergence loop stays testable. The interactive implementation
// reads stdin; tests use Scripted.
package decision

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Provider answers the operator decisions the engine needs mid-run. Every
// decision in the run flow is a yes/no question.
type Provider interface {
	// Confirm asks a yes/no question. An empty answer or anything other
	// than "n"/"no" (case-insensitive) means yes.
	Confirm(prompt string) bool
}

// StdinProvider is the interactive Provider reading answers from stdin.
//
// Fields:
//   - In: Input stream; defaults to os.Stdin
//   - Out: Prompt destination; defaults to os.Stdout
type StdinProvider struct {
	In  io.Reader
	Out io.Writer
}

// NewStdinProvider creates a Provider wired to the process stdin/stdout.
//
// Returns:
//   - *StdinProvider: Interactive provider
func NewStdinProvider() *StdinProvider {
	return &StdinProvider{In: os.Stdin, Out: os.Stdout}
}

// Confirm implements Provider.
//
// Parameters:
//   - prompt: Question shown to the operator, without the (Y/n) suffix
//
// Returns:
//   - bool: false only for explicit "n"/"no" answers; unreadable input
//     also declines so an unattended run cannot loop forever
func (p *StdinProvider) Confirm(prompt string) bool {
	fmt.Fprintf(p.writer(), "\n%s (Y/n) ", prompt)

	answer, err := bufio.NewReader(p.reader()).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(p.writer(), "\nNo input available, declining.")
		return false
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer != "n" && answer != "no"
}

// reader returns the configured input stream or os.Stdin.
func (p *StdinProvider) reader() io.Reader {
	if p.In != nil {
		return p.In
	}
	return os.Stdin
}

// writer returns the configured output stream or os.Stdout.
func (p *StdinProvider) writer() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return os.Stdout
}

// Scripted is a Provider that replays canned answers, for tests and
// non-interactive runs.
//
// Fields:
//   - Answers: Yes/no answers consumed in order; when exhausted, Default
//     is returned
//   - Default: Answer used once Answers run out
//   - Prompts: Records every prompt asked, in order
type Scripted struct {
	Answers []bool
	Default bool
	Prompts []string
}

// Confirm implements Provider by consuming the next scripted answer.
//
// Parameters:
//   - prompt: Question text, recorded for assertions
//
// Returns:
//   - bool: Next scripted answer, or Default when exhausted
func (s *Scripted) Confirm(prompt string) bool {
	s.Prompts = append(s.Prompts, prompt)
	if len(s.Answers) == 0 {
		return s.Default
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer
}

// AlwaysYes returns a Provider that accepts every prompt, used by --yes.
//
// Returns:
//   - Provider: Provider answering yes to everything
func AlwaysYes() Provider {
	return &Scripted{Default: true}
}
