// Package pipclient wraps the pip invocations the convergence loop needs
// behind a small interface so the loop can be tested without a Python
// environment.
package pipclient

import (
	"context"
	"strings"
	"time"

	"github.com/ajxudir/pipconverge/pkg/cmdexec"
	"github.com/ajxudir/pipconverge/pkg/errors"
	"github.com/ajxudir/pipconverge/pkg/verbose"
)

// Outdated is one row of pip's outdated listing.
//
// Fields:
//   - Name: Package name
//   - Current: Installed version
//   - Latest: Newest available version
type Outdated struct {
	Name    string
	Current string
	Latest  string
}

// Client is the pip surface the convergence loop depends on.
type Client interface {
	// ListOutdated returns the packages with newer versions available.
	ListOutdated(ctx context.Context) ([]Outdated, error)

	// Check runs the dependency check and returns its raw output. ok is
	// true when pip reported no broken requirements.
	Check(ctx context.Context) (ok bool, raw string, err error)

	// Update installs a package, at the given version when non-empty,
	// otherwise upgrading to the latest.
	Update(ctx context.Context, name, version string) error

	// ShowVersion returns the installed version of a package, or empty
	// when it is not installed.
	ShowVersion(ctx context.Context, name string) (string, error)

	// SelfUpgrade upgrades pip itself.
	SelfUpgrade(ctx context.Context) error
}

// ExecClient is the Client implementation that shells out to
// "<python> -m pip" via cmdexec.Run.
//
// Fields:
//   - Python: Interpreter used to invoke pip, e.g. "python3"
//   - Timeout: Per-invocation timeout; zero disables it
type ExecClient struct {
	Python  string
	Timeout time.Duration
}

// New creates an ExecClient.
//
// Parameters:
//   - python: Interpreter used to invoke pip
//   - timeout: Per-invocation timeout
//
// Returns:
//   - *ExecClient: Client ready for use
func New(python string, timeout time.Duration) *ExecClient {
	return &ExecClient{Python: python, Timeout: timeout}
}

// run invokes one pip subcommand and traces it in verbose mode.
func (c *ExecClient) run(ctx context.Context, args ...string) (cmdexec.Result, error) {
	full := append([]string{"-m", "pip"}, args...)
	verbose.Infof("exec: %s %s", c.Python, strings.Join(full, " "))
	return cmdexec.Run(ctx, c.Python, full, c.Timeout)
}

// ListOutdated implements Client.
//
// It runs "pip list --outdated" and parses the columnar output, skipping the
// two header lines (column names and the dashed underline).
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - []Outdated: Parsed rows; nil when everything is current
//   - error: *errors.CommandError when the listing failed
func (c *ExecClient) ListOutdated(ctx context.Context) ([]Outdated, error) {
	res, err := c.run(ctx, "list", "--outdated")
	if err != nil {
		return nil, &errors.CommandError{
			Operation: "list outdated packages",
			Output:    cmdexec.FirstLine(res.Stderr),
			Err:       err,
		}
	}

	return parseOutdated(res.Stdout), nil
}

// parseOutdated parses pip's outdated listing.
//
// Parameters:
//   - raw: Raw "pip list --outdated" stdout
//
// Returns:
//   - []Outdated: One entry per data row with at least three columns
func parseOutdated(raw string) []Outdated {
	var rows []Outdated

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		// The first two lines are the column headers and the dashes.
		if i < 2 {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		rows = append(rows, Outdated{Name: fields[0], Current: fields[1], Latest: fields[2]})
	}

	return rows
}

// Check implements Client.
//
// pip exits non-zero when broken requirements exist, so a non-zero exit with
// output is a finding, not a failure.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - bool: true when no broken requirements were reported
//   - string: Raw check output for the conflict parser
//   - error: *errors.CommandError when pip itself could not run
func (c *ExecClient) Check(ctx context.Context) (bool, string, error) {
	res, err := c.run(ctx, "check")
	if err == nil {
		return true, res.Stdout, nil
	}

	// Exit code 1 with diagnostics on stdout means conflicts were found.
	if res.ExitCode > 0 && strings.TrimSpace(res.Stdout) != "" {
		return false, res.Stdout, nil
	}

	return false, "", &errors.CommandError{
		Operation: "check dependencies",
		Output:    cmdexec.FirstLine(res.Stderr),
		Err:       err,
	}
}

// Update implements Client.
//
// Parameters:
//   - ctx: Context for cancellation
//   - name: Package to install
//   - version: Exact version to pin; empty upgrades to the latest
//
// Returns:
//   - error: *errors.CommandError naming the package on failure
func (c *ExecClient) Update(ctx context.Context, name, version string) error {
	target := name
	args := []string{"install", "--upgrade"}
	if version != "" {
		target = name + "==" + version
		args = []string{"install"}
	}
	args = append(args, target)

	res, err := c.run(ctx, args...)
	if err != nil {
		return &errors.CommandError{
			Operation: "install " + target,
			Package:   name,
			Output:    cmdexec.FirstLine(res.Stderr),
			Err:       err,
		}
	}

	return nil
}

// ShowVersion implements Client.
//
// Parameters:
//   - ctx: Context for cancellation
//   - name: Package to query
//
// Returns:
//   - string: Installed version; empty when the package is not installed
//   - error: *errors.CommandError when pip itself could not run
func (c *ExecClient) ShowVersion(ctx context.Context, name string) (string, error) {
	res, err := c.run(ctx, "show", name)
	if err != nil {
		// pip show exits 1 for unknown packages; that is "not installed".
		if res.ExitCode == 1 {
			return "", nil
		}
		return "", &errors.CommandError{
			Operation: "show " + name,
			Package:   name,
			Output:    cmdexec.FirstLine(res.Stderr),
			Err:       err,
		}
	}

	for _, line := range strings.Split(res.Stdout, "\n") {
		if rest, ok := strings.CutPrefix(line, "Version:"); ok {
			return strings.TrimSpace(rest), nil
		}
	}

	return "", nil
}

// SelfUpgrade implements Client.
//
// "Requirement already satisfied" in the output counts as success even
// though some environments report it alongside a warning exit.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - error: *errors.CommandError on failure
func (c *ExecClient) SelfUpgrade(ctx context.Context) error {
	res, err := c.run(ctx, "install", "--upgrade", "pip")
	if err != nil {
		if strings.Contains(res.Stdout, "Requirement already satisfied") {
			return nil
		}
		return &errors.CommandError{
			Operation: "upgrade pip",
			Package:   "pip",
			Output:    cmdexec.FirstLine(res.Stderr),
			Err:       err,
		}
	}

	return nil
}
