// Package sshconn executes one-shot commands on the remote target over a
// pooled SSH connection. The OpenSSH ControlMaster machinery owns the
// actual pooling: the first call establishes a master connection, later
// calls multiplex over it, and the master is torn down by ssh itself
// after the ControlPersist idle period.
package sshconn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/simon/rdev/internal/config"
)

// ExitUnknown marks a remote invocation whose exit status could not be
// attributed to the command, e.g. killed by a signal. It is deliberately
// not 0: an unknown status is not success.
const ExitUnknown = -1

// DefaultTimeout bounds a single one-shot call when the caller's context
// carries no deadline of its own.
const DefaultTimeout = 60 * time.Second

// Result holds the output from one remote command execution.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner runs a single remote command string and returns its captured
// output. The command must already be shell-quoted by the caller.
//
// A returned error means the transport itself failed (spawn failure,
// connection refused, auth failure); a nonzero Result.ExitCode with a nil
// error is the remote command's own failure. Callers must treat the two
// differently.
type Runner interface {
	Run(ctx context.Context, remoteCmd string) (*Result, error)
}

// Pooled runs commands through the ssh binary with connection
// multiplexing enabled. Safe for concurrent use; every call is an
// independent ssh invocation sharing the master connection.
type Pooled struct {
	cfg *config.Config
}

// New returns a Pooled runner for the configured remote target.
func New(cfg *config.Config) *Pooled {
	return &Pooled{cfg: cfg}
}

// sshExitTransport is the exit code ssh itself uses for connection and
// protocol errors, as opposed to relaying the remote command's status.
const sshExitTransport = 255

func (p *Pooled) args(remoteCmd string) []string {
	args := []string{
		"-o", "ControlMaster=auto",
		"-o", "ControlPath=" + p.cfg.ControlPath,
		"-o", "ControlPersist=60",
		"-o", "StrictHostKeyChecking=accept-new",
		"-o", "BatchMode=yes",
		"-p", fmt.Sprintf("%d", p.cfg.Port),
	}
	if p.cfg.SSHKey != "" {
		args = append(args, "-i", p.cfg.SSHKey)
	}
	dest := p.cfg.Host
	if p.cfg.User != "" {
		dest = p.cfg.User + "@" + p.cfg.Host
	}
	return append(args, dest, remoteCmd)
}

// Run executes remoteCmd on the target and returns its captured stdout,
// stderr, and exit code.
func (p *Pooled) Run(ctx context.Context, remoteCmd string) (*Result, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "ssh", p.args(remoteCmd)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}

	if err == nil {
		res.ExitCode = 0
		return res, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		// ssh never started (missing binary, fork failure).
		return nil, fmt.Errorf("ssh %s: %w", p.cfg.Host, err)
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("ssh %s: %w", p.cfg.Host, ctx.Err())
	}

	code := exitErr.ExitCode()
	switch code {
	case sshExitTransport:
		return nil, fmt.Errorf("ssh %s: %s", p.cfg.Host, firstLine(res.Stderr))
	case -1:
		// Terminated without an exit status (signal). Not success.
		res.ExitCode = ExitUnknown
	default:
		res.ExitCode = code
	}
	return res, nil
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	if s == "" {
		return "connection failed"
	}
	return s
}

// String describes the connection for logs and status output.
func (p *Pooled) String() string {
	if p.cfg.User != "" {
		return fmt.Sprintf("%s@%s:%d", p.cfg.User, p.cfg.Host, p.cfg.Port)
	}
	return fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)
}
