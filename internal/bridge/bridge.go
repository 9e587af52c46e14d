// Package bridge runs commands inside a persistent remote tmux session
// and waits for them to finish.
//
// The session transport is a keystroke stream, not a request/response
// channel, so completion is detected with file markers: the command is
// wrapped so its combined output lands in a temp file and its exit status
// is written to a second temp file, and the bridge polls for the exit
// file until it appears or the deadline passes.
package bridge

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/simon/rdev/internal/sshconn"
)

const (
	pollInterval = 500 * time.Millisecond

	// DefaultTimeout bounds one Exec call when the caller passes none.
	DefaultTimeout = 60 * time.Second

	// TimeoutExitCode is the exit code reported when the deadline passes
	// before the exit marker appears, mirroring timeout(1).
	TimeoutExitCode = 124
)

// ExecResult is the outcome of one command run through the session.
type ExecResult struct {
	Output   string
	ExitCode int
	TimedOut bool
}

// Bridge owns the persistent session and the current remote directory.
// The directory is shared by all operations and guarded by a mutex so
// concurrent tool calls see a consistent value.
type Bridge struct {
	runner  sshconn.Runner
	session string

	mu      sync.Mutex
	workDir string // empty = unset; otherwise absolute, verified at set time
}

// New returns a Bridge running commands in the named tmux session.
func New(runner sshconn.Runner, session string) *Bridge {
	return &Bridge{runner: runner, session: session}
}

// Session returns the configured tmux session name.
func (b *Bridge) Session() string { return b.session }

// Pwd returns the current remote directory, or "" when unset.
func (b *Bridge) Pwd() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.workDir
}

// ResolvePath maps a user-supplied path to the path to use remotely:
// absolute paths pass through, relative paths are joined under the
// current directory, and with no directory set the relative path is left
// for the remote shell to resolve.
func (b *Bridge) ResolvePath(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	if wd := b.Pwd(); wd != "" {
		return wd + "/" + p
	}
	return p
}

// Cd verifies that path exists on the remote host and, on success,
// replaces the current directory with its canonical absolute form. On
// failure the previous value is left untouched.
func (b *Bridge) Cd(ctx context.Context, path string) (string, error) {
	target := b.ResolvePath(path)
	res, err := b.runner.Run(ctx, "cd "+Quote(target)+" && pwd")
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		msg := strings.TrimSpace(res.Stderr)
		if msg == "" {
			msg = "no such directory"
		}
		return "", fmt.Errorf("cannot change directory to %s: %s", target, msg)
	}
	dir := strings.TrimSpace(res.Stdout)
	b.mu.Lock()
	b.workDir = dir
	b.mu.Unlock()
	return dir, nil
}

// HasSession reports whether the tmux session currently exists.
func (b *Bridge) HasSession(ctx context.Context) bool {
	res, err := b.runner.Run(ctx, "tmux has-session -t "+Quote(b.session)+" 2>/dev/null")
	return err == nil && res.ExitCode == 0
}

// ensureSession creates the tmux session if it does not exist yet. The
// session is never destroyed by this process; it outlives it and is
// reused on restart.
func (b *Bridge) ensureSession(ctx context.Context) error {
	q := Quote(b.session)
	_, err := b.runner.Run(ctx,
		"tmux has-session -t "+q+" 2>/dev/null || tmux new-session -d -s "+q)
	return err
}

// Exec runs command inside the session and returns its combined output
// and exit code, or a TimedOut result with exit code 124 once timeout
// elapses. A timed-out command keeps running detached in the session; no
// cancellation is attempted.
func (b *Bridge) Exec(ctx context.Context, command string, timeout time.Duration) (*ExecResult, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if err := b.ensureSession(ctx); err != nil {
		return nil, err
	}

	effective := command
	if wd := b.Pwd(); wd != "" {
		effective = "cd " + Quote(wd) + " && " + command
	}

	// Unique per call, so rapid sequential or concurrent calls cannot
	// collide on marker paths.
	token := time.Now().UnixNano()
	outFile := fmt.Sprintf("/tmp/%s-%d.out", b.session, token)
	exitFile := fmt.Sprintf("/tmp/%s-%d.exit", b.session, token)

	// The exit file must be written even when the command fails: its
	// existence is the only completion signal the bridge has.
	wrapped := fmt.Sprintf("{ %s ; } > %s 2>&1; echo $? > %s", effective, outFile, exitFile)

	q := Quote(b.session)
	if _, err := b.runner.Run(ctx,
		"tmux send-keys -t "+q+" -l "+Quote(wrapped)+" && tmux send-keys -t "+q+" Enter"); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			b.cleanup(outFile, exitFile)
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}

		res, err := b.runner.Run(ctx, "cat "+Quote(exitFile)+" 2>/dev/null")
		if err != nil {
			b.cleanup(outFile, exitFile)
			return nil, err
		}
		if res.ExitCode != 0 {
			continue // marker not there yet
		}
		code, perr := strconv.Atoi(strings.TrimSpace(res.Stdout))
		if perr != nil {
			continue // partially written, read again next tick
		}

		out, err := b.runner.Run(ctx, "cat "+Quote(outFile)+" 2>/dev/null")
		if err != nil {
			b.cleanup(outFile, exitFile)
			return nil, err
		}
		b.cleanup(outFile, exitFile)
		return &ExecResult{Output: out.Stdout, ExitCode: code}, nil
	}

	b.cleanup(outFile, exitFile)
	return &ExecResult{ExitCode: TimeoutExitCode, TimedOut: true}, nil
}

// cleanup removes the marker files. Best-effort: a failed cleanup never
// fails the overall call.
func (b *Bridge) cleanup(outFile, exitFile string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = b.runner.Run(ctx, "rm -f "+Quote(outFile)+" "+Quote(exitFile))
}
