package bridge

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simon/rdev/internal/sshconn"
)

// fakeRunner scripts the remote side: each incoming command string is
// matched by the handle func, and every call is recorded.
type fakeRunner struct {
	mu     sync.Mutex
	calls  []string
	handle func(cmd string) (*sshconn.Result, error)
}

func (f *fakeRunner) Run(ctx context.Context, cmd string) (*sshconn.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()
	return f.handle(cmd)
}

func (f *fakeRunner) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func ok(stdout string) (*sshconn.Result, error) {
	return &sshconn.Result{Stdout: stdout}, nil
}

func fail(code int, stderr string) (*sshconn.Result, error) {
	return &sshconn.Result{Stderr: stderr, ExitCode: code}, nil
}

func TestResolvePath(t *testing.T) {
	b := New(&fakeRunner{}, "rdev")

	tests := []struct {
		name    string
		workDir string
		input   string
		want    string
	}{
		{"absolute unchanged", "/var/log", "/etc/hosts", "/etc/hosts"},
		{"relative joined", "/var/log", "syslog", "/var/log/syslog"},
		{"relative nested", "/home/me", "src/main.go", "/home/me/src/main.go"},
		{"unset passes through", "", "syslog", "syslog"},
		{"unset absolute unchanged", "", "/etc/hosts", "/etc/hosts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b.mu.Lock()
			b.workDir = tt.workDir
			b.mu.Unlock()
			if got := b.ResolvePath(tt.input); got != tt.want {
				t.Errorf("ResolvePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCdSuccessSetsCanonicalDir(t *testing.T) {
	runner := &fakeRunner{handle: func(cmd string) (*sshconn.Result, error) {
		return ok("/var/log\n")
	}}
	b := New(runner, "rdev")

	dir, err := b.Cd(context.Background(), "/var/log")
	require.NoError(t, err)
	require.Equal(t, "/var/log", dir)
	require.Equal(t, "/var/log", b.Pwd())

	// Scenario: relative paths now resolve under the new directory.
	require.Equal(t, "/var/log/syslog", b.ResolvePath("syslog"))

	calls := runner.recorded()
	require.Len(t, calls, 1)
	require.Equal(t, "cd '/var/log' && pwd", calls[0])
}

func TestCdFailureLeavesStateUntouched(t *testing.T) {
	runner := &fakeRunner{handle: func(cmd string) (*sshconn.Result, error) {
		if strings.Contains(cmd, "missing") {
			return fail(1, "cd: no such file or directory: /missing\n")
		}
		return ok("/var/log\n")
	}}
	b := New(runner, "rdev")

	_, err := b.Cd(context.Background(), "/var/log")
	require.NoError(t, err)

	_, err = b.Cd(context.Background(), "/missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "/missing")
	require.Equal(t, "/var/log", b.Pwd())
}

// scriptedSession fakes the whole capture-and-poll protocol: has-session,
// send-keys, exit-marker polls, output fetch, and cleanup.
type scriptedSession struct {
	runner     *fakeRunner
	wrapped    string // command delivered via send-keys
	pollsLeft  int    // polls to answer "not there yet" before completing
	exitStatus string
	output     string
}

func newScriptedSession(pollsBeforeDone int, exitStatus, output string) *scriptedSession {
	s := &scriptedSession{pollsLeft: pollsBeforeDone, exitStatus: exitStatus, output: output}
	s.runner = &fakeRunner{handle: s.handle}
	return s
}

func (s *scriptedSession) handle(cmd string) (*sshconn.Result, error) {
	switch {
	case strings.HasPrefix(cmd, "tmux has-session"):
		return ok("")
	case strings.HasPrefix(cmd, "tmux send-keys"):
		s.wrapped = cmd
		return ok("")
	case strings.HasPrefix(cmd, "cat ") && strings.Contains(cmd, ".exit"):
		if s.pollsLeft > 0 {
			s.pollsLeft--
			return fail(1, "cat: no such file\n")
		}
		return ok(s.exitStatus)
	case strings.HasPrefix(cmd, "cat ") && strings.Contains(cmd, ".out"):
		return ok(s.output)
	case strings.HasPrefix(cmd, "rm -f "):
		return ok("")
	}
	return fail(127, "unexpected command: "+cmd+"\n")
}

func TestExecCompletes(t *testing.T) {
	s := newScriptedSession(1, "0\n", "hello\nworld\n")
	b := New(s.runner, "rdev")

	res, err := b.Exec(context.Background(), "echo hello", 0)
	require.NoError(t, err)
	require.Equal(t, 0, res.ExitCode)
	require.Equal(t, "hello\nworld\n", res.Output)
	require.False(t, res.TimedOut)

	// The wrapped command must redirect combined output and write the
	// exit status unconditionally.
	require.Contains(t, s.wrapped, "{ echo hello ; } > /tmp/rdev-")
	require.Contains(t, s.wrapped, "2>&1; echo $? > /tmp/rdev-")

	// Both marker files are removed afterwards.
	calls := s.runner.recorded()
	last := calls[len(calls)-1]
	require.True(t, strings.HasPrefix(last, "rm -f "))
	require.Contains(t, last, ".out")
	require.Contains(t, last, ".exit")
}

func TestExecReportsRemoteExitCode(t *testing.T) {
	s := newScriptedSession(0, "3\n", "boom\n")
	b := New(s.runner, "rdev")

	res, err := b.Exec(context.Background(), "false-ish", 0)
	require.NoError(t, err)
	require.Equal(t, 3, res.ExitCode)
	require.Equal(t, "boom\n", res.Output)
}

func TestExecPrefixesWorkDir(t *testing.T) {
	s := newScriptedSession(0, "0\n", "")
	b := New(s.runner, "rdev")
	b.mu.Lock()
	b.workDir = "/var/log"
	b.mu.Unlock()

	_, err := b.Exec(context.Background(), "ls", 0)
	require.NoError(t, err)
	// The workdir itself is quoted inside the send-keys payload, so
	// check the pieces rather than the escaped quoting.
	require.Contains(t, s.wrapped, "/var/log")
	require.Contains(t, s.wrapped, "&& ls ; }")
	require.True(t, strings.Contains(s.wrapped, "cd "))
}

func TestExecTimeout(t *testing.T) {
	// Exit marker never appears.
	s := newScriptedSession(1<<30, "", "")
	b := New(s.runner, "rdev")

	res, err := b.Exec(context.Background(), "sleep 9999", 1)
	require.NoError(t, err)
	require.True(t, res.TimedOut)
	require.Equal(t, TimeoutExitCode, res.ExitCode)

	// Cleanup still runs, best-effort.
	calls := s.runner.recorded()
	require.True(t, strings.HasPrefix(calls[len(calls)-1], "rm -f "))
}

func TestExecEnsuresSessionFirst(t *testing.T) {
	s := newScriptedSession(0, "0\n", "")
	b := New(s.runner, "work")

	_, err := b.Exec(context.Background(), "true", 0)
	require.NoError(t, err)

	calls := s.runner.recorded()
	require.Equal(t, "tmux has-session -t 'work' 2>/dev/null || tmux new-session -d -s 'work'", calls[0])
}
