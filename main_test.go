package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

func TestMainVersion(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"credsync", "version"}
	defer func() { os.Args = oldArgs }()
	oldExit := osExit
	exited := -1
	osExit = func(code int) { exited = code }
	defer func() { osExit = oldExit }()

	main()
	if exited != 0 {
		t.Fatalf("exit code = %d, want 0", exited)
	}
}

func TestMainUnknownHostExitsNonZero(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"credsync", "describe", "https://example.com"}
	defer func() { os.Args = oldArgs }()
	oldExit := osExit
	exited := -1
	osExit = func(code int) { exited = code }
	defer func() { osExit = oldExit }()

	stderr := captureStderr(t, main)
	if exited != 1 {
		t.Fatalf("exit code = %d, want 1", exited)
	}
	if !strings.HasPrefix(stderr, "credsync: ") || !strings.Contains(stderr, "example.com") {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}

func TestRunMainReportsError(t *testing.T) {
	var got []string
	stderr := captureStderr(t, func() {
		code := runMain([]string{"credsync", "import"}, func(args []string) error {
			got = args
			return errors.New("no browser cookie store found")
		})
		if code != 1 {
			t.Fatalf("exit code = %d, want 1", code)
		}
	})
	if len(got) != 2 || got[1] != "import" {
		t.Fatalf("execute received %v", got)
	}
	if stderr != "credsync: no browser cookie store found\n" {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}

func TestRunMainSuccess(t *testing.T) {
	code := runMain([]string{"credsync", "status"}, func([]string) error { return nil })
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
}

// captureStderr runs fn with os.Stderr redirected and returns what it wrote.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	old := os.Stderr
	os.Stderr = w
	fn()
	os.Stderr = old
	_ = w.Close()
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	_ = r.Close()
	return buf.String()
}
