package cmd

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/afero"
)

var testBuild = BuildArgs{
	Version:   "v1.0.0",
	BuildType: "test",
	Date:      "2026-01-01",
	Commit:    "abc123",
}

// runCLI executes args with stdout and stderr captured.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &out, &errOut
	defer func() { stdout, stderr = oldOut, oldErr }()

	err := Execute(append([]string{"credsync"}, args...), testBuild)
	return out.String(), errOut.String(), err
}

// withCookieFs points the importer at an in-memory filesystem holding files.
func withCookieFs(t *testing.T, files map[string]string) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		if err := afero.WriteFile(fs, name, []byte(content), 0o600); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
	}
	old := cookieFs
	cookieFs = fs
	t.Cleanup(func() { cookieFs = old })
}

// netscapeJar is a cookies.txt export holding a full pair for the primary
// host and an unrelated cookie.
func netscapeJar() string {
	exp := time.Now().Add(24 * time.Hour).Unix()
	return fmt.Sprintf("# Netscape HTTP Cookie File\n"+
		".e-hentai.org\tTRUE\t/\tFALSE\t%d\tipb_member_id\t4242\n"+
		".e-hentai.org\tTRUE\t/\tFALSE\t%d\tipb_pass_hash\t0123abcd\n"+
		".example.com\tTRUE\t/\tFALSE\t%d\tsid\tzzz\n", exp, exp, exp)
}
