package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/warpdl/credsync/internal/cookies"
	"github.com/warpdl/credsync/pkg/jar"
	"github.com/warpdl/credsync/pkg/session"
)

const testSecret = "test-rpc-secret"

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

type rpcFixture struct {
	rs       *RPCServer
	sess     *session.Session
	jar      *jar.Jar
	fs       afero.Fs
	notifier *RPCNotifier
}

func newRPCFixture(t *testing.T, opts ...session.Option) *rpcFixture {
	t.Helper()
	f := &rpcFixture{fs: afero.NewMemMapFs()}
	f.jar = jar.New(jar.NewMemoryStore(), jar.WithClock(testClock))
	f.notifier = NewRPCNotifier(nil)
	opts = append([]session.Option{session.WithChangeHook(f.notifier.OnSessionChange)}, opts...)
	sess, err := session.New(f.jar, session.DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	f.sess = sess
	f.rs = NewRPCServer(&RPCConfig{
		Secret:  testSecret,
		Version: "1.0.0",
		Commit:  "abc123",
	}, sess, cookies.NewImporter(f.fs, cookies.WithClock(testClock)))
	t.Cleanup(func() {
		f.rs.Close()
		f.notifier.Close()
		_ = sess.Close()
	})
	return f
}

// rpcCall sends a JSON-RPC request to handler and returns the parsed response.
func rpcCall(t *testing.T, handler http.Handler, method string, params any, authToken string) (int, map[string]any) {
	t.Helper()
	reqBody := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"id":      1,
	}
	if params != nil {
		reqBody["params"] = params
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/jsonrpc", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	resp := rr.Result()
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	var result map[string]any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			t.Fatalf("unmarshal response: %v (body: %s)", err, string(body))
		}
	}
	return rr.Code, result
}

// mustResult returns the result object of a successful call.
func mustResult(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("expected result object, got %v (error: %v)", resp["result"], resp["error"])
	}
	return result
}

// errorCode returns the error code of a failed call.
func errorCode(t *testing.T, resp map[string]any) int {
	t.Helper()
	errObj, ok := resp["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object, got %v", resp)
	}
	return int(errObj["code"].(float64))
}
