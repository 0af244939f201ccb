package session

import (
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/warpdl/credsync/pkg/jar"
	"github.com/warpdl/credsync/pkg/logger"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	cfg := DefaultConfig()
	return cfg
}

func newTestJar(t *testing.T) (*jar.Jar, *jar.MemoryStore) {
	t.Helper()
	store := jar.NewMemoryStore()
	return jar.New(store, jar.WithClock(func() time.Time { return testNow })), store
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *jar.Jar, *jar.MemoryStore) {
	t.Helper()
	j, store := newTestJar(t)
	s, err := New(j, testConfig(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, j, store
}

func mustSet(t *testing.T, j *jar.Jar, origin jar.Origin, name, value string) {
	t.Helper()
	if err := j.Set(origin, name, value, "/", 0); err != nil {
		t.Fatalf("Set %s: %v", name, err)
	}
}

func mustWait(t *testing.T, task *Task) {
	t.Helper()
	if err := task.Wait(); err != nil {
		t.Fatalf("%s: unexpected error: %v", task.Op(), err)
	}
}

func setCookieHeader(values ...string) http.Header {
	h := http.Header{}
	for _, v := range values {
		h.Add("Set-Cookie", v)
	}
	return h
}

func rawValue(t *testing.T, j *jar.Jar, origin jar.Origin, name string) string {
	t.Helper()
	rec, err := j.Get(origin, name)
	if err != nil {
		t.Fatalf("Get %s: %v", name, err)
	}
	if rec == nil {
		return ""
	}
	return rec.Value
}

// snapshotStore returns every record of the credential hosts.
func snapshotStore(t *testing.T, j *jar.Jar, cfg Config) map[jar.Origin][]jar.Record {
	t.Helper()
	out := make(map[jar.Origin][]jar.Record)
	for _, o := range []jar.Origin{cfg.PrimaryHost, cfg.MirrorHost, cfg.TokenHost} {
		recs, err := j.Cookies(o)
		if err != nil {
			t.Fatalf("Cookies: %v", err)
		}
		out[o] = recs
	}
	return out
}

// flakyStore wraps a MemoryStore and fails inserts of the names in failOn.
type flakyStore struct {
	*jar.MemoryStore
	mu     sync.Mutex
	failOn map[string]bool
}

func newFlakyStore(names ...string) *flakyStore {
	f := &flakyStore{MemoryStore: jar.NewMemoryStore(), failOn: make(map[string]bool)}
	for _, n := range names {
		f.failOn[n] = true
	}
	return f
}

func (f *flakyStore) Insert(rec jar.Record) error {
	f.mu.Lock()
	fail := f.failOn[rec.Name]
	f.mu.Unlock()
	if fail {
		return errors.New("insert rejected")
	}
	return f.MemoryStore.Insert(rec)
}

// brokenStore fails every call.
type brokenStore struct{}

func (brokenStore) Lookup(jar.Origin, string) (*jar.Record, error) {
	return nil, jar.ErrStoreUnavailable
}
func (brokenStore) Insert(jar.Record) error                    { return jar.ErrStoreUnavailable }
func (brokenStore) Remove(jar.Origin, string) error            { return jar.ErrStoreUnavailable }
func (brokenStore) Records(jar.Origin) ([]jar.Record, error)   { return nil, jar.ErrStoreUnavailable }
func (brokenStore) Purge() error                               { return jar.ErrStoreUnavailable }

var _ logger.Logger = (*logger.MockLogger)(nil)
