package session

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/warpdl/credsync/pkg/jar"
	"github.com/warpdl/credsync/pkg/logger"
)

func TestNew_Validation(t *testing.T) {
	j, _ := newTestJar(t)
	if _, err := New(nil, testConfig()); err == nil {
		t.Fatal("expected error for nil jar")
	}
	if _, err := New(j, Config{PrimaryHost: "https://a.example.com"}); err == nil {
		t.Fatal("expected error for incomplete config")
	}
	s, err := New(j, Config{
		PrimaryHost: jar.MustParseOrigin("https://a.example.com"),
		MirrorHost:  jar.MustParseOrigin("https://b.example.com"),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	if s.Config().TokenHost != s.Config().PrimaryHost {
		t.Fatalf("token host default not applied: %+v", s.Config())
	}
}

func TestApplyLoginResponse_RoutesCredentials(t *testing.T) {
	s, j, _ := newTestSession(t)
	cfg := s.Config()

	h := setCookieHeader(
		"ipb_member_id=42; path=/; domain=.e-hentai.org",
		"ipb_pass_hash=abc; path=/",
		"igneous=xyz; path=/",
	)
	mustWait(t, s.ApplyLoginResponse(h))

	for _, o := range cfg.CredentialHosts() {
		if got := rawValue(t, j, o, MemberIDCookie); got != "42" {
			t.Errorf("%s member id = %q, want 42", o, got)
		}
		if got := rawValue(t, j, o, PassHashCookie); got != "abc" {
			t.Errorf("%s pass hash = %q, want abc", o, got)
		}
	}
	if got := rawValue(t, j, cfg.MirrorHost, DeviceTokenCookie); got != "xyz" {
		t.Fatalf("mirror device token = %q, want xyz", got)
	}
	if j.Exists(cfg.PrimaryHost, DeviceTokenCookie) {
		t.Fatal("device token written to the primary host")
	}
	if !s.IsLoggedIn() || !s.SameAccountAcrossHosts() {
		t.Fatal("expected logged in on both hosts with the same account")
	}
	if s.NeedsAuxiliaryToken() {
		t.Fatal("device token was just written")
	}
}

func TestApplyLoginResponse_DeviceTokenOnly(t *testing.T) {
	s, j, _ := newTestSession(t)
	cfg := s.Config()

	mustWait(t, s.ApplyLoginResponse(setCookieHeader("igneous=xyz")))

	if j.Exists(cfg.PrimaryHost, DeviceTokenCookie) {
		t.Fatal("device token must never reach the primary host")
	}
	if got := rawValue(t, j, cfg.MirrorHost, DeviceTokenCookie); got != "xyz" {
		t.Fatalf("mirror device token = %q, want xyz", got)
	}
	rec, _ := j.Get(cfg.MirrorHost, DeviceTokenCookie)
	if want := testNow.Add(jar.DefaultTTL); !rec.Expires.Equal(want) {
		t.Fatalf("expiry = %v, want %v", rec.Expires, want)
	}
}

func TestApplyLoginResponse_NoCredentials(t *testing.T) {
	mock := logger.NewMockLogger()
	s, j, _ := newTestSession(t, WithLogger(mock))
	cfg := s.Config()

	for _, h := range []string{"", "foo=bar; path=/"} {
		var task *Task
		if h == "" {
			task = s.ApplyLoginResponse(nil)
		} else {
			task = s.ApplyLoginResponse(setCookieHeader(h))
		}
		if err := task.Wait(); err != nil {
			t.Fatalf("header %q: unexpected error: %v", h, err)
		}
	}
	if snap := snapshotStore(t, j, cfg); len(snap[cfg.PrimaryHost])+len(snap[cfg.MirrorHost]) != 0 {
		t.Fatalf("store changed: %v", snap)
	}
	warnings := mock.WarningCalls()
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}
	for _, w := range warnings {
		if !strings.Contains(w, ErrNoCredentials.Error()) {
			t.Fatalf("unexpected warning %q", w)
		}
	}
}

func TestApplyLoginResponse_WriteFailureDoesNotStopOthers(t *testing.T) {
	store := newFlakyStore(DeviceTokenCookie)
	j := jar.New(store, jar.WithClock(func() time.Time { return testNow }))
	mock := logger.NewMockLogger()
	s, err := New(j, testConfig(), WithLogger(mock))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	cfg := s.Config()

	err = s.ApplyLoginResponse(setCookieHeader("ipb_member_id=42", "ipb_pass_hash=abc", "igneous=xyz")).Wait()
	if !errors.Is(err, jar.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	for _, o := range cfg.CredentialHosts() {
		if rawValue(t, j, o, MemberIDCookie) != "42" || rawValue(t, j, o, PassHashCookie) != "abc" {
			t.Fatalf("%s: sibling writes were skipped", o)
		}
	}
	for _, w := range append(mock.WarningCalls(), mock.ErrorCalls()...) {
		if strings.Contains(w, "xyz") || strings.Contains(w, "abc") {
			t.Fatalf("cookie value leaked into log: %q", w)
		}
	}
}

func TestApplyAuxiliaryTokenResponse(t *testing.T) {
	s, j, _ := newTestSession(t)
	cfg := s.Config()

	mustWait(t, s.ApplyAuxiliaryTokenResponse(setCookieHeader("skipserver=tok; path=/s/", "ipb_member_id=1")))

	rec, err := j.Get(cfg.TokenHost, SkipServerCookie)
	if err != nil || rec == nil {
		t.Fatalf("skipserver not written: %v", err)
	}
	if rec.Value != "tok" || rec.Path != "/s/" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if j.Exists(cfg.PrimaryHost, MemberIDCookie) {
		t.Fatal("auxiliary response must only write the token")
	}
	if j.Exists(cfg.MirrorHost, SkipServerCookie) {
		t.Fatal("skipserver written to the mirror host")
	}
}

func TestLoadEditableSet(t *testing.T) {
	s, j, _ := newTestSession(t)
	cfg := s.Config()
	mustSet(t, j, cfg.MirrorHost, MemberIDCookie, "42")
	mustSet(t, j, cfg.MirrorHost, DeviceTokenCookie, PlaceholderValue)

	set := s.LoadEditableSet(cfg.MirrorHost)
	if set.Origin != cfg.MirrorHost {
		t.Fatalf("origin = %q", set.Origin)
	}
	if set.MemberID.Status.Kind != StatusPresent || set.MemberID.Pending != "42" {
		t.Fatalf("member id slot = %+v", set.MemberID)
	}
	if set.DeviceToken.Status.Kind != StatusPlaceholder || set.DeviceToken.Pending != PlaceholderValue {
		t.Fatalf("device token slot = %+v", set.DeviceToken)
	}
	if set.PassHash.Status.Kind != StatusEmpty || set.PassHash.Pending != "" {
		t.Fatalf("pass hash slot = %+v", set.PassHash)
	}
	if slots := set.Slots(); len(slots) != 3 || slots[0].Name != DeviceTokenCookie {
		t.Fatalf("unexpected slots %+v", slots)
	}
}

func TestCommitEditableSet(t *testing.T) {
	s, j, _ := newTestSession(t)
	cfg := s.Config()

	expires := testNow.Add(48 * time.Hour)
	if err := j.Import(jar.Record{Origin: cfg.MirrorHost, Name: MemberIDCookie, Value: "42", Path: "/x", Expires: expires}); err != nil {
		t.Fatalf("Import: %v", err)
	}

	set := s.LoadEditableSet(cfg.MirrorHost)
	set.MemberID.Pending = "43"
	set.PassHash.Pending = "hash"
	set.DeviceToken.Pending = "tok"
	mustWait(t, s.CommitEditableSet(set))

	rec, _ := j.Get(cfg.MirrorHost, MemberIDCookie)
	if rec.Value != "43" || rec.Path != "/x" || !rec.Expires.Equal(expires) {
		t.Fatalf("edit should keep attributes, got %+v", rec)
	}
	rec, _ = j.Get(cfg.MirrorHost, PassHashCookie)
	if rec.Value != "hash" || rec.Path != "/" || !rec.Expires.Equal(testNow.Add(jar.DefaultTTL)) {
		t.Fatalf("created cookie has unexpected attributes: %+v", rec)
	}
	if got := rawValue(t, j, cfg.MirrorHost, DeviceTokenCookie); got != "tok" {
		t.Fatalf("device token = %q", got)
	}
	if j.Exists(cfg.PrimaryHost, MemberIDCookie) {
		t.Fatal("commit touched another origin")
	}

	if err := s.CommitEditableSet(EditableSet{}).Wait(); !errors.Is(err, jar.ErrInvalidCookie) {
		t.Fatalf("expected ErrInvalidCookie for empty origin, got %v", err)
	}
}

func TestDescribeCredentials(t *testing.T) {
	s, j, _ := newTestSession(t)
	cfg := s.Config()
	mustSet(t, j, cfg.PrimaryHost, MemberIDCookie, "42")
	mustSet(t, j, cfg.PrimaryHost, PassHashCookie, PlaceholderValue)
	_ = j.Import(jar.Record{Origin: cfg.PrimaryHost, Name: DeviceTokenCookie, Value: "old", Expires: testNow.Add(-time.Hour)})

	got := s.DescribeCredentials(cfg.PrimaryHost)
	want := map[string]string{MemberIDCookie: "42", PassHashCookie: PlaceholderValue}
	if len(got) != len(want) {
		t.Fatalf("Describe = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("Describe[%s] = %q, want %q", k, got[k], v)
		}
	}
	if len(s.DescribeCredentials(cfg.MirrorHost)) != 0 {
		t.Fatal("empty origin should describe nothing")
	}
}

func TestClearAll(t *testing.T) {
	s, j, _ := newTestSession(t)
	cfg := s.Config()
	for _, o := range cfg.CredentialHosts() {
		for _, name := range editableNames {
			mustSet(t, j, o, name, "v")
		}
	}
	mustWait(t, s.ClearAll())

	for _, o := range cfg.CredentialHosts() {
		for _, name := range editableNames {
			if st := s.Synchronizer().Status(o, name); st.Kind != StatusEmpty {
				t.Fatalf("%s/%s = %v after ClearAll", o, name, st)
			}
		}
	}
	if s.IsLoggedIn() || s.SameAccountAcrossHosts() {
		t.Fatal("still logged in after ClearAll")
	}
}

func TestIgnoreOffensiveContent(t *testing.T) {
	s, j, _ := newTestSession(t)
	cfg := s.Config()
	expires := testNow.Add(time.Hour)
	_ = j.Import(jar.Record{Origin: cfg.MirrorHost, Name: IgnoreOffensiveCookie, Value: "0", Expires: expires})

	mustWait(t, s.IgnoreOffensiveContent())

	for _, o := range cfg.CredentialHosts() {
		if got := rawValue(t, j, o, IgnoreOffensiveCookie); got != "1" {
			t.Fatalf("%s: nw = %q, want 1", o, got)
		}
	}
	rec, _ := j.Get(cfg.MirrorHost, IgnoreOffensiveCookie)
	if !rec.Expires.Equal(expires) {
		t.Fatalf("existing flag should be edited in place, got %+v", rec)
	}
}

func TestRemoveYay(t *testing.T) {
	s, j, _ := newTestSession(t)
	cfg := s.Config()
	mustSet(t, j, cfg.MirrorHost, YayCookie, "louder")
	mustSet(t, j, cfg.PrimaryHost, YayCookie, "louder")

	mustWait(t, s.RemoveYay())

	if j.Exists(cfg.MirrorHost, YayCookie) {
		t.Fatal("yay still present on mirror")
	}
	if !j.Exists(cfg.PrimaryHost, YayCookie) {
		t.Fatal("yay removed from primary")
	}
	mustWait(t, s.RemoveYay())
}

func TestImportRecords(t *testing.T) {
	s, j, _ := newTestSession(t)
	cfg := s.Config()
	other := jar.MustParseOrigin("https://example.com")

	recs := []jar.Record{
		{Origin: cfg.PrimaryHost, Name: MemberIDCookie, Value: "42"},
		{Origin: cfg.PrimaryHost, Name: PassHashCookie, Value: "abc", Expires: testNow.Add(time.Hour)},
		{Origin: cfg.PrimaryHost, Name: "sk", Value: "ignored"},
		{Origin: other, Name: MemberIDCookie, Value: "7"},
	}
	mustWait(t, s.ImportRecords(recs))

	if j.Exists(cfg.PrimaryHost, "sk") || j.Exists(other, MemberIDCookie) {
		t.Fatal("non-credential cookies were imported")
	}
	if got := rawValue(t, j, cfg.MirrorHost, MemberIDCookie); got != "42" {
		t.Fatalf("import did not reconcile, mirror member id = %q", got)
	}
	rec, _ := j.Get(cfg.PrimaryHost, PassHashCookie)
	if !rec.Expires.Equal(testNow.Add(time.Hour)) {
		t.Fatalf("imported expiry not kept: %+v", rec)
	}
	if !s.SameAccountAcrossHosts() {
		t.Fatal("expected same account after import")
	}
}

func TestChangeHook(t *testing.T) {
	var (
		mu  sync.Mutex
		ops []string
	)
	s, _, _ := newTestSession(t, WithChangeHook(func(op string, err error) {
		mu.Lock()
		ops = append(ops, op)
		mu.Unlock()
	}))

	s.Reconcile()
	s.ClearAll()
	s.Flush()

	mu.Lock()
	defer mu.Unlock()
	if len(ops) != 2 || ops[0] != "reconcile" || ops[1] != "clear-all" {
		t.Fatalf("unexpected hook calls: %v", ops)
	}
}

func TestSession_ConcurrentMutations(t *testing.T) {
	s, j, _ := newTestSession(t)
	cfg := s.Config()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.ApplyLoginResponse(setCookieHeader("ipb_member_id=42", "ipb_pass_hash=abc"))
			} else {
				s.Reconcile()
			}
		}(i)
	}
	wg.Wait()
	s.Flush()

	for _, o := range cfg.CredentialHosts() {
		if rawValue(t, j, o, MemberIDCookie) != "42" || rawValue(t, j, o, PassHashCookie) != "abc" {
			t.Fatalf("%s: inconsistent pair after concurrent writes", o)
		}
	}
}

func TestSession_RewriteNeverReadsAsLoggedOut(t *testing.T) {
	s, j, _ := newTestSession(t)
	mustSet(t, j, s.Config().PrimaryHost, MemberIDCookie, "u1")

	const rewrites = 2000
	done := make(chan struct{})
	go func() {
		defer close(done)
		var last *Task
		for i := 0; i < rewrites; i++ {
			last = s.ApplyLoginResponse(setCookieHeader("ipb_member_id=u1; Path=/"))
		}
		_ = last.Wait()
	}()

	reads, loggedOut := 0, 0
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		reads++
		if !s.IsLoggedIn() {
			loggedOut++
		}
	}
	if loggedOut != 0 {
		t.Fatalf("IsLoggedIn() was false in %d of %d reads while u1 was rewritten", loggedOut, reads)
	}
}

func TestSession_ClosedRejects(t *testing.T) {
	j, _ := newTestJar(t)
	s, err := New(j, testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Reconcile().Wait(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestSession_BrokenStoreQueries(t *testing.T) {
	j := jar.New(brokenStore{})
	s, err := New(j, testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	if s.IsLoggedIn() || s.SameAccountAcrossHosts() {
		t.Fatal("broken store must read as logged out")
	}
	if len(s.DescribeCredentials(s.Config().PrimaryHost)) != 0 {
		t.Fatal("broken store must describe nothing")
	}
	if err := s.ClearAll().Wait(); !errors.Is(err, jar.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
