package session

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/warpdl/credsync/pkg/jar"
	"github.com/warpdl/credsync/pkg/logger"
)

// Session is the surface the rest of an application talks to. Queries read
// the jar directly; every mutating operation is queued on a single writer
// and returns a Task immediately.
type Session struct {
	jar      *jar.Jar
	cfg      Config
	sync     *Synchronizer
	queue    *writeQueue
	log      logger.Logger
	onChange func(op string, err error)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithChangeHook registers fn to be called on the writer goroutine after
// every mutating task has run. fn must not block on the Session.
func WithChangeHook(fn func(op string, err error)) Option {
	return func(s *Session) {
		s.onChange = fn
	}
}

// New creates a Session over j. cfg is validated and completed with
// defaults. Close must be called to stop the writer goroutine.
func New(j *jar.Jar, cfg Config, opts ...Option) (*Session, error) {
	if j == nil {
		return nil, fmt.Errorf("session: nil jar")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		jar: j,
		cfg: cfg,
		log: logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sync = NewSynchronizer(j, cfg, s.log)
	s.queue = newWriteQueue(s.log, s.afterTask)
	return s, nil
}

// Config returns the configuration in use.
func (s *Session) Config() Config {
	return s.cfg
}

// Synchronizer exposes the underlying synchronizer for read-only queries.
func (s *Session) Synchronizer() *Synchronizer {
	return s.sync
}

// IsLoggedIn reports whether the primary host holds a present member id.
func (s *Session) IsLoggedIn() bool {
	return s.sync.IsLoggedIn()
}

// SameAccountAcrossHosts reports whether both hosts carry the same member id.
func (s *Session) SameAccountAcrossHosts() bool {
	return s.sync.SameAccount()
}

// NeedsAuxiliaryToken reports whether the mirror host still needs its device
// token. The caller is expected to perform the request that obtains it.
func (s *Session) NeedsAuxiliaryToken() bool {
	return s.sync.NeedsDeviceToken()
}

// Reconcile queues a one-way copy of a complete credential pair.
func (s *Session) Reconcile() *Task {
	return s.queue.submit("reconcile", func() error {
		_, err := s.sync.Reconcile()
		return err
	})
}

// ApplyLoginResponse queues the writes for the credential cookies found in
// the Set-Cookie header of a login response, routed by LoginRoutes.
func (s *Session) ApplyLoginResponse(h http.Header) *Task {
	header := JoinSetCookie(h)
	return s.queue.submit("apply-login", func() error {
		return s.applyRoutes(LoginRoutes, header)
	})
}

// ApplyAuxiliaryTokenResponse queues the write of the skipserver token found
// in the Set-Cookie header of h, routed by AuxiliaryRoutes.
func (s *Session) ApplyAuxiliaryTokenResponse(h http.Header) *Task {
	header := JoinSetCookie(h)
	return s.queue.submit("apply-auxiliary-token", func() error {
		return s.applyRoutes(AuxiliaryRoutes, header)
	})
}

// applyRoutes writes every cookie of routes found in header to each role the
// table allows. A failed write does not stop the others.
func (s *Session) applyRoutes(routes Routes, header string) error {
	var (
		errs    []error
		matched int
	)
	for name, value := range ParseSetCookie(header, routes.Names()...) {
		matched++
		route, _ := routes.Lookup(name)
		for _, role := range route.Roles {
			origin := s.cfg.Origin(role)
			if err := s.jar.Set(origin, name, value, s.cfg.Path(role), 0); err != nil {
				s.log.Warning("write %s on %s (%s): %v", name, origin, role, err)
				errs = append(errs, err)
			}
		}
	}
	if matched == 0 {
		s.log.Warning("%v", ErrNoCredentials)
		return nil
	}
	return errors.Join(errs...)
}

// LoadEditableSet reads the three editable cookies of origin. Pending text
// starts out as the current raw value.
func (s *Session) LoadEditableSet(origin jar.Origin) EditableSet {
	return EditableSet{
		Origin:      origin,
		DeviceToken: newEditableSlot(DeviceTokenCookie, s.sync.Status(origin, DeviceTokenCookie)),
		MemberID:    newEditableSlot(MemberIDCookie, s.sync.Status(origin, MemberIDCookie)),
		PassHash:    newEditableSlot(PassHashCookie, s.sync.Status(origin, PassHashCookie)),
	}
}

// CommitEditableSet queues the pending text of every slot: existing cookies
// get their value overwritten in place, missing ones are created with the
// default TTL.
func (s *Session) CommitEditableSet(set EditableSet) *Task {
	return s.queue.submit("commit-editable", func() error {
		if set.Origin == "" {
			return fmt.Errorf("commit: %w", jar.ErrInvalidCookie)
		}
		var errs []error
		for _, slot := range set.Slots() {
			if err := s.jar.SetOrEdit(set.Origin, slot.Name, slot.Pending); err != nil {
				s.log.Warning("commit %s on %s: %v", slot.Name, set.Origin, err)
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// DescribeCredentials maps each editable cookie name of origin to its raw
// value, leaving out empty and expired cookies. Diagnostics only.
func (s *Session) DescribeCredentials(origin jar.Origin) map[string]string {
	out := make(map[string]string, len(editableNames))
	for _, name := range editableNames {
		if raw := s.sync.Status(origin, name).Raw(); raw != "" {
			out[name] = raw
		}
	}
	return out
}

// ClearAll queues the deletion of every cookie in the jar.
func (s *Session) ClearAll() *Task {
	return s.queue.submit("clear-all", s.jar.ClearAll)
}

// IgnoreOffensiveContent queues setting the content-warning flag to "1" on
// both hosts. Each host is written independently.
func (s *Session) IgnoreOffensiveContent() *Task {
	return s.queue.submit("ignore-offensive", func() error {
		var errs []error
		for _, origin := range s.cfg.CredentialHosts() {
			if err := s.jar.SetOrEdit(origin, IgnoreOffensiveCookie, "1"); err != nil {
				s.log.Warning("write %s on %s: %v", IgnoreOffensiveCookie, origin, err)
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// RemoveYay queues the removal of the mirror host's yay cookie.
func (s *Session) RemoveYay() *Task {
	return s.queue.submit("remove-yay", func() error {
		return s.jar.Delete(s.cfg.MirrorHost, YayCookie)
	})
}

// ImportRecords queues writing cookies obtained elsewhere (e.g. a browser
// cookie store) and then reconciles. Only the editable credential cookies of
// the primary and mirror hosts are taken; everything else is skipped.
func (s *Session) ImportRecords(recs []jar.Record) *Task {
	recs = append([]jar.Record(nil), recs...)
	return s.queue.submit("import", func() error {
		var (
			errs     []error
			imported int
		)
		for _, rec := range recs {
			if !s.cfg.isCredentialHost(rec.Origin) || !isEditableName(rec.Name) {
				continue
			}
			if err := s.jar.Import(rec); err != nil {
				s.log.Warning("import %s on %s: %v", rec.Name, rec.Origin, err)
				errs = append(errs, err)
				continue
			}
			imported++
		}
		s.log.Info("imported %d of %d cookies", imported, len(recs))
		if _, err := s.sync.Reconcile(); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})
}

// Flush blocks until every task queued before the call has run.
func (s *Session) Flush() {
	s.queue.flush()
}

// Close runs the queued tasks and stops the writer. Tasks submitted later
// fail with ErrClosed.
func (s *Session) Close() error {
	s.queue.close()
	return nil
}

func (s *Session) afterTask(t *Task) {
	if t.err != nil {
		s.log.Warning("%s finished with errors: %v", t.op, t.err)
	}
	if s.onChange != nil && t.op != "flush" {
		s.onChange(t.op, t.err)
	}
}

func isEditableName(name string) bool {
	for _, n := range editableNames {
		if n == name {
			return true
		}
	}
	return false
}
