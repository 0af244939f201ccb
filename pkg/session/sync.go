package session

import (
	"errors"
	"fmt"

	"github.com/warpdl/credsync/pkg/jar"
	"github.com/warpdl/credsync/pkg/logger"
)

// Direction reports what Reconcile copied.
type Direction int

const (
	DirectionNone Direction = iota
	PrimaryToMirror
	MirrorToPrimary
)

func (d Direction) String() string {
	switch d {
	case PrimaryToMirror:
		return "primary->mirror"
	case MirrorToPrimary:
		return "mirror->primary"
	default:
		return "none"
	}
}

// Synchronizer inspects the credential pairs of both hosts and copies a
// complete pair to the host that lacks one. It does not serialize its own
// writes; Session runs Reconcile on its writer queue.
type Synchronizer struct {
	jar *jar.Jar
	cfg Config
	log logger.Logger
}

// NewSynchronizer creates a Synchronizer over j. A nil l discards logs.
func NewSynchronizer(j *jar.Jar, cfg Config, l logger.Logger) *Synchronizer {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Synchronizer{jar: j, cfg: cfg, log: l}
}

// Status reads and classifies one cookie. A store failure is logged and
// reads as StatusEmpty.
func (s *Synchronizer) Status(origin jar.Origin, name string) Status {
	rec, err := s.jar.Get(origin, name)
	if err != nil {
		s.log.Warning("read %s on %s: %v", name, origin, err)
		return Status{Kind: StatusEmpty}
	}
	return Classify(rec, s.jar.Now())
}

// Pair reads the credential pair of origin.
func (s *Synchronizer) Pair(origin jar.Origin) Pair {
	return Pair{
		MemberID: s.Status(origin, MemberIDCookie),
		PassHash: s.Status(origin, PassHashCookie),
	}
}

// Reconcile copies the credential pair from the host that has a usable pair
// to the host that does not. When both or neither host has one, nothing is
// written. Partial pairs are never merged. Both writes are attempted even if
// the first fails; their errors are joined.
func (s *Synchronizer) Reconcile() (Direction, error) {
	primary := s.Pair(s.cfg.PrimaryHost)
	mirror := s.Pair(s.cfg.MirrorHost)

	var (
		dir      Direction
		from, to jar.Origin
		donor    Pair
	)
	switch {
	case primary.Usable() && !mirror.Usable():
		dir, from, to, donor = PrimaryToMirror, s.cfg.PrimaryHost, s.cfg.MirrorHost, primary
	case mirror.Usable() && !primary.Usable():
		dir, from, to, donor = MirrorToPrimary, s.cfg.MirrorHost, s.cfg.PrimaryHost, mirror
	default:
		return DirectionNone, nil
	}

	s.log.Info("copying credential pair %s (%s -> %s)", dir, from, to)
	err := errors.Join(
		s.write(to, MemberIDCookie, donor.MemberID.Value),
		s.write(to, PassHashCookie, donor.PassHash.Value),
	)
	return dir, err
}

func (s *Synchronizer) write(origin jar.Origin, name, value string) error {
	if err := s.jar.Set(origin, name, value, jar.DefaultPath, 0); err != nil {
		s.log.Warning("write %s on %s: %v", name, origin, err)
		return fmt.Errorf("reconcile: %w", err)
	}
	return nil
}

// IsLoggedIn reports whether the primary host holds a present member id.
func (s *Synchronizer) IsLoggedIn() bool {
	return s.Status(s.cfg.PrimaryHost, MemberIDCookie).IsPresent()
}

// SameAccount reports whether both hosts hold the same present member id.
// A missing, expired or placeholder id on either host means false.
func (s *Synchronizer) SameAccount() bool {
	primary := s.Status(s.cfg.PrimaryHost, MemberIDCookie)
	mirror := s.Status(s.cfg.MirrorHost, MemberIDCookie)
	return primary.IsPresent() && mirror.IsPresent() && primary.Value == mirror.Value
}

// NeedsDeviceToken reports whether the mirror host holds a usable pair but
// no device token, in which case the caller should fetch one. A placeholder
// token counts as held.
func (s *Synchronizer) NeedsDeviceToken() bool {
	if !s.Pair(s.cfg.MirrorHost).Usable() {
		return false
	}
	return s.Status(s.cfg.MirrorHost, DeviceTokenCookie).IsMissing()
}
