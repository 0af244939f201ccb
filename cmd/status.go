package cmd

import (
	"fmt"
	"io"

	"github.com/urfave/cli"
	"github.com/warpdl/credsync/cmd/common"
	"github.com/warpdl/credsync/pkg/session"
)

func status(ctx *cli.Context) error {
	e, err := newEngine(newLogger(debug))
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.seed(); err != nil {
		common.FprintRuntimeErr(stderr, ctx, "status", "seed", err)
	}
	printStatus(stdout, e.sess)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// printStatus writes the derived queries followed by one table per host.
// Only status kinds are printed, never cookie values.
func printStatus(w io.Writer, sess *session.Session) {
	fmt.Fprintf(w, "Logged in:             %s\n", yesNo(sess.IsLoggedIn()))
	fmt.Fprintf(w, "Same account:          %s\n", yesNo(sess.SameAccountAcrossHosts()))
	fmt.Fprintf(w, "Needs auxiliary token: %s\n", yesNo(sess.NeedsAuxiliaryToken()))

	cfg := sess.Config()
	syncer := sess.Synchronizer()
	for _, role := range []session.Role{session.RolePrimary, session.RoleMirror} {
		origin := cfg.Origin(role)
		fmt.Fprintf(w, "\n%s (%s)\n", role, origin)
		txt := "----------------------------------\n"
		txt += fmt.Sprintf("|%s|%s|\n", common.Beaut("Cookie", 17), common.Beaut("Status", 14))
		txt += "|-----------------|--------------|\n"
		for _, name := range []string{session.MemberIDCookie, session.PassHashCookie, session.DeviceTokenCookie} {
			kind := syncer.Status(origin, name).Kind.String()
			txt += fmt.Sprintf("|%s|%s|\n", common.Beaut(name, 17), common.Beaut(kind, 14))
		}
		txt += "----------------------------------\n"
		fmt.Fprint(w, txt)
	}
}
