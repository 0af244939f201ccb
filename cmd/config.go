package cmd

import "time"

// DEF_SHUTDOWN_TIMEOUT bounds how long serve waits for open RPC calls.
const DEF_SHUTDOWN_TIMEOUT = 5 * time.Second

const DESCRIPTION = `
credsync keeps a browser session signed in on both the plain gallery host
and its privileged mirror. It reads the member id, pass hash and device
token cookies, copies a complete pair to the host that lacks one, and
exposes the session to other programs over JSON-RPC.
`

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`

const (
	StatusDescription = `The status command classifies the credential cookies of
both hosts and reports whether the session is usable. The
jar is volatile, so seed it from a browser cookie store.

Example:
        credsync status --cookies ~/.mozilla/firefox/x.default/cookies.sqlite

`
	DescribeDescription = `The describe command prints the raw credential cookie
values held for one host. The host is "primary", "mirror"
or a URL on either of them.

Example:
        credsync describe mirror --cookies cookies.txt

`
	ImportDescription = `The import command reads a Firefox, Chrome or Netscape
cookie store, keeps the credential cookies of both hosts,
reconciles them and reports the resulting status. Without
a file it uses the first browser store found, trying
Firefox, LibreWolf, Chrome, Chromium, Edge and Brave.

Example:
        credsync import ~/.config/google-chrome/Default/Cookies
                    OR
        credsync import

`
	ServeDescription = `The serve command runs the JSON-RPC bridge. Clients post
requests to /jsonrpc or connect to /jsonrpc/ws for push
notifications, sending the secret as a bearer token. The
secret is kept in the system keyring unless --secret or
CREDSYNC_RPC_SECRET is given.

Example:
        credsync serve --addr 127.0.0.1:6800

`
)
