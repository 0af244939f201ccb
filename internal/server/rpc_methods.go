package server

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/warpdl/credsync/internal/cookies"
	"github.com/warpdl/credsync/pkg/jar"
	"github.com/warpdl/credsync/pkg/session"
)

// Custom JSON-RPC error codes for session operations.
const (
	codeUnknownHost   = jrpc2.Code(-32001)
	codeWriteFailed   = jrpc2.Code(-32002)
	codeImportFailed  = jrpc2.Code(-32003)
	codeInvalidParams = jrpc2.InvalidParams
)

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // Bearer token (required, empty disables RPC)
	Version   string
	Commit    string
	BuildType string
}

// RPCServer exposes a Session over JSON-RPC 2.0.
type RPCServer struct {
	methods   handler.Map
	bridge    jhttp.Bridge
	secret    string
	version   string
	commit    string
	buildType string
	sess      *session.Session
	importer  *cookies.Importer
	closeOnce sync.Once
}

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// HostStatus is the cookie status of one host. Only status kinds are
// reported, never values.
type HostStatus struct {
	Role        string `json:"role"`
	Origin      string `json:"origin"`
	MemberID    string `json:"memberId"`
	PassHash    string `json:"passHash"`
	DeviceToken string `json:"deviceToken"`
}

// StatusResult is the response for session.status and every mutating
// session method.
type StatusResult struct {
	LoggedIn            bool          `json:"loggedIn"`
	SameAccount         bool          `json:"sameAccount"`
	NeedsAuxiliaryToken bool          `json:"needsAuxiliaryToken"`
	Hosts               []*HostStatus `json:"hosts"`
}

// SetCookieParams carries the Set-Cookie field values of a response.
type SetCookieParams struct {
	SetCookie []string `json:"setCookie"`
}

// HostParam selects a credential host by role name ("primary", "mirror")
// or URL.
type HostParam struct {
	Host string `json:"host"`
}

// Slot is one editable cookie of cookies.load.
type Slot struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Value  string `json:"value"`
}

// EditableResult is the response for cookies.load.
type EditableResult struct {
	Origin string  `json:"origin"`
	Slots  []*Slot `json:"slots"`
}

// CommitParams is the input for cookies.commit. Values maps cookie names to
// the text to store; slots left out keep their current value.
type CommitParams struct {
	Host   string            `json:"host"`
	Values map[string]string `json:"values"`
}

// DescribeResult is the response for cookies.describe.
type DescribeResult struct {
	Origin  string            `json:"origin"`
	Cookies map[string]string `json:"cookies"`
}

// ImportParams is the input for cookies.import.
type ImportParams struct {
	Path string `json:"path"`
}

// ImportResult is the response for cookies.import.
type ImportResult struct {
	Browser string        `json:"browser"`
	Found   int           `json:"found"`
	Status  *StatusResult `json:"status"`
}

// NewRPCServer creates an RPCServer with its method table and HTTP bridge.
// importer may be nil, in which case cookies.import reads the local disk.
func NewRPCServer(cfg *RPCConfig, sess *session.Session, importer *cookies.Importer) *RPCServer {
	if importer == nil {
		importer = cookies.NewImporter(nil)
	}
	rs := &RPCServer{
		secret:    cfg.Secret,
		version:   cfg.Version,
		commit:    cfg.Commit,
		buildType: cfg.BuildType,
		sess:      sess,
		importer:  importer,
	}

	rs.methods = handler.Map{
		"system.getVersion":           handler.New(rs.systemGetVersion),
		"session.status":              handler.New(rs.sessionStatus),
		"session.reconcile":           handler.New(rs.sessionReconcile),
		"session.applyLogin":          handler.New(rs.sessionApplyLogin),
		"session.applyAuxiliaryToken": handler.New(rs.sessionApplyAuxiliaryToken),
		"session.clearAll":            handler.New(rs.sessionClearAll),
		"session.ignoreOffensive":     handler.New(rs.sessionIgnoreOffensive),
		"session.removeYay":           handler.New(rs.sessionRemoveYay),
		"cookies.load":                handler.New(rs.cookiesLoad),
		"cookies.commit":              handler.New(rs.cookiesCommit),
		"cookies.describe":            handler.New(rs.cookiesDescribe),
		"cookies.import":              handler.New(rs.cookiesImport),
	}

	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

// Methods returns the method table, for serving over other channels.
func (rs *RPCServer) Methods() handler.Map {
	return rs.methods
}

// HTTPHandler returns the authenticated HTTP bridge.
func (rs *RPCServer) HTTPHandler() http.Handler {
	return requireToken(rs.secret, rs.bridge)
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{
		Version:   rs.version,
		Commit:    rs.commit,
		BuildType: rs.buildType,
	}, nil
}

func (rs *RPCServer) sessionStatus(_ context.Context) (*StatusResult, error) {
	return rs.status(), nil
}

func (rs *RPCServer) sessionReconcile(_ context.Context) (*StatusResult, error) {
	return rs.await(rs.sess.Reconcile())
}

func (rs *RPCServer) sessionApplyLogin(_ context.Context, p *SetCookieParams) (*StatusResult, error) {
	return rs.await(rs.sess.ApplyLoginResponse(p.header()))
}

func (rs *RPCServer) sessionApplyAuxiliaryToken(_ context.Context, p *SetCookieParams) (*StatusResult, error) {
	return rs.await(rs.sess.ApplyAuxiliaryTokenResponse(p.header()))
}

func (rs *RPCServer) sessionClearAll(_ context.Context) (*StatusResult, error) {
	return rs.await(rs.sess.ClearAll())
}

func (rs *RPCServer) sessionIgnoreOffensive(_ context.Context) (*StatusResult, error) {
	return rs.await(rs.sess.IgnoreOffensiveContent())
}

func (rs *RPCServer) sessionRemoveYay(_ context.Context) (*StatusResult, error) {
	return rs.await(rs.sess.RemoveYay())
}

func (rs *RPCServer) cookiesLoad(_ context.Context, p *HostParam) (*EditableResult, error) {
	origin, err := rs.resolve(p.Host)
	if err != nil {
		return nil, err
	}
	set := rs.sess.LoadEditableSet(origin)
	res := &EditableResult{Origin: origin.String()}
	for _, slot := range set.Slots() {
		res.Slots = append(res.Slots, &Slot{
			Name:   slot.Name,
			Status: slot.Status.String(),
			Value:  slot.Pending,
		})
	}
	return res, nil
}

func (rs *RPCServer) cookiesCommit(_ context.Context, p *CommitParams) (*EditableResult, error) {
	origin, err := rs.resolve(p.Host)
	if err != nil {
		return nil, err
	}
	set := rs.sess.LoadEditableSet(origin)
	for name, value := range p.Values {
		slot := set.Slot(name)
		if slot == nil {
			return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "not an editable cookie: " + name}
		}
		slot.Pending = value
	}
	if _, err := rs.await(rs.sess.CommitEditableSet(set)); err != nil {
		return nil, err
	}
	return rs.cookiesLoad(context.Background(), p.hostParam())
}

func (rs *RPCServer) cookiesDescribe(_ context.Context, p *HostParam) (*DescribeResult, error) {
	origin, err := rs.resolve(p.Host)
	if err != nil {
		return nil, err
	}
	return &DescribeResult{Origin: origin.String(), Cookies: rs.sess.DescribeCredentials(origin)}, nil
}

func (rs *RPCServer) cookiesImport(_ context.Context, p *ImportParams) (*ImportResult, error) {
	if p.Path == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "path is required"}
	}
	recs, src, err := rs.importer.Records(p.Path, rs.sess.Config().CredentialHosts()...)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeImportFailed, Message: err.Error()}
	}
	status, err := rs.await(rs.sess.ImportRecords(recs))
	if err != nil {
		return nil, err
	}
	return &ImportResult{Browser: src.Browser, Found: len(recs), Status: status}, nil
}

// await waits for t and reports the resulting session status. Write errors
// name cookies and hosts only, so they are safe to return.
func (rs *RPCServer) await(t *session.Task) (*StatusResult, error) {
	if err := t.Wait(); err != nil {
		return nil, &jrpc2.Error{Code: codeWriteFailed, Message: err.Error()}
	}
	return rs.status(), nil
}

func (rs *RPCServer) status() *StatusResult {
	cfg := rs.sess.Config()
	syncer := rs.sess.Synchronizer()
	res := &StatusResult{
		LoggedIn:            rs.sess.IsLoggedIn(),
		SameAccount:         rs.sess.SameAccountAcrossHosts(),
		NeedsAuxiliaryToken: rs.sess.NeedsAuxiliaryToken(),
	}
	for _, role := range []session.Role{session.RolePrimary, session.RoleMirror} {
		origin := cfg.Origin(role)
		res.Hosts = append(res.Hosts, &HostStatus{
			Role:        role.String(),
			Origin:      origin.String(),
			MemberID:    syncer.Status(origin, session.MemberIDCookie).String(),
			PassHash:    syncer.Status(origin, session.PassHashCookie).String(),
			DeviceToken: syncer.Status(origin, session.DeviceTokenCookie).String(),
		})
	}
	return res
}

func (rs *RPCServer) resolve(host string) (jar.Origin, error) {
	origin, err := rs.sess.Config().ResolveHost(host)
	if err != nil {
		if errors.Is(err, session.ErrUnknownOrigin) {
			return "", &jrpc2.Error{Code: codeUnknownHost, Message: err.Error()}
		}
		return "", &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	}
	return origin, nil
}

// Close shuts down the jrpc2 bridge, releasing internal goroutines.
func (rs *RPCServer) Close() {
	rs.closeOnce.Do(func() { rs.bridge.Close() })
}

func (p *SetCookieParams) header() http.Header {
	h := http.Header{}
	for _, v := range p.SetCookie {
		h.Add("Set-Cookie", v)
	}
	return h
}

func (p *CommitParams) hostParam() *HostParam {
	return &HostParam{Host: p.Host}
}
