package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/creachadair/jrpc2"
)

// requireToken wraps next with Bearer token authentication. Failures get a
// JSON-RPC 2.0 error body with HTTP 401 so RPC clients can parse them.
//
// An empty secret rejects everything: the bridge must be enabled explicitly.
func requireToken(secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !validToken(secret, r.Header.Get("Authorization")) {
			writeRPCError(w, http.StatusUnauthorized, jrpc2.InvalidRequest, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// validToken compares the Bearer token in authHeader against secret in
// constant time.
func validToken(secret, authHeader string) bool {
	if secret == "" {
		return false
	}
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}

// writeRPCError writes a JSON-RPC error response that carries no request id.
func writeRPCError(w http.ResponseWriter, status int, code jrpc2.Code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"error": map[string]any{
			"code":    int32(code),
			"message": message,
		},
		"id": nil,
	})
}
