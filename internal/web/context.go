package web

import (
	"net/http"

	"github.com/JonMunkholm/TrainingReg/internal/core"
)

// withClient attaches the caller's address and User-Agent to the request
// context so the submission log can name them.
func withClient(r *http.Request) *http.Request {
	ctx := core.ContextWithClient(r.Context(), core.Client{
		IP:        clientIP(r), // RemoteAddr as rewritten by TrustedRealIP
		UserAgent: r.Header.Get("User-Agent"),
	})
	return r.WithContext(ctx)
}
