package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/courseimport/internal/core"
)

// withClient records the caller's IP and User-Agent on the upload row.
// RemoteAddr has already been rewritten by TrustedRealIP.
func withClient(r *http.Request) context.Context {
	return core.ContextWithClient(r.Context(), clientIP(r), r.UserAgent())
}
