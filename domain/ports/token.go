package ports

import "context"

// TokenSource supplies the session's bearer credential. The identity
// provider itself is out of scope; this is only the seam the gateway client
// and the notification stream attach through.
type TokenSource interface {
	// Token คืน bearer token ที่ยังใช้ได้ (login ใหม่ถ้าหมดอายุ)
	Token(ctx context.Context) (string, error)
	// Invalidate drops the cached token; called after a 401.
	Invalidate()
	// Authenticated reports whether a usable session exists right now,
	// without performing network I/O. Gates the notification stream.
	Authenticated() bool
}
