package httpx

import (
	"context"
	"net/http"
	"slices"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	requestIDKey contextKey = "requestID"
	slotKey      contextKey = "principalSlot"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Roles  []string
}

func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// PrincipalFrom returns the caller attached by Authenticate, if any.
func PrincipalFrom(r *http.Request) (Principal, bool) {
	p, ok := r.Context().Value(principalKey).(Principal)
	return p, ok
}

// UserIDFrom retrieves the user ID from the request context.
func UserIDFrom(r *http.Request) string {
	p, _ := PrincipalFrom(r)
	return p.UserID
}

// ContextWithPrincipal attaches p, and also reports it to an enclosing
// access log slot when there is one.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	if slot, ok := ctx.Value(slotKey).(*Principal); ok {
		*slot = p
	}
	return context.WithValue(ctx, principalKey, p)
}

// withPrincipalSlot lets outer middleware learn the principal set by inner
// middleware on a derived request.
func withPrincipalSlot(ctx context.Context) (context.Context, *Principal) {
	slot := &Principal{}
	return context.WithValue(ctx, slotKey, slot), slot
}

func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
