package docmap

import "context"

// Permission names a capability a caller may hold.
type Permission string

// PermissionSet is the set of capabilities resolved for a caller.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set from the given permissions.
func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether the set contains p.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// HasAll reports whether the set contains every permission in perms.
func (s PermissionSet) HasAll(perms []Permission) bool {
	for _, p := range perms {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

type permsCtxKey struct{}

// ContextWithPermissions attaches the caller's permission set to ctx.
// Guarded field access resolves its permissions from the call context.
func ContextWithPermissions(ctx context.Context, perms ...Permission) context.Context {
	return context.WithValue(ctx, permsCtxKey{}, NewPermissionSet(perms...))
}

// PermissionsFromContext extracts the permission set from the context.
// Returns an empty set if none is attached.
func PermissionsFromContext(ctx context.Context) PermissionSet {
	if s, ok := ctx.Value(permsCtxKey{}).(PermissionSet); ok {
		return s
	}
	return PermissionSet{}
}

// GuardOp identifies the intercepted access a guard entry applies to.
type GuardOp string

const (
	// GuardGet guards field reads.
	GuardGet GuardOp = "get"
	// GuardSet guards field writes.
	GuardSet GuardOp = "set"
)

// Guard restricts access to a write-only field. A nil Guard leaves the
// field open. A non-nil Guard closes reads: an entry for GuardGet reopens
// them to callers holding all of its permissions, no entry keeps them
// closed for everyone. Writes stay open unless a GuardSet entry demands
// permissions.
type Guard map[GuardOp][]Permission

// WriteOnly returns a guard that hides the field from every reader.
func WriteOnly() Guard { return Guard{} }

// ReadableBy returns a guard that hides the field from readers missing
// any of perms.
func ReadableBy(perms ...Permission) Guard { return Guard{GuardGet: perms} }

// allows reports whether perms satisfies the guard for op.
func (g Guard) allows(op GuardOp, perms PermissionSet) bool {
	if g == nil {
		return true
	}
	required, ok := g[op]
	if !ok {
		return op != GuardGet
	}
	return perms.HasAll(required)
}
