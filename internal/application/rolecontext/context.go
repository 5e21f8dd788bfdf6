package rolecontext

import "context"

type ctxKey struct{}

// WithRoleContext returns a copy of ctx carrying rc.
func WithRoleContext(ctx context.Context, rc *RoleContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// FromContext returns the RoleContext carried by ctx, or ErrMissingProvider.
func FromContext(ctx context.Context) (*RoleContext, error) {
	rc, ok := ctx.Value(ctxKey{}).(*RoleContext)
	if !ok || rc == nil {
		return nil, ErrMissingProvider
	}
	return rc, nil
}

// MustFromContext is FromContext for wiring that cannot proceed without a provider.
func MustFromContext(ctx context.Context) *RoleContext {
	rc, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return rc
}
