package usecase

import "context"

// sourceAddressKey is a context key type for the caller's network address.
type sourceAddressKey struct{}

// WithSourceAddress attaches the caller's network address to the context.
// The HTTP layer sets it once per request so audit entries record where an
// operation came from without threading the address through every signature.
func WithSourceAddress(ctx context.Context, address string) context.Context {
	return context.WithValue(ctx, sourceAddressKey{}, address)
}

// SourceAddressFrom returns the caller's network address from the context,
// or empty string for requests that did not arrive over the network (CLI,
// background jobs).
func SourceAddressFrom(ctx context.Context) string {
	if address, ok := ctx.Value(sourceAddressKey{}).(string); ok {
		return address
	}
	return ""
}
