package ports

import "context"

// Transport performs one JSON call against the SMM backend and decodes the
// answer into out (which may be nil). Non-2xx answers come back as
// *domain.APIError.
type Transport interface {
	Get(ctx context.Context, endpoint string, out any) error
	Post(ctx context.Context, endpoint string, body, out any) error
	Put(ctx context.Context, endpoint string, body, out any) error
	Patch(ctx context.Context, endpoint string, body, out any) error
	Delete(ctx context.Context, endpoint string, out any) error
}
