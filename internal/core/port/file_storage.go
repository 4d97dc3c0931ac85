package port

import (
	"context"
	"io"
)

// FileStorage persists uploaded identity documents and returns an opaque
// object key. The platform never inspects the file bytes beyond size and
// declared content type.
type FileStorage interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
	ObjectURL(ctx context.Context, key string) (string, error)
}
