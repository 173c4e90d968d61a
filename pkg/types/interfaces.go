package types

import (
	"context"
	"io"
	"time"
)

// Backend defines the interface for object storage backends. The filesystem
// core consumes the store exclusively through this interface; it never sees
// store-native error types, which the backend translates before returning.
type Backend interface {
	// PutObject writes body as a single object at key. A nil args uses the
	// backend's defaults.
	PutObject(ctx context.Context, key string, body io.Reader, args *UploadArgs) error

	// GetObject opens a read stream over an object, optionally restricted
	// to a byte range.
	GetObject(ctx context.Context, key string, rng *Range, args *DownloadArgs) (io.ReadCloser, error)

	// Download fetches the whole object into w and returns the byte count.
	Download(ctx context.Context, key string, w io.WriterAt, args *DownloadArgs) (int64, error)

	// HeadObject fetches object metadata without the body.
	HeadObject(ctx context.Context, key string) (*ObjectInfo, error)

	// DeleteObject removes an object. Deleting a missing key is not an error.
	DeleteObject(ctx context.Context, key string) error

	// ListObjects performs one paged prefix-list query.
	ListObjects(ctx context.Context, query *ListQuery) (*ListPage, error)

	// CopyObject performs a server-side copy between two keys.
	CopyObject(ctx context.Context, srcKey, dstKey string, args *UploadArgs) error

	// PresignGetObject produces a time-limited signed download URL for key.
	PresignGetObject(ctx context.Context, key string, expires time.Duration) (string, error)
}
