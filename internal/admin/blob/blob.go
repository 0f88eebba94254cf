// Package blob abstracts the object storage service holding store-branded
// QR images.
package blob

import "context"

// Storage is the upload contract. Uploads overwrite by key, so the latest
// upload for a key is always the one a PublicURL resolves to.
type Storage interface {
	// Upload stores data under key with the given content type,
	// overwriting any previous object.
	Upload(ctx context.Context, key, contentType string, data []byte) error

	// PublicURL derives the public URL for a key. It does not check that
	// the object exists.
	PublicURL(key string) string
}
