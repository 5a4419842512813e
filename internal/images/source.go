// Package images resolves opaque photo references to image bytes.
package images

import "context"

// Image is a fetched photo payload plus its media type.
type Image struct {
	Data []byte
	MIME string
}

// Source fetches image content for a stored photo reference.
type Source interface {
	Fetch(ctx context.Context, ref string) (Image, error)
}
