package store

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/devika/wellnest/backend/internal/config"
)

// ImageStore is the sink for uploaded content images. Public paths look like
// /bodycare/1712345678901.png regardless of backend.
type ImageStore interface {
	// Save writes the upload under the given category directory, named by
	// timestamp plus the original extension, and returns the public path.
	Save(ctx context.Context, category, ext string, r io.Reader) (string, error)
	// Remove deletes the file behind a public path.
	Remove(ctx context.Context, publicPath string) error
	// Handler serves stored images for the gateway's static mounts.
	Handler() http.Handler
}

// NewImageStore picks the MinIO backend when an endpoint is configured and
// local disk otherwise.
func NewImageStore(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	if cfg.MinioEndpoint != "" {
		s, err := NewMinioImageStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return nil, fmt.Errorf("minio image store: %w", err)
		}
		return s, nil
	}
	s, err := NewDiskImageStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("disk image store: %w", err)
	}
	return s, nil
}
