package store

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioImageStore keeps uploaded images in a MinIO bucket. Object keys mirror
// the disk layout: <category>/<timestamp><ext>.
type MinioImageStore struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

func NewMinioImageStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioImageStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	return &MinioImageStore{client: client, bucket: bucket, now: time.Now}, nil
}

func (s *MinioImageStore) Save(ctx context.Context, category, ext string, r io.Reader) (string, error) {
	key := path.Join(category, strconv.FormatInt(s.now().UnixMilli(), 10)+ext)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, r, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("minio put: %w", err)
	}
	return "/" + key, nil
}

func (s *MinioImageStore) Remove(ctx context.Context, publicPath string) error {
	key := strings.TrimPrefix(publicPath, "/")
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// Handler streams objects so the gateway can mount the same public paths it
// would with disk storage.
func (s *MinioImageStore) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		obj, err := s.client.GetObject(r.Context(), s.bucket, key, minio.GetObjectOptions{})
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer obj.Close()

		info, err := obj.Stat()
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", info.ContentType)
		io.Copy(w, obj)
	})
}
