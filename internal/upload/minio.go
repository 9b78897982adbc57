package upload

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jessicarod7/envsh/internal/confmap"
)

// MinioProvider implements the Provider interface for MinIO/S3 storage
type MinioProvider struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinioProvider creates a new MinioProvider
func NewMinioProvider() *MinioProvider {
	return &MinioProvider{}
}

// Name returns the provider name
func (m *MinioProvider) Name() string {
	return "minio"
}

// Configure sets up the MinIO client and checks that the bucket exists.
// Required keys: endpoint, access_key, secret_key, bucket. Optional: secure,
// region, prefix.
func (m *MinioProvider) Configure(config map[string]any) error {
	rawEndpoint, ok := confmap.String(config, "endpoint")
	if !ok {
		return fmt.Errorf("minio: endpoint is required")
	}

	accessKey, ok := confmap.String(config, "access_key")
	if !ok {
		return fmt.Errorf("minio: access_key is required")
	}

	secretKey, ok := confmap.String(config, "secret_key")
	if !ok {
		return fmt.Errorf("minio: secret_key is required")
	}

	bucket, ok := confmap.String(config, "bucket")
	if !ok {
		return fmt.Errorf("minio: bucket is required")
	}

	endpoint, secure, err := parseEndpoint(rawEndpoint, confmap.Bool(config, "secure", true))
	if err != nil {
		return err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
		Region: confmap.StringOr(config, "region", "us-east-1"),
	})
	if err != nil {
		return fmt.Errorf("minio: failed to create client: %w", err)
	}

	m.client = client
	m.bucket = bucket
	m.prefix = strings.Trim(confmap.StringOr(config, "prefix", ""), "/")

	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return fmt.Errorf("minio: failed to check bucket existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("minio: bucket %s does not exist", bucket)
	}

	return nil
}

// ObjectName joins the configured prefix and remotePath
func (m *MinioProvider) ObjectName(remotePath string) string {
	remotePath = strings.TrimPrefix(remotePath, "/")
	if m.prefix == "" {
		return remotePath
	}
	return path.Join(m.prefix, remotePath)
}

// Upload uploads content from reader to MinIO
func (m *MinioProvider) Upload(ctx context.Context, reader io.Reader, remotePath string) error {
	if m.client == nil {
		return fmt.Errorf("minio: provider not configured")
	}

	objectName := m.ObjectName(remotePath)

	// -1 means unknown size, MinIO will handle streaming
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, -1, minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("minio: failed to upload to %s: %w", objectName, err)
	}

	return nil
}

// parseEndpoint strips an http:// or https:// scheme, which then decides
// TLS regardless of the secure setting
func parseEndpoint(raw string, secure bool) (string, bool, error) {
	host := raw
	switch {
	case strings.HasPrefix(raw, "https://"):
		host, secure = strings.TrimPrefix(raw, "https://"), true
	case strings.HasPrefix(raw, "http://"):
		host, secure = strings.TrimPrefix(raw, "http://"), false
	}

	host = strings.TrimSuffix(host, "/")
	if host == "" || strings.Contains(host, "/") {
		return "", false, fmt.Errorf("minio: invalid endpoint URL %q", raw)
	}

	return host, secure, nil
}
