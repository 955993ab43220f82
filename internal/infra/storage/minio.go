// Package storage archives uploaded SOW documents in a MinIO (S3 compatible) bucket.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Options is the connection config of the archive bucket.
type Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// PresignTTL > 0 returns presigned links instead of plain object URLs.
	PresignTTL time.Duration
}

// documentTypes covers the formats the converter accepts; mime tables on
// slim images often lack the office types.
var documentTypes = map[string]string{
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".pdf":  "application/pdf",
	".html": "text/html; charset=utf-8",
	".htm":  "text/html; charset=utf-8",
	".txt":  "text/plain; charset=utf-8",
}

type Store struct {
	client *minio.Client
	opts   Options
}

// New buat koneksi MinIO, bucket dibuat kalau belum ada
func New(ctx context.Context, opts Options) (*Store, error) {
	cli, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{Region: opts.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", opts.Bucket, err)
		}
	}

	return &Store{client: cli, opts: opts}, nil
}

// ContentType picks the stored type for a document key. A specific type
// passed by the caller wins.
func ContentType(key, given string) string {
	if given != "" && given != "application/octet-stream" {
		return given
	}
	if ct, ok := documentTypes[strings.ToLower(path.Ext(key))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Upload implementasi DocumentStore, simpan dokumen asli yang di-scan
func (s *Store) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.opts.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:        ContentType(key, contentType),
		ContentDisposition: fmt.Sprintf("inline; filename=%q", path.Base(key)),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.link(ctx, key)
}

func (s *Store) link(ctx context.Context, key string) (string, error) {
	if s.opts.PresignTTL > 0 {
		u, err := s.client.PresignedGetObject(ctx, s.opts.Bucket, key, s.opts.PresignTTL, url.Values{})
		if err != nil {
			return "", fmt.Errorf("presign %s: %w", key, err)
		}
		return u.String(), nil
	}

	// URL publik (jika bucket public)
	u := s.client.EndpointURL()
	return fmt.Sprintf("%s://%s/%s/%s", u.Scheme, u.Host, s.opts.Bucket, key), nil
}

// Ping checks that the bucket is reachable, used by /health.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.opts.Bucket)
	return err
}
