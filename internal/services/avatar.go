package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const avatarPrefix = "doctors"

// UploadResult identifies a stored image. PublicID is the object key.
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// AvatarUploader stores doctor profile images in a MinIO bucket.
type AvatarUploader struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

type AvatarStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // base for returned URLs; derived from Endpoint when empty
}

func NewAvatarUploader(cfg AvatarStoreConfig) (*AvatarUploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("avatar bucket is not configured")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	base := cfg.PublicURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	return &AvatarUploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(base, "/"),
	}, nil
}

// EnsureBucket creates the avatar bucket if needed and makes its objects
// publicly readable so the returned URLs resolve.
func (u *AvatarUploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		slog.Info("created avatar bucket", "bucket", u.bucket)
	}
	return u.client.SetBucketPolicy(ctx, u.bucket, publicReadPolicy(u.bucket))
}

// Upload copies the file at localPath into the bucket under a fresh key.
func (u *AvatarUploader) Upload(ctx context.Context, localPath, contentType string) (*UploadResult, error) {
	key := fmt.Sprintf("%s/%s%s", avatarPrefix, uuid.NewString(), strings.ToLower(filepath.Ext(localPath)))

	info, err := u.client.FPutObject(ctx, u.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("put avatar: %w", err)
	}

	return &UploadResult{
		PublicID:  info.Key,
		SecureURL: u.ObjectURL(info.Key),
	}, nil
}

// Delete removes a stored avatar by the key Upload returned.
func (u *AvatarUploader) Delete(ctx context.Context, publicID string) error {
	if err := u.client.RemoveObject(ctx, u.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove avatar: %w", err)
	}
	return nil
}

func (u *AvatarUploader) ObjectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", u.baseURL, u.bucket, key)
}

func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, bucket)
}
