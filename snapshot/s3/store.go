// Package s3 persists space snapshots as JSON objects in an S3-compatible
// bucket.
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/mwantia/semfs/snapshot"
)

// Config carries the connection settings for the S3 snapshot store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// Store writes one object per space root below the configured prefix.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore connects to an S3-compatible endpoint. The bucket must already
// exist; bucket lifecycle belongs to the operator, not the core.
func NewStore(config Config) (*Store, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	prefix := strings.Trim(config.Prefix, "/")
	if prefix == "" {
		prefix = "semfs/snapshots"
	}

	return &Store{
		client: client,
		bucket: config.Bucket,
		prefix: prefix,
	}, nil
}

func (s *Store) Name() string {
	return "s3"
}

func (s *Store) Open(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("semfs: bucket %q does not exist", s.bucket)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}

func (s *Store) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, s.bucket, s.buildKey(snap.Root),
		bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
			ContentType: "application/json",
		})

	return err
}

func (s *Store) Load(ctx context.Context, root string) (*snapshot.Snapshot, error) {
	object, err := s.client.GetObject(ctx, s.bucket, s.buildKey(root), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer object.Close()

	payload, err := io.ReadAll(object)
	if err != nil {
		errResponse := minio.ToErrorResponse(err)
		if errResponse.Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", snapshot.ErrSnapshotNotFound, root)
		}
		return nil, err
	}

	snap := &snapshot.Snapshot{}
	if err := json.Unmarshal(payload, snap); err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *Store) Delete(ctx context.Context, root string) error {
	key := s.buildKey(root)

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		errResponse := minio.ToErrorResponse(err)
		if errResponse.Code == "NoSuchKey" {
			return fmt.Errorf("%w: %s", snapshot.ErrSnapshotNotFound, root)
		}
		return err
	}

	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	roots := make([]string, 0)

	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix + "/",
		Recursive: true,
	})

	for object := range objects {
		if object.Err != nil {
			return nil, object.Err
		}

		key := strings.TrimPrefix(object.Key, s.prefix+"/")
		key = strings.TrimSuffix(key, ".json")
		roots = append(roots, "/"+strings.ReplaceAll(key, ":", "/"))
	}

	return roots, nil
}

func (s *Store) buildKey(root string) string {
	return s.prefix + "/" + strings.ReplaceAll(strings.Trim(root, "/"), "/", ":") + ".json"
}
