package s3client

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

const defaultLocation = "us-east-1"

var Client *minio.Client

type bucketMaker interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

func Connect(endpoint, accessKeyID, secretAccessKey string, useSSL bool) (*minio.Client, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "s3 client init failed")
	}
	return client, nil
}

// EnsureBucket creates the document bucket on first start.
func EnsureBucket(ctx context.Context, client bucketMaker, bucketName string) error {
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return errors.Wrapf(err, "bucket %v check failed", bucketName)
	}
	if exists {
		return nil
	}
	if err = client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: defaultLocation}); err != nil {
		return errors.Wrapf(err, "bucket %v creation failed", bucketName)
	}
	return nil
}
