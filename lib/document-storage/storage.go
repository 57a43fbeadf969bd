package documentstorage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
)

// Provider checks that supporting documents referenced by an appeal were uploaded.
type Provider interface {
	Exists(ctx context.Context, spaceID, documentID string) (bool, error)
}

// Instance stays nil when object storage is not configured.
var Instance Provider

type objectStater interface {
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

type impl struct {
	client     objectStater
	bucketName string
}

func NewHandler(s3client *minio.Client, bucketName string) {
	if s3client == nil {
		Instance = nil
		return
	}
	Instance = &impl{
		client:     s3client,
		bucketName: bucketName,
	}
}

func (i impl) Exists(ctx context.Context, spaceID, documentID string) (bool, error) {
	_, err := i.client.StatObject(ctx, i.bucketName, objectName(spaceID, documentID), minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// documents live under the tenant prefix
func objectName(spaceID, documentID string) string {
	return fmt.Sprintf("%s/%s", spaceID, documentID)
}
