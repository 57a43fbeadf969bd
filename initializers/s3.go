package initializers

import (
	"context"
	"labor-mobility-backend/config"
	s3client "labor-mobility-backend/s3"

	log "github.com/sirupsen/logrus"
)

// InitS3 leaves s3client.Client nil when no endpoint is configured; document checks are then skipped.
func InitS3(ctx context.Context) {
	if config.Conf.S3.Endpoint == "" {
		log.Warn("S3 endpoint is not set, supporting documents will not be verified")
		return
	}
	client, err := s3client.Connect(config.Conf.S3.Endpoint, config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, *config.Conf.S3.UseSSL)
	if err != nil {
		log.WithError(err).Error("S3 client init failed")
		return
	}
	if err = s3client.EnsureBucket(ctx, client, config.Conf.S3.BucketName); err != nil {
		log.WithError(err).Error("S3 connection check failed")
	}
	s3client.Client = client
	log.Info("S3 client initialized")
}
