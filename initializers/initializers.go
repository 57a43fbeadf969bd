package initializers

import (
	"context"
	"labor-mobility-backend/config"
	"labor-mobility-backend/fiberlog"
	appealhandler "labor-mobility-backend/lib/appeal"
	appealnotify "labor-mobility-backend/lib/appeal-notify"
	documentstorage "labor-mobility-backend/lib/document-storage"
	xlsexport "labor-mobility-backend/lib/export/xls"
	"labor-mobility-backend/lib/rbac"
	s3client "labor-mobility-backend/s3"
	"time"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	documentstorage.NewHandler(s3client.Client, config.Conf.S3.BucketName)
	appealnotify.NewHandler(config.Conf.Smtp.Sender)
	xlsexport.NewHandler()
	rbac.NewHandler()
	appealhandler.NewHandler(appealhandler.Settings{
		MinReasonLength: config.Conf.Appeal.MinReasonLength,
		MaxDocuments:    config.Conf.Appeal.MaxDocuments,
		SubmitLockWait:  time.Duration(config.Conf.Appeal.SubmitLockWaitInSec) * time.Second,
	})
}
