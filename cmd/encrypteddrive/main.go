package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"

	accountsapi "github.com/GaygysyzMyradov/EncryptedDrive/internal/accounts/api"
	accountsservice "github.com/GaygysyzMyradov/EncryptedDrive/internal/accounts/service"
	accountsstore "github.com/GaygysyzMyradov/EncryptedDrive/internal/accounts/store"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/blob"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/config"
	minioclient "github.com/GaygysyzMyradov/EncryptedDrive/internal/database/minio"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/database/mysql"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/drive/api"
	driveservice "github.com/GaygysyzMyradov/EncryptedDrive/internal/drive/service"
	drivestore "github.com/GaygysyzMyradov/EncryptedDrive/internal/drive/store"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/models"
	"github.com/GaygysyzMyradov/EncryptedDrive/internal/vault"
	"github.com/GaygysyzMyradov/EncryptedDrive/pkg/logger"
	"github.com/GaygysyzMyradov/EncryptedDrive/pkg/ratelimiter"
)

func main() {
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Init(level)
	appLogger := logger.New("encrypteddrive")
	appLogger.Info("logger initialized")

	db, err := mysql.GetDB(&cfg.Databases.MySQL)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("database connection established")

	if err := db.AutoMigrate(&models.User{}, &models.Folder{}, &models.File{}); err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("database migration completed")

	blobStore, err := buildBlobStore(cfg)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	appLogger.Info("blob store initialized: " + cfg.Storage.Backend)

	fileVault := vault.New(blobStore)

	accountStore := accountsstore.NewStore(db)
	accountService := accountsservice.NewService(accountStore, cfg.Auth.JwtSecret, time.Duration(cfg.Auth.TokenTTL)*time.Second)
	accountHandler := accountsapi.NewHandler(accountService)

	catalog := drivestore.NewStore(db)
	drive := driveservice.NewService(catalog, fileVault, appLogger)
	driveHandler := api.NewHandler(drive, appLogger, cfg.Server.MaxUploadBytes)

	var limiter *ratelimiter.Keyed
	if cfg.RateLimit.Enabled {
		limiter = ratelimiter.NewKeyed(cfg.RateLimit.Rate, cfg.RateLimit.Capacity)
	}

	router := api.SetupRouter(driveHandler, accountHandler, cfg.Auth.JwtSecret, limiter)
	appLogger.Info("starting server on " + cfg.Server.Address)

	if err := router.Run(cfg.Server.Address); err != nil {
		appLogger.Fatal(err.Error())
	}
}

// buildBlobStore picks the blob backend from configuration: MinIO for
// deployments, the local filesystem for development.
func buildBlobStore(cfg *config.AppConfig) (blob.Store, error) {
	switch cfg.Storage.Backend {
	case "minio":
		client, err := minioclient.GetClient(&cfg.Databases.MinIO)
		if err != nil {
			return nil, err
		}
		return blob.NewMinioStore(context.Background(), client, cfg.Databases.MinIO.Bucket)
	case "filesystem":
		return blob.NewFSStore(cfg.Storage.Root)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
