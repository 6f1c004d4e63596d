// @title Vetly API
// @version 1.0
// @description Prontuário veterinário: usuários, tutores, animais e atendimentos.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"vetly/internal/adapters/auth/bcrypt"
	"vetly/internal/adapters/auth/jwt"
	"vetly/internal/adapters/storage/objectstore"
	pg "vetly/internal/adapters/storage/postgres"
	"vetly/internal/config"
	"vetly/internal/domain/users"
	"vetly/internal/platform/httpclient"
	"vetly/internal/platform/logger"
	"vetly/internal/platform/metrics"
	"vetly/internal/report"
	"vetly/internal/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.App.LogLevel),
		Format: logger.ParseFormat(cfg.App.LogFormat),
		App:    cfg.App.Name,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.Database.URL != "" {
		db, err = pg.Open(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()

		if cfg.Database.AutoMigrate {
			n, err := pg.Migrate(ctx, db)
			if err != nil {
				return err
			}
			log.Info("db.migrated", map[string]any{"applied": n})
		}
	} else {
		log.Warn("db.memory", map[string]any{"reason": "DATABASE_URL not set; data is lost on restart"})
	}

	images, uploads, err := imageStore(ctx, cfg)
	if err != nil {
		return err
	}

	tokens := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	loc := cfg.Location()

	handler := router.NewRouter(router.Options{
		DB:              db,
		Verifier:        tokens,
		Issuer:          tokens,
		Hasher:          bcrypt.NewHasher(cfg.Auth.BcryptCost),
		Images:          images,
		Uploads:         uploads,
		Renderer:        report.New(loc, report.Options{Compress: true}),
		Logger:          log,
		Metrics:         metrics.New(),
		CORSOrigin:      cfg.HTTP.CORSOrigin,
		RateLimitMax:    cfg.HTTP.RateLimitMax,
		RateLimitWindow: cfg.HTTP.RateLimitWindow,
		MaxUploadBytes:  cfg.Upload.MaxBytes,
		Location:        loc,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server.start", map[string]any{"addr": srv.Addr, "storage": storageKind(cfg)})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("server.shutdown", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// imageStore elige S3 si hay bucket; si no, disco local servido en /uploads/.
func imageStore(ctx context.Context, cfg *config.Config) (users.ImageStore, http.Handler, error) {
	if cfg.UseS3() {
		s3, err := objectstore.NewS3(ctx, objectstore.S3Config{
			Bucket:          cfg.Upload.S3Bucket,
			Region:          cfg.Upload.S3Region,
			Endpoint:        cfg.Upload.S3Endpoint,
			PublicBaseURL:   cfg.Upload.S3PublicBaseURL,
			AccessKeyID:     cfg.Upload.AccessKeyID,
			SecretAccessKey: cfg.Upload.SecretAccessKey,
			HTTPTimeout:     httpclient.DefaultTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return s3, nil, nil
	}

	local, err := objectstore.NewLocal(cfg.Upload.LocalDir, cfg.HTTP.PublicBaseURL)
	if err != nil {
		return nil, nil, err
	}
	return local, local.Handler(), nil
}

func storageKind(cfg *config.Config) string {
	if cfg.UseS3() {
		return "s3"
	}
	return "local"
}
