package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yizeng/gab/gin/gorm/housing-events/internal/ai"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/api"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/config"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/db"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/logger"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/mail"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/repository"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/repository/dao"
	"github.com/yizeng/gab/gin/gorm/housing-events/internal/service"
)

const configPath = "./cmd/app/config.yml"

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	config.Watch(configPath, func(e fsnotify.Event) {
		zap.L().Info("config file changed, restart to apply", zap.String("file", e.Name))
	})

	if conf.API.JWTSigningKey == "" {
		conf.API.JWTSigningKey, err = randomKey()
		if err != nil {
			return fmt.Errorf("failed to generate jwt signing key -> %w", err)
		}
		zap.L().Warn("api.jwt_signing_key is not set, admin sessions will not survive a restart")
	}

	loc, err := conf.API.Location()
	if err != nil {
		return fmt.Errorf("failed to load time zone -> %w", err)
	}

	documents, err := openDocuments(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize storage -> %w", err)
	}

	ctx := context.Background()

	store := repository.NewStore(documents, repository.WithClock(func() time.Time {
		return time.Now().In(loc)
	}))
	if err = store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load data -> %w", err)
	}

	adminSvc, err := service.NewAdminService(conf.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to initialize admin -> %w", err)
	}

	if conf.Gemini.APIKey == "" {
		zap.L().Warn("gemini api key is not set, AI import is disabled")
	}

	s, err := api.NewServer(conf, store, api.Services{
		Notifier: newNotifier(conf),
		Extractor: ai.NewGeminiExtractor(ai.GeminiConfig{
			APIKey: conf.Gemini.APIKey,
			Model:  conf.Gemini.Model,
		}),
		Admin: adminSvc,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize server -> %w", err)
	}

	go s.Feed.Run(ctx)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

func openDocuments(conf *config.AppConfig) (repository.DocumentDAO, error) {
	switch conf.Storage.Driver {
	case config.StoragePostgres:
		dbURL := os.Getenv("DATABASE_URL")
		var (
			postgresDB *gorm.DB
			err        error
		)
		if dbURL != "" {
			postgresDB, err = db.OpenPostgresWithURL(dbURL)
		} else {
			postgresDB, err = db.OpenPostgres(conf.Postgres)
		}
		if err != nil {
			return nil, err
		}
		return dao.NewDocumentDAO(postgresDB), nil
	case config.StorageFile, "":
		return dao.NewFileDocumentDAO(conf.Storage.Dir), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}

func newNotifier(conf *config.AppConfig) service.Notifier {
	if conf.SMTP.Enabled() {
		zap.L().Info("sending confirmation mails", zap.String("smtp_host", conf.SMTP.Host))
		return mail.NewSMTPNotifier(mail.SMTPConfig{
			Host:     conf.SMTP.Host,
			Port:     conf.SMTP.Port,
			User:     conf.SMTP.User,
			Password: conf.SMTP.Password,
			From:     conf.SMTP.From,
		})
	}

	return service.DelayNotifier{Delay: conf.Registration.SubmitDelay}
}

func randomKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
