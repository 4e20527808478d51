package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-authgate/oauth1gate/internal/config"
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// newGormLogger reports failed and slow queries to w. Lookups that match no
// row surface as ErrRecordNotFound to callers and are not logged.
func newGormLogger(w logger.Writer) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

type Store struct {
	db *gorm.DB
}

// New opens the database, migrates the schema and seeds the default
// administrator and demo clients when the tables are empty.
func New(driver, dsn string, cfg *config.Config) (*Store, error) {
	dialector, err := GetDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(zap.NewStdLog(zap.L().Named("gorm"))),
	})
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		// A single connection keeps ":memory:" databases shared and
		// serializes writers the way SQLite expects.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.ClientApplication{},
		&models.OAuthToken{},
		&models.UserPreference{},
		&models.Trace{},
		&models.Note{},
		&models.NoteComment{},
		&models.AuditLog{},
	); err != nil {
		return nil, err
	}

	store := &Store{db: db}

	if err := store.seedData(context.Background(), cfg); err != nil {
		zap.S().Warnf("failed to seed data: %v", err)
	}

	return store, nil
}

func (s *Store) seedData(ctx context.Context, cfg *config.Config) error {
	var userCount int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	var adminID string
	if userCount == 0 {
		password := cfg.DefaultAdminPassword
		generated := password == ""
		if generated {
			var err error
			password, err = util.RandomAlphanumeric(16)
			if err != nil {
				return err
			}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := &models.User{
			ID:           uuid.New().String(),
			DisplayName:  "admin",
			Email:        "admin@localhost",
			PasswordHash: string(hash),
			Role:         "admin",
			Status:       models.UserStatusConfirmed,
		}
		if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
			return err
		}
		adminID = admin.ID
		if generated {
			zap.S().Infof("Created default user: admin / %s (role: admin)", password)
		} else {
			zap.S().Info("Created default user: admin (role: admin)")
		}
	}

	if !cfg.SeedDemoClients {
		return nil
	}

	var clientCount int64
	if err := s.db.WithContext(ctx).Model(&models.ClientApplication{}).Count(&clientCount).Error; err != nil {
		return err
	}
	if clientCount > 0 {
		return nil
	}

	demos := []struct {
		name        string
		callbackURL string
		permissions models.PermissionSet
	}{
		{
			name:        "Demo Web Editor",
			callbackURL: "http://localhost:3000/oauth/callback",
			permissions: models.FullPermissionSet(),
		},
		{
			name: "Demo Desktop Client",
			permissions: models.NewPermissionSet(
				models.PermReadPrefs,
				models.PermReadGPX,
				models.PermWriteGPX,
				models.PermWriteNotes,
			),
		},
	}
	for _, demo := range demos {
		client, err := NewClientApplication(demo.name, demo.callbackURL, demo.permissions, adminID)
		if err != nil {
			return err
		}
		if err := s.CreateClient(ctx, client); err != nil {
			return err
		}
		zap.S().Infof("Created demo client %q: key=%s secret=%s", client.Name, client.Key, client.Secret)
	}
	return nil
}

// NewClientApplication builds a client with fresh random credentials.
func NewClientApplication(
	name, callbackURL string,
	permissions models.PermissionSet,
	ownerID string,
) (*models.ClientApplication, error) {
	key, err := util.RandomAlphanumeric(40)
	if err != nil {
		return nil, err
	}
	secret, err := util.RandomAlphanumeric(40)
	if err != nil {
		return nil, err
	}
	return &models.ClientApplication{
		Key:         key,
		Secret:      secret,
		Name:        name,
		CallbackURL: callbackURL,
		Permissions: permissions,
		OwnerID:     ownerID,
	}, nil
}

// Health checks the database connection
func (s *Store) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// DB returns the underlying GORM database connection
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the database connection
func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- sqlDB.Close() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("close database: %w", ctx.Err())
	}
}

// translateError maps gorm's not-found error to ErrRecordNotFound.
func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}
