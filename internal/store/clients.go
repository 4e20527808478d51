package store

import (
	"context"

	"github.com/go-authgate/oauth1gate/internal/models"
)

// Client application operations
func (s *Store) GetClientByKey(ctx context.Context, key string) (*models.ClientApplication, error) {
	var client models.ClientApplication
	if err := s.db.WithContext(ctx).Where("consumer_key = ?", key).First(&client).Error; err != nil {
		return nil, translateError(err)
	}
	return &client, nil
}

func (s *Store) GetClientByID(ctx context.Context, id int64) (*models.ClientApplication, error) {
	var client models.ClientApplication
	if err := s.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &client, nil
}

func (s *Store) ListClients(ctx context.Context) ([]models.ClientApplication, error) {
	var clients []models.ClientApplication
	err := s.db.WithContext(ctx).Order("name").Find(&clients).Error
	return clients, err
}

func (s *Store) CreateClient(ctx context.Context, client *models.ClientApplication) error {
	return s.db.WithContext(ctx).Create(client).Error
}
