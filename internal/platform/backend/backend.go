// Package backend wires the configured storage and scope resolution.
package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hirosato/giftaid-review/internal/common/config"
	"github.com/hirosato/giftaid-review/internal/domain/giftaid"
	"github.com/hirosato/giftaid-review/internal/platform/cognito"
	dynamoClient "github.com/hirosato/giftaid-review/internal/platform/dynamodb/client"
	dynamodbRepository "github.com/hirosato/giftaid-review/internal/platform/dynamodb/repository"
	"github.com/hirosato/giftaid-review/internal/platform/sqlite"
)

// Store is a transaction store that can also be seeded
type Store interface {
	giftaid.TransactionRepository
	giftaid.OptionsRepository
	SaveTransactions(ctx context.Context, records []giftaid.RawRecord) error
	SaveProducts(ctx context.Context, products []giftaid.Option) error
	SaveCompanies(ctx context.Context, companies []giftaid.Option) error
}

// UserCompanyAssigner is implemented by stores that keep the user to company mapping themselves
type UserCompanyAssigner interface {
	AssignUserCompany(ctx context.Context, userID, companyID string) error
}

// Backend is the set of collaborators the review service runs against
type Backend struct {
	Store  Store
	Scopes giftaid.ScopeResolver
	close  func() error
}

// Close releases the underlying store
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open connects the storage backend selected by cfg. Scope resolution uses
// Cognito when a user pool is configured, the SQLite mapping table for the
// sqlite backend, and no company otherwise.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	b := &Backend{}

	switch cfg.StorageBackend {
	case config.StorageDynamoDB:
		client, err := dynamoClient.NewDynamoDBClient(ctx, cfg.AWSRegion, logger)
		if err != nil {
			return nil, fmt.Errorf("initialize DynamoDB client: %w", err)
		}
		b.Store = dynamodbRepository.NewFactory(client, cfg.DynamoDBTableName, logger).TransactionRepository()
		b.Scopes = giftaid.NoScopeResolver{}
	case config.StorageSQLite:
		store, err := sqlite.Open(cfg.SQLitePath, logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		b.Store = store
		b.Scopes = store
		b.close = store.Close
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}

	if cfg.UserPoolID != "" {
		api, err := cognito.NewClient(ctx, cfg.AWSRegion)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("initialize Cognito client: %w", err)
		}
		b.Scopes = cognito.NewScopeResolver(api, cfg.UserPoolID, logger)
	}

	logger.Info("Storage backend ready",
		zap.String("backend", cfg.StorageBackend),
		zap.Bool("cognitoScopes", cfg.UserPoolID != ""),
	)
	return b, nil
}
