package repository

import (
	"go.uber.org/zap"

	"github.com/hirosato/giftaid-review/internal/platform/dynamodb/client"
)

// Factory creates repository instances
type Factory struct {
	client    client.Client
	tableName string
	logger    *zap.Logger
}

// NewFactory creates a new repository factory
func NewFactory(client client.Client, tableName string, logger *zap.Logger) *Factory {
	return &Factory{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// TransactionRepository returns the DynamoDB implementation of the transaction,
// options and seeding contracts
func (f *Factory) TransactionRepository() *DynamoDBTransactionRepository {
	return NewDynamoDBTransactionRepository(f.client, f.tableName, f.logger.Named("dynamodb"))
}
