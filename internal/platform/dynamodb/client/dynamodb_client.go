package client

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// DynamoDBClient wraps the AWS DynamoDB client and logs every call at debug level
type DynamoDBClient struct {
	client *dynamodb.Client
	logger *zap.Logger
}

// NewDynamoDBClient creates a new DynamoDB client
func NewDynamoDBClient(ctx context.Context, region string, logger *zap.Logger) (*DynamoDBClient, error) {
	// Load AWS configuration
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	return &DynamoDBClient{
		client: dynamodb.NewFromConfig(cfg),
		logger: logger,
	}, nil
}

func (c *DynamoDBClient) observe(op string, table *string, start time.Time, err error) {
	fields := []zap.Field{
		zap.String("operation", op),
		zap.String("table", aws.ToString(table)),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		c.logger.Warn("DynamoDB call failed", append(fields, zap.Error(err))...)
		return
	}
	c.logger.Debug("DynamoDB call", fields...)
}

// PutItem implements the Client.PutItem method
func (c *DynamoDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	start := time.Now()
	out, err := c.client.PutItem(ctx, params, optFns...)
	c.observe("PutItem", params.TableName, start, err)
	return out, err
}

// Query implements the Client.Query method
func (c *DynamoDBClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	start := time.Now()
	out, err := c.client.Query(ctx, params, optFns...)
	c.observe("Query", params.TableName, start, err)
	return out, err
}

// Scan implements the Client.Scan method
func (c *DynamoDBClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	start := time.Now()
	out, err := c.client.Scan(ctx, params, optFns...)
	c.observe("Scan", params.TableName, start, err)
	return out, err
}

// TransactWriteItems implements the Client.TransactWriteItems method
func (c *DynamoDBClient) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	start := time.Now()
	out, err := c.client.TransactWriteItems(ctx, params, optFns...)
	c.observe("TransactWriteItems", nil, start, err)
	return out, err
}

// BatchWriteItem implements the Client.BatchWriteItem method
func (c *DynamoDBClient) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	start := time.Now()
	out, err := c.client.BatchWriteItem(ctx, params, optFns...)
	c.observe("BatchWriteItem", nil, start, err)
	return out, err
}

// BatchGetItem implements the Client.BatchGetItem method
func (c *DynamoDBClient) BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	start := time.Now()
	out, err := c.client.BatchGetItem(ctx, params, optFns...)
	c.observe("BatchGetItem", nil, start, err)
	return out, err
}
