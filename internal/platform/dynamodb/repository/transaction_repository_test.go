package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	commonErrors "github.com/hirosato/giftaid-review/internal/domain/errors"
	"github.com/hirosato/giftaid-review/internal/domain/giftaid"
	"github.com/hirosato/giftaid-review/internal/platform/dynamodb/client"
)

const testTable = "giftaid-test"

func newTestRepository(t *testing.T, mock *client.MockDynamoDBClient) *DynamoDBTransactionRepository {
	t.Helper()
	repo := NewDynamoDBTransactionRepository(mock, testTable, zaptest.NewLogger(t))
	repo.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	repo.newID = func() string { return "7c1f2a4e-0000-4000-8000-000000000001" }
	return repo
}

func txnItem(t *testing.T, id, date, company string, amount *string) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(toTransactionItem(giftaid.RawRecord{
		ID:          id,
		InvoiceDate: date,
		CompanyID:   company,
		ProductID:   "p1",
		PaidAmount:  amount,
	}))
	require.NoError(t, err)
	return item
}

func strPtr(v string) *string { return &v }

func TestFetchTransactions_CompanyUsesIndex(t *testing.T) {
	mock := client.NewMockDynamoDBClient()
	var inputs []*dynamodb.QueryInput
	mock.QueryFn = func(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
		inputs = append(inputs, params)
		if len(inputs) == 1 {
			return &dynamodb.QueryOutput{
				Items:            []map[string]types.AttributeValue{txnItem(t, "T2", "2024-01-05", "c1", strPtr("10"))},
				LastEvaluatedKey: transactionKey("T2"),
			}, nil
		}
		return &dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{txnItem(t, "T1", "2024-01-02", "c1", nil)},
		}, nil
	}
	mock.ScanFn = func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
		t.Fatal("scan must not be used when a company is set")
		return nil, nil
	}
	repo := newTestRepository(t, mock)

	records, err := repo.FetchTransactions(context.Background(), giftaid.FilterCriteria{
		CompanyID:     "c1",
		StartDate:     "2024-01-01",
		EndDate:       "2024-01-31",
		GiftAidStatus: "Non-Submitted",
	})

	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, "GSI1", aws.ToString(inputs[0].IndexName))
	assert.Equal(t, testTable, aws.ToString(inputs[0].TableName))
	assert.NotNil(t, inputs[0].FilterExpression)
	assert.Contains(t, aws.ToString(inputs[0].KeyConditionExpression), "BETWEEN")
	assert.Equal(t, transactionKey("T2"), inputs[1].ExclusiveStartKey)

	require.Len(t, records, 2)
	assert.Equal(t, "T1", records[0].ID)
	assert.Nil(t, records[0].PaidAmount)
	assert.Equal(t, "T2", records[1].ID)
	assert.Equal(t, "10", *records[1].PaidAmount)
	assert.Equal(t, "Non-Submitted", records[1].GiftAidStatus)
}

func TestFetchTransactions_NoCompanyScans(t *testing.T) {
	mock := client.NewMockDynamoDBClient()
	var scanned *dynamodb.ScanInput
	mock.ScanFn = func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
		scanned = params
		return &dynamodb.ScanOutput{
			Items: []map[string]types.AttributeValue{
				txnItem(t, "B", "2024-01-03", "c2", strPtr("1")),
				txnItem(t, "A", "2024-01-03", "c1", strPtr("2")),
			},
		}, nil
	}
	repo := newTestRepository(t, mock)

	records, err := repo.FetchTransactions(context.Background(), giftaid.FilterCriteria{ProductID: "p1", StartDate: "2024-01-01"})

	require.NoError(t, err)
	require.NotNil(t, scanned)
	assert.Nil(t, scanned.IndexName)
	assert.Contains(t, scanned.ExpressionAttributeValues, ":0")
	assert.Equal(t, []string{"A", "B"}, []string{records[0].ID, records[1].ID})
}

func TestFetchTransactions_TransportError(t *testing.T) {
	mock := client.NewMockDynamoDBClient()
	mock.ScanFn = func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
		return nil, errors.New("throttled")
	}
	repo := newTestRepository(t, mock)

	_, err := repo.FetchTransactions(context.Background(), giftaid.FilterCriteria{})

	assert.True(t, commonErrors.HasCode(err, commonErrors.CodeTransport))
}

func batchGetReturning(t *testing.T, ids ...string) func(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	return func(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
		var items []map[string]types.AttributeValue
		for _, id := range ids {
			items = append(items, map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}})
		}
		return &dynamodb.BatchGetItemOutput{
			Responses: map[string][]map[string]types.AttributeValue{testTable: items},
		}, nil
	}
}

func TestSubmitSelection(t *testing.T) {
	mock := client.NewMockDynamoDBClient()
	mock.BatchGetItemFn = batchGetReturning(t, "T1", "T2")
	var transacted []types.TransactWriteItem
	mock.TransactWriteItemsFn = func(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
		transacted = append(transacted, params.TransactItems...)
		return &dynamodb.TransactWriteItemsOutput{}, nil
	}
	var stored map[string]types.AttributeValue
	mock.PutItemFn = func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
		stored = params.Item
		return &dynamodb.PutItemOutput{}, nil
	}
	repo := newTestRepository(t, mock)

	receipt, err := repo.SubmitSelection(context.Background(), []string{"T2", "T1", "T2"})

	require.NoError(t, err)
	assert.Equal(t, []string{"T2", "T1"}, receipt.SubmittedIDs)
	assert.Equal(t, "7c1f2a4e-0000-4000-8000-000000000001", receipt.SubmissionID)

	require.Len(t, transacted, 2)
	assert.Equal(t, transactionKey("T2"), transacted[0].Update.Key)
	assert.Contains(t, aws.ToString(transacted[0].Update.ConditionExpression), "attribute_exists")

	var submission submissionItem
	require.NoError(t, attributevalue.UnmarshalMap(stored, &submission))
	assert.Equal(t, "SUBMISSION#7c1f2a4e-0000-4000-8000-000000000001", submission.PK)
	assert.Equal(t, []string{"T2", "T1"}, submission.TransactionIDs)
	assert.Equal(t, "2024-05-01T10:00:00Z", submission.SubmittedAt)
}

func TestSubmitSelection_UnknownID(t *testing.T) {
	mock := client.NewMockDynamoDBClient()
	mock.BatchGetItemFn = batchGetReturning(t, "T1")
	mock.TransactWriteItemsFn = func(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
		t.Fatal("nothing may be written when an id is unknown")
		return nil, nil
	}
	repo := newTestRepository(t, mock)

	_, err := repo.SubmitSelection(context.Background(), []string{"T1", "T9"})

	require.True(t, commonErrors.HasCode(err, commonErrors.CodeValidation))
	assert.Equal(t, []string{"T9"}, commonErrors.AsAppError(err).Details["ids"])
}

func TestSubmitSelection_ConditionFailure(t *testing.T) {
	mock := client.NewMockDynamoDBClient()
	mock.BatchGetItemFn = batchGetReturning(t, "T1")
	mock.TransactWriteItemsFn = func(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
		return nil, &types.TransactionCanceledException{
			Message:             aws.String("Transaction cancelled"),
			CancellationReasons: []types.CancellationReason{{Code: aws.String("ConditionalCheckFailed")}},
		}
	}
	repo := newTestRepository(t, mock)

	_, err := repo.SubmitSelection(context.Background(), []string{"T1"})

	assert.True(t, commonErrors.HasCode(err, commonErrors.CodeValidation))
}

func TestSubmitSelection_TransportError(t *testing.T) {
	mock := client.NewMockDynamoDBClient()
	mock.BatchGetItemFn = batchGetReturning(t, "T1")
	mock.TransactWriteItemsFn = func(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
		return nil, errors.New("connection reset")
	}
	repo := newTestRepository(t, mock)

	_, err := repo.SubmitSelection(context.Background(), []string{"T1"})

	assert.True(t, commonErrors.HasCode(err, commonErrors.CodeTransport))
}

func TestOptions(t *testing.T) {
	mock := client.NewMockDynamoDBClient()
	mock.ScanFn = func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
		var items []map[string]types.AttributeValue
		for _, opt := range []optionItem{
			{PK: "PRODUCT#p2", SK: "PRODUCT", Type: typeProduct, ID: "p2", Name: "Raffle"},
			{PK: "PRODUCT#p1", SK: "PRODUCT", Type: typeProduct, ID: "p1", Name: "Donation"},
		} {
			item, err := attributevalue.MarshalMap(opt)
			require.NoError(t, err)
			items = append(items, item)
		}
		return &dynamodb.ScanOutput{Items: items}, nil
	}
	repo := newTestRepository(t, mock)

	products, err := repo.ProductOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []giftaid.Option{{Label: "Donation", Value: "p1"}, {Label: "Raffle", Value: "p2"}}, products)

	statuses, err := repo.StatusOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, giftaid.StatusOptions(), statuses)
}

func TestSaveTransactions_BatchesAndRetries(t *testing.T) {
	mock := client.NewMockDynamoDBClient()
	var batchSizes []int
	retried := false
	mock.BatchWriteItemFn = func(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
		requests := params.RequestItems[testTable]
		batchSizes = append(batchSizes, len(requests))
		if !retried {
			retried = true
			return &dynamodb.BatchWriteItemOutput{
				UnprocessedItems: map[string][]types.WriteRequest{testTable: requests[:1]},
			}, nil
		}
		return &dynamodb.BatchWriteItemOutput{}, nil
	}
	repo := newTestRepository(t, mock)

	records := make([]giftaid.RawRecord, 30)
	for i := range records {
		records[i] = giftaid.RawRecord{ID: string(rune('a' + i%26)), InvoiceDate: "2024-01-01", CompanyID: "c1"}
	}
	err := repo.SaveTransactions(context.Background(), records)

	require.NoError(t, err)
	assert.Equal(t, []int{25, 1, 5}, batchSizes)
}

func TestBatches(t *testing.T) {
	assert.Nil(t, batches([]int{}, 3))
	assert.Equal(t, [][]int{{1, 2, 3}, {4}}, batches([]int{1, 2, 3, 4}, 3))
	assert.Equal(t, [][]int{{1, 2}}, batches([]int{1, 2}, 2))
}
