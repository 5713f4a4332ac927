package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	commonErrors "github.com/hirosato/giftaid-review/internal/domain/errors"
	"github.com/hirosato/giftaid-review/internal/domain/giftaid"
	"github.com/hirosato/giftaid-review/internal/platform/dynamodb/client"
)

const (
	typeTransaction = "sales_invoice_transaction"
	typeProduct     = "product"
	typeCompany     = "company"
	typeSubmission  = "gift_aid_submission"

	gsi1 = "GSI1"

	// DynamoDB limits
	maxTransactItems = 100
	maxBatchGet      = 100
	maxBatchWrite    = 25
	maxBatchRetries  = 5
)

// DynamoDBTransactionRepository stores sales invoice transactions in a single table.
//
//	PK TXN#<id>            SK TXN         transaction
//	GSI1PK COMPANY#<id>    GSI1SK DATE#<invoiceDate>#TXN#<id>
//	PK PRODUCT#<id>        SK PRODUCT     product picker entry
//	PK COMPANY#<id>        SK COMPANY     company picker entry
//	PK SUBMISSION#<uuid>   SK SUBMISSION  submission receipt
type DynamoDBTransactionRepository struct {
	client client.Client
	table  string
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewDynamoDBTransactionRepository creates a new DynamoDBTransactionRepository
func NewDynamoDBTransactionRepository(client client.Client, table string, logger *zap.Logger) *DynamoDBTransactionRepository {
	return &DynamoDBTransactionRepository{
		client: client,
		table:  table,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

type transactionItem struct {
	PK     string `dynamodbav:"PK"`
	SK     string `dynamodbav:"SK"`
	GSI1PK string `dynamodbav:"GSI1PK"`
	GSI1SK string `dynamodbav:"GSI1SK"`
	Type   string `dynamodbav:"Type"`

	ID                     string  `dynamodbav:"id"`
	InvoiceDate            string  `dynamodbav:"invoiceDate"`
	CustomerReference      string  `dynamodbav:"customerReference,omitempty"`
	SalesInvoiceHeaderName string  `dynamodbav:"salesInvoiceHeaderName,omitempty"`
	CompanyID              string  `dynamodbav:"companyId"`
	CompanyName            string  `dynamodbav:"companyName,omitempty"`
	AccountName            string  `dynamodbav:"accountName,omitempty"`
	ContactFirstName       string  `dynamodbav:"contactFirstName,omitempty"`
	ContactLastName        string  `dynamodbav:"contactLastName,omitempty"`
	ContactPostalCode      string  `dynamodbav:"contactPostalCode,omitempty"`
	ProductID              string  `dynamodbav:"productId,omitempty"`
	ProductName            string  `dynamodbav:"productName,omitempty"`
	NominalCode            string  `dynamodbav:"nominalCode,omitempty"`
	SalesVAT               string  `dynamodbav:"salesVAT,omitempty"`
	PaidAmount             *string `dynamodbav:"paidAmount,omitempty"`
	Analysis1              string  `dynamodbav:"analysis1,omitempty"`
	Analysis2              string  `dynamodbav:"analysis2,omitempty"`
	Analysis6              string  `dynamodbav:"analysis6,omitempty"`
	GiftAidStatus          string  `dynamodbav:"giftAidStatus"`
	SubmissionID           string  `dynamodbav:"submissionId,omitempty"`
	SubmittedAt            string  `dynamodbav:"submittedAt,omitempty"`
}

type optionItem struct {
	PK   string `dynamodbav:"PK"`
	SK   string `dynamodbav:"SK"`
	Type string `dynamodbav:"Type"`
	ID   string `dynamodbav:"id"`
	Name string `dynamodbav:"name"`
}

type submissionItem struct {
	PK             string   `dynamodbav:"PK"`
	SK             string   `dynamodbav:"SK"`
	Type           string   `dynamodbav:"Type"`
	SubmissionID   string   `dynamodbav:"submissionId"`
	TransactionIDs []string `dynamodbav:"transactionIds"`
	SubmittedAt    string   `dynamodbav:"submittedAt"`
}

func transactionKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "TXN#" + id},
		"SK": &types.AttributeValueMemberS{Value: "TXN"},
	}
}

func toTransactionItem(r giftaid.RawRecord) transactionItem {
	status := r.GiftAidStatus
	if status == "" {
		status = string(giftaid.StatusNonSubmitted)
	}
	return transactionItem{
		PK:                     "TXN#" + r.ID,
		SK:                     "TXN",
		GSI1PK:                 "COMPANY#" + r.CompanyID,
		GSI1SK:                 fmt.Sprintf("DATE#%s#TXN#%s", r.InvoiceDate, r.ID),
		Type:                   typeTransaction,
		ID:                     r.ID,
		InvoiceDate:            r.InvoiceDate,
		CustomerReference:      r.CustomerReference,
		SalesInvoiceHeaderName: r.SalesInvoiceHeaderName,
		CompanyID:              r.CompanyID,
		CompanyName:            r.CompanyName,
		AccountName:            r.AccountName,
		ContactFirstName:       r.ContactFirstName,
		ContactLastName:        r.ContactLastName,
		ContactPostalCode:      r.ContactPostalCode,
		ProductID:              r.ProductID,
		ProductName:            r.ProductName,
		NominalCode:            r.NominalCode,
		SalesVAT:               r.SalesVAT,
		PaidAmount:             r.PaidAmount,
		Analysis1:              r.Analysis1,
		Analysis2:              r.Analysis2,
		Analysis6:              r.Analysis6,
		GiftAidStatus:          status,
	}
}

func (i transactionItem) toRawRecord() giftaid.RawRecord {
	return giftaid.RawRecord{
		ID:                     i.ID,
		InvoiceDate:            i.InvoiceDate,
		CustomerReference:      i.CustomerReference,
		SalesInvoiceHeaderName: i.SalesInvoiceHeaderName,
		CompanyID:              i.CompanyID,
		CompanyName:            i.CompanyName,
		AccountName:            i.AccountName,
		ContactFirstName:       i.ContactFirstName,
		ContactLastName:        i.ContactLastName,
		ContactPostalCode:      i.ContactPostalCode,
		ProductID:              i.ProductID,
		ProductName:            i.ProductName,
		NominalCode:            i.NominalCode,
		SalesVAT:               i.SalesVAT,
		PaidAmount:             i.PaidAmount,
		Analysis1:              i.Analysis1,
		Analysis2:              i.Analysis2,
		Analysis6:              i.Analysis6,
		GiftAidStatus:          i.GiftAidStatus,
	}
}

// FetchTransactions returns the transactions matching criteria ordered by invoice date.
// A company constraint is served by GSI1; anything else falls back to a filtered scan.
func (r *DynamoDBTransactionRepository) FetchTransactions(ctx context.Context, criteria giftaid.FilterCriteria) ([]giftaid.RawRecord, error) {
	var (
		items []map[string]types.AttributeValue
		err   error
	)
	if criteria.CompanyID != "" {
		items, err = r.queryByCompany(ctx, criteria)
	} else {
		items, err = r.scanTransactions(ctx, criteria)
	}
	if err != nil {
		return nil, commonErrors.NewTransportError("failed to fetch transactions", err)
	}

	var rows []transactionItem
	if err := attributevalue.UnmarshalListOfMaps(items, &rows); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal transactions", err)
	}

	records := make([]giftaid.RawRecord, len(rows))
	for i, row := range rows {
		records[i] = row.toRawRecord()
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].InvoiceDate != records[j].InvoiceDate {
			return records[i].InvoiceDate < records[j].InvoiceDate
		}
		return records[i].ID < records[j].ID
	})

	r.logger.Debug("Fetched transactions",
		zap.Any("criteria", criteria),
		zap.Int("count", len(records)),
	)
	return records, nil
}

// transactionFilter builds the non-key conditions shared by query and scan.
// withDates is false when the dates are already part of the key condition.
func transactionFilter(criteria giftaid.FilterCriteria, withDates bool) expression.ConditionBuilder {
	cond := expression.Name("Type").Equal(expression.Value(typeTransaction))
	if criteria.ProductID != "" {
		cond = cond.And(expression.Name("productId").Equal(expression.Value(criteria.ProductID)))
	}
	if criteria.GiftAidStatus != "" {
		cond = cond.And(expression.Name("giftAidStatus").Equal(expression.Value(criteria.GiftAidStatus)))
	}
	if withDates {
		if criteria.StartDate != "" {
			cond = cond.And(expression.Name("invoiceDate").GreaterThanEqual(expression.Value(criteria.StartDate)))
		}
		if criteria.EndDate != "" {
			cond = cond.And(expression.Name("invoiceDate").LessThanEqual(expression.Value(criteria.EndDate)))
		}
	}
	return cond
}

func (r *DynamoDBTransactionRepository) queryByCompany(ctx context.Context, criteria giftaid.FilterCriteria) ([]map[string]types.AttributeValue, error) {
	keyCondition := expression.Key("GSI1PK").Equal(expression.Value("COMPANY#" + criteria.CompanyID))

	// Add date range conditions if specified
	switch {
	case criteria.HasDateRange():
		keyCondition = keyCondition.And(expression.Key("GSI1SK").Between(
			expression.Value("DATE#"+criteria.StartDate),
			expression.Value("DATE#"+criteria.EndDate+"#\uFFFF"),
		))
	case criteria.StartDate != "":
		keyCondition = keyCondition.And(expression.Key("GSI1SK").GreaterThanEqual(
			expression.Value("DATE#" + criteria.StartDate),
		))
	case criteria.EndDate != "":
		keyCondition = keyCondition.And(expression.Key("GSI1SK").Between(
			expression.Value("DATE#"),
			expression.Value("DATE#"+criteria.EndDate+"#\uFFFF"),
		))
	}

	expr, err := expression.NewBuilder().
		WithKeyCondition(keyCondition).
		WithFilter(transactionFilter(criteria, false)).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build query expression: %w", err)
	}

	paginator := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		IndexName:                 aws.String(gsi1),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	var items []map[string]types.AttributeValue
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

func (r *DynamoDBTransactionRepository) scanTransactions(ctx context.Context, criteria giftaid.FilterCriteria) ([]map[string]types.AttributeValue, error) {
	expr, err := expression.NewBuilder().WithFilter(transactionFilter(criteria, true)).Build()
	if err != nil {
		return nil, fmt.Errorf("build scan expression: %w", err)
	}
	return r.scan(ctx, expr)
}

func (r *DynamoDBTransactionRepository) scan(ctx context.Context, expr expression.Expression) ([]map[string]types.AttributeValue, error) {
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:                 aws.String(r.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})

	var items []map[string]types.AttributeValue
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	return items, nil
}

// SubmitSelection marks the transactions as submitted and records the submission.
// Unknown ids fail the whole submit before anything is written.
func (r *DynamoDBTransactionRepository) SubmitSelection(ctx context.Context, ids []string) (*giftaid.SubmissionReceipt, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, commonErrors.NewValidationError("no transactions to submit")
	}

	missing, err := r.missingTransactions(ctx, ids)
	if err != nil {
		return nil, commonErrors.NewTransportError("failed to look up transactions", err)
	}
	if len(missing) > 0 {
		return nil, commonErrors.NewValidationError("unknown transactions in selection").WithDetail("ids", missing)
	}

	submissionID := r.newID()
	submittedAt := r.now().UTC()
	stamp := submittedAt.Format(time.RFC3339)

	update := expression.
		Set(expression.Name("giftAidStatus"), expression.Value(string(giftaid.StatusSubmitted))).
		Set(expression.Name("submissionId"), expression.Value(submissionID)).
		Set(expression.Name("submittedAt"), expression.Value(stamp))
	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build update expression", err)
	}

	for _, batch := range batches(ids, maxTransactItems) {
		writes := make([]types.TransactWriteItem, len(batch))
		for i, id := range batch {
			writes[i] = types.TransactWriteItem{
				Update: &types.Update{
					TableName:                 aws.String(r.table),
					Key:                       transactionKey(id),
					UpdateExpression:          expr.Update(),
					ConditionExpression:       expr.Condition(),
					ExpressionAttributeNames:  expr.Names(),
					ExpressionAttributeValues: expr.Values(),
				},
			}
		}

		_, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: writes})
		if err != nil {
			var canceled *types.TransactionCanceledException
			if errors.As(err, &canceled) && hasConditionFailure(canceled) {
				return nil, commonErrors.NewValidationError("unknown transactions in selection")
			}
			return nil, commonErrors.NewTransportError("failed to submit transactions", err)
		}
	}

	record, err := attributevalue.MarshalMap(submissionItem{
		PK:             "SUBMISSION#" + submissionID,
		SK:             "SUBMISSION",
		Type:           typeSubmission,
		SubmissionID:   submissionID,
		TransactionIDs: ids,
		SubmittedAt:    stamp,
	})
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to marshal submission", err)
	}
	if _, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      record,
	}); err != nil {
		// the transactions are already marked, only the receipt record is missing
		r.logger.Error("Failed to store submission record",
			zap.String("submissionId", submissionID),
			zap.Error(err),
		)
	}

	r.logger.Info("Gift aid submission stored",
		zap.String("submissionId", submissionID),
		zap.Int("count", len(ids)),
	)
	return &giftaid.SubmissionReceipt{
		SubmissionID: submissionID,
		SubmittedIDs: ids,
		SubmittedAt:  submittedAt,
	}, nil
}

func hasConditionFailure(canceled *types.TransactionCanceledException) bool {
	for _, reason := range canceled.CancellationReasons {
		if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

func (r *DynamoDBTransactionRepository) missingTransactions(ctx context.Context, ids []string) ([]string, error) {
	found := make(map[string]bool, len(ids))
	for _, batch := range batches(ids, maxBatchGet) {
		keys := make([]map[string]types.AttributeValue, len(batch))
		for i, id := range batch {
			keys[i] = transactionKey(id)
		}

		request := map[string]types.KeysAndAttributes{
			r.table: {
				Keys:                 keys,
				ProjectionExpression: aws.String("id"),
			},
		}
		for attempt := 0; len(request) > 0; attempt++ {
			if attempt > maxBatchRetries {
				return nil, fmt.Errorf("batch get left unprocessed keys after %d retries", maxBatchRetries)
			}
			out, err := r.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
			if err != nil {
				return nil, err
			}
			var rows []struct {
				ID string `dynamodbav:"id"`
			}
			if err := attributevalue.UnmarshalListOfMaps(out.Responses[r.table], &rows); err != nil {
				return nil, err
			}
			for _, row := range rows {
				found[row.ID] = true
			}
			request = out.UnprocessedKeys
		}
	}

	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// ProductOptions lists the products that can be used as a filter
func (r *DynamoDBTransactionRepository) ProductOptions(ctx context.Context) ([]giftaid.Option, error) {
	return r.options(ctx, typeProduct)
}

// CompanyOptions lists the companies that can be used as a filter
func (r *DynamoDBTransactionRepository) CompanyOptions(ctx context.Context) ([]giftaid.Option, error) {
	return r.options(ctx, typeCompany)
}

// StatusOptions returns the gift aid status picklist
func (r *DynamoDBTransactionRepository) StatusOptions(ctx context.Context) ([]giftaid.Option, error) {
	return giftaid.StatusOptions(), nil
}

func (r *DynamoDBTransactionRepository) options(ctx context.Context, itemType string) ([]giftaid.Option, error) {
	expr, err := expression.NewBuilder().
		WithFilter(expression.Name("Type").Equal(expression.Value(itemType))).
		Build()
	if err != nil {
		return nil, commonErrors.NewInternalError("failed to build expression", err)
	}

	items, err := r.scan(ctx, expr)
	if err != nil {
		return nil, commonErrors.NewTransportError("failed to load "+itemType+" options", err)
	}

	var rows []optionItem
	if err := attributevalue.UnmarshalListOfMaps(items, &rows); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal options", err)
	}

	options := make([]giftaid.Option, len(rows))
	for i, row := range rows {
		options[i] = giftaid.Option{Label: row.Name, Value: row.ID}
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Label < options[j].Label })
	return options, nil
}

// SaveTransactions writes transactions, overwriting existing ones
func (r *DynamoDBTransactionRepository) SaveTransactions(ctx context.Context, records []giftaid.RawRecord) error {
	items := make([]map[string]types.AttributeValue, 0, len(records))
	for _, record := range records {
		item, err := attributevalue.MarshalMap(toTransactionItem(record))
		if err != nil {
			return commonErrors.NewInternalError("failed to marshal transaction", err)
		}
		items = append(items, item)
	}
	return r.batchPut(ctx, items)
}

// SaveProducts writes product picker entries
func (r *DynamoDBTransactionRepository) SaveProducts(ctx context.Context, products []giftaid.Option) error {
	return r.saveOptions(ctx, typeProduct, "PRODUCT", products)
}

// SaveCompanies writes company picker entries
func (r *DynamoDBTransactionRepository) SaveCompanies(ctx context.Context, companies []giftaid.Option) error {
	return r.saveOptions(ctx, typeCompany, "COMPANY", companies)
}

func (r *DynamoDBTransactionRepository) saveOptions(ctx context.Context, itemType, prefix string, options []giftaid.Option) error {
	items := make([]map[string]types.AttributeValue, 0, len(options))
	for _, option := range options {
		item, err := attributevalue.MarshalMap(optionItem{
			PK:   prefix + "#" + option.Value,
			SK:   prefix,
			Type: itemType,
			ID:   option.Value,
			Name: option.Label,
		})
		if err != nil {
			return commonErrors.NewInternalError("failed to marshal option", err)
		}
		items = append(items, item)
	}
	return r.batchPut(ctx, items)
}

func (r *DynamoDBTransactionRepository) batchPut(ctx context.Context, items []map[string]types.AttributeValue) error {
	requests := make([]types.WriteRequest, len(items))
	for i, item := range items {
		requests[i] = types.WriteRequest{PutRequest: &types.PutRequest{Item: item}}
	}

	for _, batch := range batches(requests, maxBatchWrite) {
		pending := map[string][]types.WriteRequest{r.table: batch}
		for attempt := 0; len(pending) > 0; attempt++ {
			if attempt > maxBatchRetries {
				return commonErrors.NewTransportError("batch write left unprocessed items", nil)
			}
			out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return commonErrors.NewTransportError("failed to write items", err)
			}
			pending = out.UnprocessedItems
		}
	}
	return nil
}

func batches[T any](items []T, size int) [][]T {
	var out [][]T
	for size < len(items) {
		items, out = items[size:], append(out, items[:size])
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
