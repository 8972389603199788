package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Index names expected on the videos and partners tables.
const (
	statusIndexName = "StatusIndex"
	apiKeyIndexName = "ApiKeyIndex"
)

// DynamoConfig configures the DynamoDB-backed store.
type DynamoConfig struct {
	Region        string
	VideosTable   string
	PartnersTable string

	// Optional static credentials. When empty the default provider chain is
	// used.
	AccessKeyID     string
	SecretAccessKey string
}

// Dynamo implements Store against DynamoDB.
type Dynamo struct {
	client        *dynamodb.Client
	videosTable   string
	partnersTable string
}

var _ Store = (*Dynamo)(nil)

// NewDynamo constructs a DynamoDB store. Construction resolves the AWS
// configuration but performs no network call; reachability is established by
// Probe on each request.
func NewDynamo(ctx context.Context, cfg DynamoConfig) (*Dynamo, error) {
	if cfg.VideosTable == "" || cfg.PartnersTable == "" {
		return nil, fmt.Errorf("videos and partners table names are required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Dynamo{
		client:        dynamodb.NewFromConfig(awsCfg),
		videosTable:   cfg.VideosTable,
		partnersTable: cfg.PartnersTable,
	}, nil
}

// Probe lists at most one table name. A single attempt; callers decide what a
// failure means.
func (d *Dynamo) Probe(ctx context.Context) error {
	_, err := d.client.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(1)})
	if err != nil {
		return fmt.Errorf("probe document store: %w", err)
	}
	return nil
}

// VideosByStatus queries the status index. ScanIndexForward is inverted when
// the caller asks for most-recent-first ordering.
func (d *Dynamo) VideosByStatus(ctx context.Context, status string, mostRecentFirst bool) ([]Item, error) {
	out, err := d.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(d.videosTable),
		IndexName:              aws.String(statusIndexName),
		KeyConditionExpression: aws.String("#status = :status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":status": &ddbtypes.AttributeValueMemberS{Value: status},
		},
		ScanIndexForward: aws.Bool(!mostRecentFirst),
	})
	if err != nil {
		return nil, fmt.Errorf("query videos by status %q: %w", status, err)
	}
	return decodeItems(out.Items)
}

// Partners scans the partners table without a filter.
func (d *Dynamo) Partners(ctx context.Context) ([]Item, error) {
	out, err := d.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(d.partnersTable),
	})
	if err != nil {
		return nil, fmt.Errorf("scan partners: %w", err)
	}
	return decodeItems(out.Items)
}

// PartnerByAPIKey queries the API key index for an exact match.
func (d *Dynamo) PartnerByAPIKey(ctx context.Context, apiKey string) (Item, bool, error) {
	out, err := d.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(d.partnersTable),
		IndexName:              aws.String(apiKeyIndexName),
		KeyConditionExpression: aws.String("apiKey = :apiKey"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":apiKey": &ddbtypes.AttributeValueMemberS{Value: apiKey},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, false, fmt.Errorf("query partner by api key: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, false, nil
	}
	items, err := decodeItems(out.Items[:1])
	if err != nil {
		return nil, false, err
	}
	return items[0], true, nil
}

// PutVideo writes a single video item.
func (d *Dynamo) PutVideo(ctx context.Context, item Item) error {
	encoded, err := attributevalue.MarshalMap(map[string]any(item))
	if err != nil {
		return fmt.Errorf("encode video item: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.videosTable),
		Item:      encoded,
	})
	if err != nil {
		return fmt.Errorf("put video item: %w", err)
	}
	return nil
}

// Sample scans up to limit items from the named table.
func (d *Dynamo) Sample(ctx context.Context, table string, limit int32) ([]Item, error) {
	if limit <= 0 {
		limit = 3
	}
	out, err := d.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(table),
		Limit:     aws.Int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("sample table %q: %w", table, err)
	}
	return decodeItems(out.Items)
}

func decodeItems(raw []map[string]ddbtypes.AttributeValue) ([]Item, error) {
	items := make([]Item, 0, len(raw))
	for _, attrs := range raw {
		var decoded map[string]any
		if err := attributevalue.UnmarshalMap(attrs, &decoded); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		items = append(items, Item(decoded))
	}
	return items, nil
}
