package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dshills/customindent/internal/indent"
)

// DynamoAPI is the subset of the DynamoDB client the backend uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoOptions configures NewDynamoBackend.
type DynamoOptions struct {
	Table    string
	Region   string
	Endpoint string // optional, e.g. DynamoDB Local
	Profile  string // partition key suffix; one item per profile
}

// DynamoBackend persists preferences as one DynamoDB item per profile.
type DynamoBackend struct {
	client  DynamoAPI
	table   string
	profile string
	now     func() time.Time
}

// NewDynamoBackend loads the default AWS configuration and returns a backend.
func NewDynamoBackend(ctx context.Context, opts DynamoOptions) (*DynamoBackend, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.Endpoint != "" {
		loadOpts = append(loadOpts, awsconfig.WithBaseEndpoint(opts.Endpoint))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: loading AWS config: %w", indent.ErrStorageUnavailable, err)
	}

	return NewDynamoBackendWithClient(dynamodb.NewFromConfig(awsCfg), opts.Table, opts.Profile), nil
}

// NewDynamoBackendWithClient creates a backend over an existing client.
func NewDynamoBackendWithClient(client DynamoAPI, table, profile string) *DynamoBackend {
	if profile == "" {
		profile = "default"
	}
	return &DynamoBackend{
		client:  client,
		table:   table,
		profile: profile,
		now:     time.Now,
	}
}

// Location returns "dynamodb://<table>/<profile>".
func (b *DynamoBackend) Location() string {
	return "dynamodb://" + b.table + "/" + b.profile
}

func (b *DynamoBackend) key() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "PROFILE#" + b.profile},
	}
}

// Load fetches the profile item. A missing item is reported as not found.
func (b *DynamoBackend) Load(ctx context.Context) (map[indent.LanguageID]indent.Preference, bool, error) {
	out, err := b.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(b.table),
		Key:            b.key(),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, fmt.Errorf("%w: GetItem: %w", indent.ErrStorageUnavailable, err)
	}
	if out.Item == nil {
		return nil, false, nil
	}

	prefs, err := unmarshalItem(out.Item)
	if err != nil {
		return nil, false, err
	}
	return prefs, true, nil
}

// Save replaces the profile item.
func (b *DynamoBackend) Save(ctx context.Context, prefs map[indent.LanguageID]indent.Preference) error {
	langs := make(map[string]types.AttributeValue, len(prefs))
	for id, p := range prefs {
		langs[string(id)] = &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"tab_width":  &types.AttributeValueMemberN{Value: strconv.Itoa(p.TabWidth)},
			"use_spaces": &types.AttributeValueMemberBOOL{Value: p.UseSpaces},
		}}
	}

	item := b.key()
	item["version"] = &types.AttributeValueMemberS{Value: SchemaVersion}
	item["languages"] = &types.AttributeValueMemberM{Value: langs}
	item["updatedAt"] = &types.AttributeValueMemberS{Value: b.now().UTC().Format(time.RFC3339)}

	_, err := b.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(b.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("%w: PutItem: %w", indent.ErrStorageUnavailable, err)
	}
	return nil
}

// unmarshalItem extracts the preference mapping from a profile item.
func unmarshalItem(item map[string]types.AttributeValue) (map[indent.LanguageID]indent.Preference, error) {
	doc := document{Languages: make(map[string]record)}

	if v, ok := item["version"].(*types.AttributeValueMemberS); ok {
		doc.Version = v.Value
	}

	if attr, ok := item["languages"]; ok {
		langs, ok := attr.(*types.AttributeValueMemberM)
		if !ok {
			return nil, fmt.Errorf("%w: languages attribute is not a map", indent.ErrMalformedStorage)
		}
		for id, v := range langs.Value {
			m, ok := v.(*types.AttributeValueMemberM)
			if !ok {
				return nil, fmt.Errorf("%w: language %q is not a map", indent.ErrMalformedStorage, id)
			}
			var rec record
			if n, ok := m.Value["tab_width"].(*types.AttributeValueMemberN); ok {
				width, err := strconv.Atoi(n.Value)
				if err != nil {
					return nil, fmt.Errorf("%w: language %q: tab_width %q", indent.ErrMalformedStorage, id, n.Value)
				}
				rec.TabWidth = &width
			}
			if s, ok := m.Value["use_spaces"].(*types.AttributeValueMemberBOOL); ok {
				spaces := s.Value
				rec.UseSpaces = &spaces
			}
			doc.Languages[id] = rec
		}
	}

	return doc.toPreferences()
}

var _ indent.Backend = (*DynamoBackend)(nil)
