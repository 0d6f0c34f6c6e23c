// Package dynamo implements store.Store on DynamoDB.
// If client is nil it falls back to in-process maps, which keeps tests and
// DEV_MODE hermetic while exercising the same code paths above the
// persistence calls.
package dynamo

import (
	"context"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/jun/noteful/internal/store"
)

func tableName(envVar, fallback string) *string {
	name := os.Getenv(envVar)
	if name == "" {
		name = fallback
	}
	return aws.String(name)
}

func foldersTable() *string { return tableName("FOLDERS_TABLE", "Folders") }
func notesTable() *string   { return tableName("NOTES_TABLE", "Notes") }
func tagsTable() *string    { return tableName("TAGS_TABLE", "Tags") }
func usersTable() *string   { return tableName("USERS_TABLE", "Users") }

// Store implements store.Store. All tables use "pk" as the partition key
// except Users, which is keyed by username so the uniqueness constraint is
// enforced by a conditional put.
type Store struct {
	client *dynamodb.Client

	// Fallback for tests and DEV_MODE
	mu      sync.RWMutex
	folders map[string]*folderItem
	tags    map[string]*tagItem
	notes   map[string]*noteItem
	users   map[string]*userItem // keyed by username
}

// NewStore returns a Store backed by DynamoDB, or by in-process maps when
// client is nil.
func NewStore(client *dynamodb.Client) *Store {
	return &Store{
		client:  client,
		folders: make(map[string]*folderItem),
		tags:    make(map[string]*tagItem),
		notes:   make(map[string]*noteItem),
		users:   make(map[string]*userItem),
	}
}

var _ store.Store = (*Store)(nil)

// IsValidID reports whether id has the shape of the store's native IDs.
// Records are keyed by UUIDs, so anything uuid.Parse rejects can never
// match and is reported invalid before a lookup is attempted.
func (s *Store) IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func newID() string {
	return uuid.New().String()
}

// scanOwned loads every item in table belonging to ownerID into out,
// which must be a pointer to a slice of item structs.
func (s *Store) scanOwned(ctx context.Context, table *string, ownerID string, out any) error {
	res, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        table,
		FilterExpression: aws.String("owner_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: ownerID},
		},
	})
	if err != nil {
		return err
	}
	return attributevalue.UnmarshalListOfMaps(res.Items, out)
}

// getByPK loads a single item by partition key. Ownership is checked by
// the callers after unmarshalling; a foreign record is reported as
// store.ErrNotFound, indistinguishable from a missing one.
func (s *Store) getByPK(ctx context.Context, table *string, keyAttr, key string, out any) error {
	res, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: table,
		Key: map[string]types.AttributeValue{
			keyAttr: &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return err
	}
	if res.Item == nil {
		return store.ErrNotFound
	}
	return attributevalue.UnmarshalMap(res.Item, out)
}

func (s *Store) putItem(ctx context.Context, table *string, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: table,
		Item:      av,
	})
	return err
}

func (s *Store) deleteByPK(ctx context.Context, table *string, keyAttr, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: table,
		Key: map[string]types.AttributeValue{
			keyAttr: &types.AttributeValueMemberS{Value: key},
		},
	})
	return err
}
