package dynamo

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jun/noteful/internal/model"
	"github.com/jun/noteful/internal/store"
)

type userItem struct {
	Username     string `dynamodbav:"username"`
	ID           string `dynamodbav:"id"`
	Fullname     string `dynamodbav:"fullname"`
	PasswordHash string `dynamodbav:"password_hash"`
}

func (i *userItem) toModel() *model.User {
	return &model.User{
		ID:           i.ID,
		Username:     i.Username,
		Fullname:     i.Fullname,
		PasswordHash: i.PasswordHash,
	}
}

// CreateUser inserts a new user. The Users table is keyed by username, so
// uniqueness is enforced by the store itself: a conditional put that fails
// its existence check surfaces as store.ErrConflict.
func (s *Store) CreateUser(ctx context.Context, username, fullname, passwordHash string) (*model.User, error) {
	item := &userItem{
		Username:     username,
		ID:           newID(),
		Fullname:     fullname,
		PasswordHash: passwordHash,
	}

	if s.client == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.users[username]; ok {
			return nil, store.ErrConflict
		}
		s.users[username] = item
		return item.toModel(), nil
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, err
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           usersTable(),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(username)"),
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	return item.toModel(), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if s.client == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		item, ok := s.users[username]
		if !ok {
			return nil, store.ErrNotFound
		}
		return item.toModel(), nil
	}

	var item userItem
	if err := s.getByPK(ctx, usersTable(), "username", username, &item); err != nil {
		return nil, err
	}
	return item.toModel(), nil
}
