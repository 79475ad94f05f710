package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/id"
)

// UserRepo provides typed DynamoDB operations for the users table. Username and
// email uniqueness is enforced by guard items in a second table, written in the
// same transaction as the user.
type UserRepo struct {
	client       API
	tableName    string
	uniquesTable string
}

func NewUserRepo(client API, tableName, uniquesTable string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName, uniquesTable: uniquesTable}
}

func usernameGuard(username string) string { return "username#" + strings.ToLower(username) }
func emailGuard(email string) string       { return "email#" + strings.ToLower(email) }

func (r *UserRepo) guardPut(key, userID string) *types.Put {
	return &types.Put{
		TableName: aws.String(r.uniquesTable),
		Item: map[string]types.AttributeValue{
			fieldUniqueKey: strVal(key),
			fieldUserID:    strVal(userID),
		},
		ConditionExpression: aws.String("attribute_not_exists(unique_key)"),
	}
}

// Create stores a new user. A taken username or email yields *domain.DuplicateError.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(r.tableName),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(user_id)"),
			}},
			{Put: r.guardPut(usernameGuard(u.Username), u.UserID)},
			{Put: r.guardPut(emailGuard(u.Email), u.UserID)},
		},
	})
	if err != nil {
		return txConflict(err, "create user", []*domain.DuplicateError{
			nil,
			{Field: "username", Value: u.Username},
			{Field: "email", Value: u.Email},
		})
	}
	return nil
}

// txConflict maps a cancelled transaction onto the duplicate error registered
// for the first failing item. dups is indexed like the transaction items.
func txConflict(err error, op string, dups []*domain.DuplicateError) error {
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for i, reason := range tce.CancellationReasons {
			if aws.ToString(reason.Code) != "ConditionalCheckFailed" {
				continue
			}
			if i < len(dups) && dups[i] != nil {
				return dups[i]
			}
			return fmt.Errorf("%s: concurrent modification: %w", op, domain.ErrConflict)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	if err := id.Validate("userId", userID); err != nil {
		return nil, err
	}
	return getItem[domain.User](ctx, r.client, r.tableName, strKey(fieldUserID, userID), "user")
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.queryGSI(ctx, indexUsername, "username", strings.ToLower(username))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.queryGSI(ctx, indexEmail, "email", strings.ToLower(email))
}

// Update sets the given attributes and returns the updated user.
func (r *UserRepo) Update(ctx context.Context, userID string, updates map[string]any) (*domain.User, error) {
	return updateItem[domain.User](ctx, r.client, r.tableName, strKey(fieldUserID, userID), fieldUserID, updates, "user")
}

// UpdateAccount changes the full name and email. A new email moves the email
// guard in the same transaction; an email owned by someone else yields
// *domain.DuplicateError.
func (r *UserRepo) UpdateAccount(ctx context.Context, u *domain.User, fullName, email string) (*domain.User, error) {
	email = strings.ToLower(email)
	if email == strings.ToLower(u.Email) {
		return r.Update(ctx, u.UserID, map[string]any{"full_name": fullName})
	}

	values, err := attributevalue.MarshalMap(map[string]any{
		":f":   fullName,
		":e":   email,
		":old": u.Email,
		":t":   now(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal account update: %w", err)
	}
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Update: &types.Update{
				TableName:                 aws.String(r.tableName),
				Key:                       strKey(fieldUserID, u.UserID),
				UpdateExpression:          aws.String("SET full_name = :f, email = :e, updated_at = :t"),
				ConditionExpression:       aws.String("email = :old"),
				ExpressionAttributeValues: values,
			}},
			{Put: r.guardPut(emailGuard(email), u.UserID)},
			{Delete: &types.Delete{
				TableName: aws.String(r.uniquesTable),
				Key:       strKey(fieldUniqueKey, emailGuard(u.Email)),
			}},
		},
	})
	if err != nil {
		return nil, txConflict(err, "update account", []*domain.DuplicateError{
			nil,
			{Field: "email", Value: email},
		})
	}
	return r.Get(ctx, u.UserID)
}

// AppendHistory records a watched video at the end of the user's history.
func (r *UserRepo) AppendHistory(ctx context.Context, userID, videoID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey(fieldUserID, userID),
		UpdateExpression: aws.String("SET #h = list_append(if_not_exists(#h, :empty), :v)"),
		ExpressionAttributeNames: map[string]string{
			"#h": fieldWatchHistory,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":v":     &types.AttributeValueMemberL{Value: []types.AttributeValue{strVal(videoID)}},
		},
		ConditionExpression: aws.String("attribute_exists(user_id)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return notFound("user")
		}
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// BatchGet loads several users. Unknown ids are skipped.
func (r *UserRepo) BatchGet(ctx context.Context, userIDs []string) ([]domain.User, error) {
	return batchGet[domain.User](ctx, r.client, r.tableName, fieldUserID, userIDs)
}

func (r *UserRepo) queryGSI(ctx context.Context, index, attr, value string) (*domain.User, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(index),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": attr},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": strVal(value)},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("query user by %s: %w", attr, err)
	}
	if len(out.Items) == 0 {
		return nil, notFound("user")
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &u); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &u, nil
}
