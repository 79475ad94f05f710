package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/go-video-api/internal/domain"
)

// LikeRepo stores one item per (target, user) pair. The partition key is the
// liked resource ("video#<id>"), so counting likes is a single query.
type LikeRepo struct {
	client    API
	tableName string
}

func NewLikeRepo(client API, tableName string) *LikeRepo {
	return &LikeRepo{client: client, tableName: tableName}
}

// Toggle likes the target when userID has not liked it yet, and unlikes it
// otherwise. It reports whether the target is liked afterwards.
func (r *LikeRepo) Toggle(ctx context.Context, kind domain.LikeTarget, targetID, userID string) (bool, error) {
	key := compositeKey(fieldTarget, kind.Key(targetID), fieldLikedBy, userID)
	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.tableName),
		Key:          key,
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, fmt.Errorf("unlike: %w", err)
	}
	if len(out.Attributes) > 0 {
		return false, nil
	}

	item, err := attributevalue.MarshalMap(domain.Like{
		Target:     kind.Key(targetID),
		LikedBy:    userID,
		TargetType: kind,
		TargetID:   targetID,
		CreatedAt:  now(),
	})
	if err != nil {
		return false, fmt.Errorf("marshal like: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(#t)"),
		ExpressionAttributeNames: map[string]string{
			"#t": fieldTarget,
		},
	})
	if err != nil && !isConditionFailed(err) {
		return false, fmt.Errorf("like: %w", err)
	}
	return true, nil
}

func (r *LikeRepo) IsLiked(ctx context.Context, kind domain.LikeTarget, targetID, userID string) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(r.tableName),
		Key:                  compositeKey(fieldTarget, kind.Key(targetID), fieldLikedBy, userID),
		ProjectionExpression: aws.String("#t"),
		ExpressionAttributeNames: map[string]string{
			"#t": fieldTarget,
		},
	})
	if err != nil {
		return false, fmt.Errorf("get like: %w", err)
	}
	return len(out.Item) > 0, nil
}

func (r *LikeRepo) Count(ctx context.Context, kind domain.LikeTarget, targetID string) (int, error) {
	return countQuery(ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    aws.String("#t = :t"),
		ExpressionAttributeNames:  map[string]string{"#t": fieldTarget},
		ExpressionAttributeValues: map[string]types.AttributeValue{":t": strVal(kind.Key(targetID))},
	})
}

// ListByUser pages through the likes a user gave to targets of one kind.
func (r *LikeRepo) ListByUser(ctx context.Context, userID string, kind domain.LikeTarget, pr domain.PageRequest) (domain.Page[domain.Like], error) {
	return queryPage[domain.Like](ctx, r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexLikesByUser),
		KeyConditionExpression: aws.String("#u = :u AND begins_with(#t, :prefix)"),
		ExpressionAttributeNames: map[string]string{
			"#u": fieldLikedBy,
			"#t": fieldTarget,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u":      strVal(userID),
			":prefix": strVal(kind.Key("")),
		},
		ScanIndexForward: aws.Bool(false),
	}, pr)
}
