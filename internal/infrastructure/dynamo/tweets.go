package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/id"
)

// TweetRepo provides typed DynamoDB operations for the tweets table.
type TweetRepo struct {
	client    API
	tableName string
}

func NewTweetRepo(client API, tableName string) *TweetRepo {
	return &TweetRepo{client: client, tableName: tableName}
}

func (r *TweetRepo) Put(ctx context.Context, t *domain.Tweet) error {
	return putNew(ctx, r.client, r.tableName, fieldTweetID, t, "tweet")
}

func (r *TweetRepo) Get(ctx context.Context, tweetID string) (*domain.Tweet, error) {
	if err := id.Validate("tweetId", tweetID); err != nil {
		return nil, err
	}
	return getItem[domain.Tweet](ctx, r.client, r.tableName, strKey(fieldTweetID, tweetID), "tweet")
}

func (r *TweetRepo) UpdateContent(ctx context.Context, tweetID, content string) (*domain.Tweet, error) {
	return updateItem[domain.Tweet](ctx, r.client, r.tableName, strKey(fieldTweetID, tweetID), fieldTweetID,
		map[string]any{"content": content}, "tweet")
}

func (r *TweetRepo) Delete(ctx context.Context, tweetID string) (*domain.Tweet, error) {
	if err := id.Validate("tweetId", tweetID); err != nil {
		return nil, err
	}
	return deleteItem[domain.Tweet](ctx, r.client, r.tableName, strKey(fieldTweetID, tweetID), "tweet")
}

// ListByOwner pages through a user's tweets, newest first.
func (r *TweetRepo) ListByOwner(ctx context.Context, ownerID string, pr domain.PageRequest) (domain.Page[domain.Tweet], error) {
	return queryPage[domain.Tweet](ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexTweetsByOwner),
		KeyConditionExpression:    aws.String("owner_id = :o"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":o": strVal(ownerID)},
		ScanIndexForward:          aws.Bool(false),
	}, pr)
}
