package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/id"
)

// CommentRepo provides typed DynamoDB operations for the comments table.
type CommentRepo struct {
	client    API
	tableName string
}

func NewCommentRepo(client API, tableName string) *CommentRepo {
	return &CommentRepo{client: client, tableName: tableName}
}

func (r *CommentRepo) Put(ctx context.Context, c *domain.Comment) error {
	return putNew(ctx, r.client, r.tableName, fieldCommentID, c, "comment")
}

func (r *CommentRepo) Get(ctx context.Context, commentID string) (*domain.Comment, error) {
	if err := id.Validate("commentId", commentID); err != nil {
		return nil, err
	}
	return getItem[domain.Comment](ctx, r.client, r.tableName, strKey(fieldCommentID, commentID), "comment")
}

func (r *CommentRepo) UpdateContent(ctx context.Context, commentID, content string) (*domain.Comment, error) {
	return updateItem[domain.Comment](ctx, r.client, r.tableName, strKey(fieldCommentID, commentID), fieldCommentID,
		map[string]any{"content": content}, "comment")
}

func (r *CommentRepo) Delete(ctx context.Context, commentID string) (*domain.Comment, error) {
	if err := id.Validate("commentId", commentID); err != nil {
		return nil, err
	}
	return deleteItem[domain.Comment](ctx, r.client, r.tableName, strKey(fieldCommentID, commentID), "comment")
}

// ListByVideo pages through a video's comments, newest first.
func (r *CommentRepo) ListByVideo(ctx context.Context, videoID string, pr domain.PageRequest) (domain.Page[domain.Comment], error) {
	return queryPage[domain.Comment](ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexCommentsByVideo),
		KeyConditionExpression:    aws.String("video_id = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": strVal(videoID)},
		ScanIndexForward:          aws.Bool(false),
	}, pr)
}
