package dynamo

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/id"
)

// VideoRepo provides typed DynamoDB operations for the videos table.
//
// Published videos carry feed_key, so the feed index only holds what the
// public listing may show.
type VideoRepo struct {
	client    API
	tableName string
}

func NewVideoRepo(client API, tableName string) *VideoRepo {
	return &VideoRepo{client: client, tableName: tableName}
}

func (r *VideoRepo) Put(ctx context.Context, v *domain.Video) error {
	v.Index()
	return putNew(ctx, r.client, r.tableName, fieldVideoID, v, "video")
}

func (r *VideoRepo) Get(ctx context.Context, videoID string) (*domain.Video, error) {
	if err := id.Validate("videoId", videoID); err != nil {
		return nil, err
	}
	return getItem[domain.Video](ctx, r.client, r.tableName, strKey(fieldVideoID, videoID), "video")
}

// UpdateDetails replaces title, description and, when non-empty, the thumbnail.
func (r *VideoRepo) UpdateDetails(ctx context.Context, v *domain.Video) (*domain.Video, error) {
	v.Index()
	updates := map[string]any{
		"title":         v.Title,
		"description":   v.Description,
		fieldSearchText: v.SearchText,
	}
	if v.Thumbnail != "" {
		updates["thumbnail"] = v.Thumbnail
	}
	return updateItem[domain.Video](ctx, r.client, r.tableName, strKey(fieldVideoID, v.VideoID), fieldVideoID, updates, "video")
}

// SetPublished flips visibility and keeps the sparse feed index in step.
func (r *VideoRepo) SetPublished(ctx context.Context, videoID string, published bool) (*domain.Video, error) {
	expr := "SET #p = :p, #u = :now"
	names := map[string]string{"#p": fieldIsPublished, "#u": fieldUpdatedAt, "#fk": fieldFeedKey}
	values := map[string]types.AttributeValue{
		":p":   &types.AttributeValueMemberBOOL{Value: published},
		":now": timeVal(now()),
	}
	if published {
		expr += ", #fk = :fk"
		values[":fk"] = strVal(domain.FeedPublished)
	} else {
		expr += " REMOVE #fk"
	}
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldVideoID, videoID),
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("attribute_exists(video_id)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	return unmarshalUpdated[domain.Video](out, err, "video")
}

// IncrementViews atomically adds one view and returns the updated video.
func (r *VideoRepo) IncrementViews(ctx context.Context, videoID string) (*domain.Video, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldVideoID, videoID),
		UpdateExpression:          aws.String("ADD #v :one"),
		ConditionExpression:       aws.String("attribute_exists(video_id)"),
		ExpressionAttributeNames:  map[string]string{"#v": fieldViews},
		ExpressionAttributeValues: map[string]types.AttributeValue{":one": &types.AttributeValueMemberN{Value: "1"}},
		ReturnValues:              types.ReturnValueAllNew,
	})
	return unmarshalUpdated[domain.Video](out, err, "video")
}

func (r *VideoRepo) Delete(ctx context.Context, videoID string) (*domain.Video, error) {
	if err := id.Validate("videoId", videoID); err != nil {
		return nil, err
	}
	return deleteItem[domain.Video](ctx, r.client, r.tableName, strKey(fieldVideoID, videoID), "video")
}

// ListPublished pages through published videos, optionally of one owner and
// matching q.Text in the title or description.
func (r *VideoRepo) ListPublished(ctx context.Context, q domain.VideoQuery) (domain.Page[domain.Video], error) {
	in := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		ScanIndexForward:          aws.Bool(q.Ascending),
		ExpressionAttributeNames:  map[string]string{},
		ExpressionAttributeValues: map[string]types.AttributeValue{},
	}
	var filters []string
	if q.OwnerID != "" {
		in.IndexName = aws.String(indexVideosByOwner)
		in.KeyConditionExpression = aws.String("#o = :o")
		in.ExpressionAttributeNames["#o"] = fieldOwnerID
		in.ExpressionAttributeValues[":o"] = strVal(q.OwnerID)
		filters = append(filters, "#p = :true")
		in.ExpressionAttributeNames["#p"] = fieldIsPublished
		in.ExpressionAttributeValues[":true"] = &types.AttributeValueMemberBOOL{Value: true}
	} else {
		in.IndexName = aws.String(indexFeed)
		in.KeyConditionExpression = aws.String("#fk = :fk")
		in.ExpressionAttributeNames["#fk"] = fieldFeedKey
		in.ExpressionAttributeValues[":fk"] = strVal(domain.FeedPublished)
	}
	if text := strings.ToLower(strings.TrimSpace(q.Text)); text != "" {
		filters = append(filters, "contains(#st, :text)")
		in.ExpressionAttributeNames["#st"] = fieldSearchText
		in.ExpressionAttributeValues[":text"] = strVal(text)
	}
	if len(filters) > 0 {
		in.FilterExpression = aws.String(strings.Join(filters, " AND "))
	}
	return queryPage[domain.Video](ctx, r.client, in, q.PageRequest)
}

// ListByOwner pages through all of an owner's videos, newest first.
func (r *VideoRepo) ListByOwner(ctx context.Context, ownerID string, pr domain.PageRequest) (domain.Page[domain.Video], error) {
	return queryPage[domain.Video](ctx, r.client, r.ownerQuery(ownerID), pr)
}

// AllByOwner returns every video of an owner, newest first.
func (r *VideoRepo) AllByOwner(ctx context.Context, ownerID string) ([]domain.Video, error) {
	return queryAll[domain.Video](ctx, r.client, r.ownerQuery(ownerID))
}

// LatestPublished returns the owner's newest published video, or nil.
func (r *VideoRepo) LatestPublished(ctx context.Context, ownerID string) (*domain.Video, error) {
	in := r.ownerQuery(ownerID)
	in.FilterExpression = aws.String("#p = :true")
	in.ExpressionAttributeNames = map[string]string{"#p": fieldIsPublished}
	in.ExpressionAttributeValues[":true"] = &types.AttributeValueMemberBOOL{Value: true}
	in.Limit = aws.Int32(10)

	p := dynamodb.NewQueryPaginator(r.client, in)
	for p.HasMorePages() {
		page, err := queryNext[domain.Video](ctx, p)
		if err != nil {
			return nil, err
		}
		if len(page) > 0 {
			return &page[0], nil
		}
	}
	return nil, nil
}

// BatchGet loads videos in the order of videoIDs, skipping unknown ids.
func (r *VideoRepo) BatchGet(ctx context.Context, videoIDs []string) ([]domain.Video, error) {
	items, err := batchGet[domain.Video](ctx, r.client, r.tableName, fieldVideoID, videoIDs)
	if err != nil {
		return nil, err
	}
	return orderByIDs(items, videoIDs, func(v domain.Video) string { return v.VideoID }), nil
}

func (r *VideoRepo) ownerQuery(ownerID string) *dynamodb.QueryInput {
	return &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexVideosByOwner),
		KeyConditionExpression:    aws.String("owner_id = :o"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":o": strVal(ownerID)},
		ScanIndexForward:          aws.Bool(false),
	}
}
