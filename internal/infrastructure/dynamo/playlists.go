package dynamo

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/id"
)

// PlaylistRepo provides typed DynamoDB operations for the playlists table.
// Video ids live in a string set, so adding a video twice keeps one entry.
type PlaylistRepo struct {
	client    API
	tableName string
}

func NewPlaylistRepo(client API, tableName string) *PlaylistRepo {
	return &PlaylistRepo{client: client, tableName: tableName}
}

func (r *PlaylistRepo) Put(ctx context.Context, p *domain.Playlist) error {
	return putNew(ctx, r.client, r.tableName, fieldPlaylistID, p, "playlist")
}

func (r *PlaylistRepo) Get(ctx context.Context, playlistID string) (*domain.Playlist, error) {
	if err := id.Validate("playlistId", playlistID); err != nil {
		return nil, err
	}
	return getItem[domain.Playlist](ctx, r.client, r.tableName, strKey(fieldPlaylistID, playlistID), "playlist")
}

func (r *PlaylistRepo) UpdateDetails(ctx context.Context, playlistID, name, description string) (*domain.Playlist, error) {
	return updateItem[domain.Playlist](ctx, r.client, r.tableName, strKey(fieldPlaylistID, playlistID), fieldPlaylistID,
		map[string]any{"name": name, "description": description}, "playlist")
}

func (r *PlaylistRepo) Delete(ctx context.Context, playlistID string) (*domain.Playlist, error) {
	if err := id.Validate("playlistId", playlistID); err != nil {
		return nil, err
	}
	return deleteItem[domain.Playlist](ctx, r.client, r.tableName, strKey(fieldPlaylistID, playlistID), "playlist")
}

// AddVideo adds videoID to the playlist's video set.
func (r *PlaylistRepo) AddVideo(ctx context.Context, playlistID, videoID string) (*domain.Playlist, error) {
	return r.modifySet(ctx, playlistID, videoID, "ADD")
}

// RemoveVideo removes videoID from the playlist's video set. Removing an
// absent video leaves the set unchanged.
func (r *PlaylistRepo) RemoveVideo(ctx context.Context, playlistID, videoID string) (*domain.Playlist, error) {
	return r.modifySet(ctx, playlistID, videoID, "DELETE")
}

func (r *PlaylistRepo) modifySet(ctx context.Context, playlistID, videoID, action string) (*domain.Playlist, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey(fieldPlaylistID, playlistID),
		UpdateExpression:    aws.String(action + " #vids :v SET #u = :now"),
		ConditionExpression: aws.String("attribute_exists(playlist_id)"),
		ExpressionAttributeNames: map[string]string{
			"#vids": fieldVideoIDs,
			"#u":    fieldUpdatedAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v":   &types.AttributeValueMemberSS{Value: []string{videoID}},
			":now": timeVal(now()),
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	return unmarshalUpdated[domain.Playlist](out, err, "playlist")
}

// ListByOwner pages through a user's playlists, newest first.
func (r *PlaylistRepo) ListByOwner(ctx context.Context, ownerID string, pr domain.PageRequest) (domain.Page[domain.Playlist], error) {
	return queryPage[domain.Playlist](ctx, r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexPlaylistsByUser),
		KeyConditionExpression:    aws.String("owner_id = :o"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":o": strVal(ownerID)},
		ScanIndexForward:          aws.Bool(false),
	}, pr)
}
