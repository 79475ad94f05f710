package dynamo

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/go-video-api/internal/config"
)

// Bootstrap creates all DynamoDB tables and GSIs if they don't already exist.
// Safe to call on every startup: tables that already exist are skipped.
func Bootstrap(ctx context.Context, client API, tables config.DynamoTables) {
	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Users),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs("user_id", "username", "email"),
		KeySchema:            keySchema("user_id", ""),
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi(indexUsername, "username", ""),
			gsi(indexEmail, "email", ""),
		},
	})

	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Uniques),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs("unique_key"),
		KeySchema:            keySchema("unique_key", ""),
	})

	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Sessions),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs("session_id", "user_id"),
		KeySchema:            keySchema("session_id", ""),
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi(indexSessionsByUser, "user_id", ""),
		},
	})
	enableTTL(ctx, client, tables.Sessions, fieldExpiresAt)

	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Videos),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs("video_id", "owner_id", "feed_key"),
		KeySchema:            keySchema("video_id", ""),
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi(indexVideosByOwner, "owner_id", "video_id"),
			gsi(indexFeed, "feed_key", "video_id"),
		},
	})

	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Comments),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs("comment_id", "video_id"),
		KeySchema:            keySchema("comment_id", ""),
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi(indexCommentsByVideo, "video_id", "comment_id"),
		},
	})

	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Likes),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs("target", "liked_by"),
		KeySchema:            keySchema("target", "liked_by"),
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi(indexLikesByUser, "liked_by", "target"),
		},
	})

	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Subscriptions),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs("subscriber_id", "channel_id"),
		KeySchema:            keySchema("subscriber_id", "channel_id"),
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi(indexSubscribers, "channel_id", "subscriber_id"),
		},
	})

	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Playlists),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs("playlist_id", "owner_id"),
		KeySchema:            keySchema("playlist_id", ""),
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi(indexPlaylistsByUser, "owner_id", "playlist_id"),
		},
	})

	createTable(ctx, client, &dynamodb.CreateTableInput{
		TableName:            aws.String(tables.Tweets),
		BillingMode:          types.BillingModePayPerRequest,
		AttributeDefinitions: attrs("tweet_id", "owner_id"),
		KeySchema:            keySchema("tweet_id", ""),
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			gsi(indexTweetsByOwner, "owner_id", "tweet_id"),
		},
	})
}

// attrs declares string key attributes.
func attrs(names ...string) []types.AttributeDefinition {
	defs := make([]types.AttributeDefinition, len(names))
	for i, n := range names {
		defs[i] = types.AttributeDefinition{AttributeName: aws.String(n), AttributeType: types.ScalarAttributeTypeS}
	}
	return defs
}

// keySchema builds a key schema. If sortKey is empty, only a hash key is added.
func keySchema(hashKey, sortKey string) []types.KeySchemaElement {
	ks := []types.KeySchemaElement{
		{AttributeName: aws.String(hashKey), KeyType: types.KeyTypeHash},
	}
	if sortKey != "" {
		ks = append(ks, types.KeySchemaElement{
			AttributeName: aws.String(sortKey), KeyType: types.KeyTypeRange,
		})
	}
	return ks
}

// gsi builds a GSI descriptor projecting all attributes.
func gsi(indexName, hashKey, sortKey string) types.GlobalSecondaryIndex {
	return types.GlobalSecondaryIndex{
		IndexName:  aws.String(indexName),
		KeySchema:  keySchema(hashKey, sortKey),
		Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
	}
}

func createTable(ctx context.Context, client API, input *dynamodb.CreateTableInput) {
	_, err := client.CreateTable(ctx, input)
	if err != nil {
		// ResourceInUseException means the table already exists.
		var riue *types.ResourceInUseException
		if !errors.As(err, &riue) {
			log.Warn().Err(err).Str("table", *input.TableName).Msg("could not create table")
		}
		return
	}
	log.Info().Str("table", *input.TableName).Msg("created table")
}

func enableTTL(ctx context.Context, client API, tableName, ttlAttr string) {
	_, err := client.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(tableName),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			Enabled:       aws.Bool(true),
			AttributeName: aws.String(ttlAttr),
		},
	})
	if err != nil {
		log.Warn().Err(err).Str("table", tableName).Msg("could not enable TTL")
	}
}
