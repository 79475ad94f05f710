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

// SubscriptionRepo stores subscriber -> channel edges keyed by subscriber, with
// an index keyed by channel for the reverse direction.
type SubscriptionRepo struct {
	client    API
	tableName string
}

func NewSubscriptionRepo(client API, tableName string) *SubscriptionRepo {
	return &SubscriptionRepo{client: client, tableName: tableName}
}

// Toggle subscribes when no edge exists and unsubscribes otherwise. It reports
// whether the subscriber follows the channel afterwards.
func (r *SubscriptionRepo) Toggle(ctx context.Context, subscriberID, channelID string) (bool, error) {
	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.tableName),
		Key:          compositeKey(fieldSubscriberID, subscriberID, fieldChannelID, channelID),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, fmt.Errorf("unsubscribe: %w", err)
	}
	if len(out.Attributes) > 0 {
		return false, nil
	}

	item, err := attributevalue.MarshalMap(domain.Subscription{
		SubscriberID: subscriberID,
		ChannelID:    channelID,
		CreatedAt:    now(),
	})
	if err != nil {
		return false, fmt.Errorf("marshal subscription: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(subscriber_id)"),
	})
	if err != nil && !isConditionFailed(err) {
		return false, fmt.Errorf("subscribe: %w", err)
	}
	return true, nil
}

func (r *SubscriptionRepo) IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(r.tableName),
		Key:                  compositeKey(fieldSubscriberID, subscriberID, fieldChannelID, channelID),
		ProjectionExpression: aws.String("subscriber_id"),
	})
	if err != nil {
		return false, fmt.Errorf("get subscription: %w", err)
	}
	return len(out.Item) > 0, nil
}

func (r *SubscriptionRepo) CountSubscribers(ctx context.Context, channelID string) (int, error) {
	return countQuery(ctx, r.client, r.subscribersQuery(channelID))
}

func (r *SubscriptionRepo) CountSubscribedTo(ctx context.Context, subscriberID string) (int, error) {
	return countQuery(ctx, r.client, r.channelsQuery(subscriberID))
}

// ListSubscribers pages through the subscribers of a channel.
func (r *SubscriptionRepo) ListSubscribers(ctx context.Context, channelID string, pr domain.PageRequest) (domain.Page[domain.Subscription], error) {
	return queryPage[domain.Subscription](ctx, r.client, r.subscribersQuery(channelID), pr)
}

// ListChannels pages through the channels a user subscribes to.
func (r *SubscriptionRepo) ListChannels(ctx context.Context, subscriberID string, pr domain.PageRequest) (domain.Page[domain.Subscription], error) {
	return queryPage[domain.Subscription](ctx, r.client, r.channelsQuery(subscriberID), pr)
}

func (r *SubscriptionRepo) subscribersQuery(channelID string) *dynamodb.QueryInput {
	return &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexSubscribers),
		KeyConditionExpression:    aws.String("channel_id = :c"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":c": strVal(channelID)},
	}
}

func (r *SubscriptionRepo) channelsQuery(subscriberID string) *dynamodb.QueryInput {
	return &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    aws.String("subscriber_id = :s"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":s": strVal(subscriberID)},
	}
}
