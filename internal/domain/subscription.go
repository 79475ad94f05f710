package domain

import "time"

// Subscription links a subscriber to a channel (both are users).
type Subscription struct {
	SubscriberID string    `json:"subscriber" dynamodbav:"subscriber_id"`
	ChannelID    string    `json:"channel" dynamodbav:"channel_id"`
	CreatedAt    time.Time `json:"createdAt" dynamodbav:"created_at"`
}

type SubscriptionState struct {
	IsSubscribed bool `json:"isSubscribed"`
}

// SubscribedChannel is a channel the caller follows, with its most recent upload.
type SubscribedChannel struct {
	UserSummary
	LatestVideo *Video `json:"latestVideo,omitempty"`
}
