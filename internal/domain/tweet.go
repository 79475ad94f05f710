package domain

import "time"

type Tweet struct {
	TweetID   string    `json:"id" dynamodbav:"tweet_id"`
	OwnerID   string    `json:"owner" dynamodbav:"owner_id"`
	Content   string    `json:"content" dynamodbav:"content"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type TweetView struct {
	Tweet
	Owner      *UserSummary `json:"ownerDetails,omitempty"`
	LikesCount int          `json:"likesCount"`
}
