package domain

import (
	"fmt"
	"time"
)

// LikeTarget is the kind of resource a like points at.
type LikeTarget string

const (
	LikeVideo   LikeTarget = "video"
	LikeComment LikeTarget = "comment"
	LikeTweet   LikeTarget = "tweet"
)

// Key returns the partition key shared by all likes of one resource.
func (t LikeTarget) Key(targetID string) string {
	return fmt.Sprintf("%s#%s", t, targetID)
}

type Like struct {
	Target     string     `json:"-" dynamodbav:"target"`
	LikedBy    string     `json:"likedBy" dynamodbav:"liked_by"`
	TargetType LikeTarget `json:"targetType" dynamodbav:"target_type"`
	TargetID   string     `json:"targetId" dynamodbav:"target_id"`
	CreatedAt  time.Time  `json:"createdAt" dynamodbav:"created_at"`
}

type LikeState struct {
	IsLiked bool `json:"isLiked"`
}
