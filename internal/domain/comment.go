package domain

import "time"

type Comment struct {
	CommentID string    `json:"id" dynamodbav:"comment_id"`
	VideoID   string    `json:"video" dynamodbav:"video_id"`
	OwnerID   string    `json:"owner" dynamodbav:"owner_id"`
	Content   string    `json:"content" dynamodbav:"content"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

// CommentView is a comment enriched for display under a video.
type CommentView struct {
	Comment
	Owner      *UserSummary `json:"ownerDetails,omitempty"`
	LikesCount int          `json:"likesCount"`
	IsLiked    bool         `json:"isLiked"`
}

type ContentRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}
