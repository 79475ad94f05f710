package domain

import (
	"strings"
	"time"
)

// FeedPublished is stored in Video.FeedKey while a video is published, making the
// feed index sparse: unpublished videos are absent from it.
const FeedPublished = "published"

type Video struct {
	VideoID     string    `json:"id" dynamodbav:"video_id"`
	OwnerID     string    `json:"owner" dynamodbav:"owner_id"`
	VideoFile   string    `json:"videoFile" dynamodbav:"video_file"`
	Thumbnail   string    `json:"thumbnail" dynamodbav:"thumbnail"`
	Title       string    `json:"title" dynamodbav:"title"`
	Description string    `json:"description" dynamodbav:"description"`
	Duration    float64   `json:"duration" dynamodbav:"duration"`
	Views       int64     `json:"views" dynamodbav:"views"`
	IsPublished bool      `json:"isPublished" dynamodbav:"is_published"`
	FeedKey     string    `json:"-" dynamodbav:"feed_key,omitempty"`
	SearchText  string    `json:"-" dynamodbav:"search_text"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

// Index refreshes the derived attributes used by the listing indexes.
func (v *Video) Index() {
	v.FeedKey = ""
	if v.IsPublished {
		v.FeedKey = FeedPublished
	}
	v.SearchText = strings.ToLower(v.Title + "\n" + v.Description)
}

// VideoView is a video with its owner resolved.
type VideoView struct {
	Video
	Owner *UserSummary `json:"ownerDetails,omitempty"`
}

type CreateVideoRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"required,max=5000"`
	Duration    float64 `json:"duration" validate:"gte=0"`
}

type UpdateVideoRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
}

// VideoQuery drives the published-video listing.
type VideoQuery struct {
	OwnerID   string
	Text      string
	Ascending bool
	PageRequest
}
