package domain

import "time"

type Playlist struct {
	PlaylistID  string    `json:"id" dynamodbav:"playlist_id"`
	Name        string    `json:"name" dynamodbav:"name"`
	Description string    `json:"description" dynamodbav:"description"`
	OwnerID     string    `json:"owner" dynamodbav:"owner_id"`
	VideoIDs    []string  `json:"videos" dynamodbav:"video_ids,stringset,omitempty"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

// PlaylistSummary is a playlist as listed on a user's channel.
type PlaylistSummary struct {
	Playlist
	VideoCount int `json:"videoCount"`
}

// PlaylistDetail is a playlist with its videos and owner resolved.
type PlaylistDetail struct {
	PlaylistID  string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Owner       *UserSummary `json:"owner,omitempty"`
	Videos      []Video      `json:"videos"`
	VideoCount  int          `json:"videoCount"`
	ViewCount   int64        `json:"viewCount"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type PlaylistRequest struct {
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description" validate:"required,max=5000"`
}
