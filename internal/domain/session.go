package domain

import "time"

// Session is created on login and holds the refresh token currently valid for it.
// Rotating the token on refresh invalidates the previous one.
type Session struct {
	SessionID    string    `json:"id" dynamodbav:"session_id"`
	UserID       string    `json:"userId" dynamodbav:"user_id"`
	RefreshToken string    `json:"-" dynamodbav:"refresh_token,omitempty"`
	Enable       bool      `json:"enable" dynamodbav:"enable"`
	ExpiresAt    int64     `json:"-" dynamodbav:"expires_at"` // epoch seconds, DynamoDB TTL attribute
	CreatedAt    time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}
