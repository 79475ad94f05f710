package domain

import "time"

type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Username     string    `json:"username" dynamodbav:"username"`
	Email        string    `json:"email" dynamodbav:"email"`
	FullName     string    `json:"fullName" dynamodbav:"full_name"`
	Avatar       string    `json:"avatar" dynamodbav:"avatar"`
	CoverImage   string    `json:"coverImage" dynamodbav:"cover_image"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	WatchHistory []string  `json:"-" dynamodbav:"watch_history,omitempty"`
	CreatedAt    time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

// Summary returns the public owner projection embedded in other resources.
func (u *User) Summary() UserSummary {
	return UserSummary{UserID: u.UserID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}

type UserSummary struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest accepts either username or email as the identity.
type LoginRequest struct {
	Username string `json:"username" validate:"required_without=Email"`
	Email    string `json:"email" validate:"required_without=Username,omitempty,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateAccountRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

// ChannelProfile is the public view of a user's channel.
type ChannelProfile struct {
	UserID                    string `json:"id"`
	Username                  string `json:"username"`
	FullName                  string `json:"fullName"`
	Email                     string `json:"email"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverImage"`
	SubscribersCount          int    `json:"subscribersCount"`
	ChannelsSubscribedToCount int    `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}

// Principal is the authenticated caller, attached to the request by the auth middleware.
type Principal struct {
	UserID    string
	Username  string
	Email     string
	FullName  string
	SessionID string
}
