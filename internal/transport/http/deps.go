package http

import (
	"github.com/go-video-api/internal/application/comment"
	"github.com/go-video-api/internal/application/dashboard"
	"github.com/go-video-api/internal/application/like"
	"github.com/go-video-api/internal/application/media"
	"github.com/go-video-api/internal/application/playlist"
	"github.com/go-video-api/internal/application/session"
	"github.com/go-video-api/internal/application/subscription"
	"github.com/go-video-api/internal/application/tweet"
	"github.com/go-video-api/internal/application/user"
	"github.com/go-video-api/internal/application/video"
	"github.com/go-video-api/internal/config"
	"github.com/go-video-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-video-api/internal/infrastructure/jwt"
	"github.com/go-video-api/internal/transport/http/middleware"
)

// Deps holds the services the router mounts.
type Deps struct {
	Users         user.Service
	Sessions      session.Service
	Videos        video.Service
	Comments      comment.Service
	Likes         like.Service
	Subscriptions subscription.Service
	Playlists     playlist.Service
	Tweets        tweet.Service
	Dashboard     dashboard.Service
	Tokens        middleware.AccessVerifier
}

// Infra is the set of clients the services are built on. Events may be nil.
type Infra struct {
	Dynamo dynamo.API
	Media  media.Service
	Events video.EventPublisher
	JWT    *jwtinfra.Provider
}

// NewDeps builds the DynamoDB repositories and wires every service.
func NewDeps(cfg *config.Config, infra Infra) *Deps {
	t := cfg.DynamoTables
	users := dynamo.NewUserRepo(infra.Dynamo, t.Users, t.Uniques)
	sessions := dynamo.NewSessionRepo(infra.Dynamo, t.Sessions)
	videos := dynamo.NewVideoRepo(infra.Dynamo, t.Videos)
	comments := dynamo.NewCommentRepo(infra.Dynamo, t.Comments)
	likes := dynamo.NewLikeRepo(infra.Dynamo, t.Likes)
	subscriptions := dynamo.NewSubscriptionRepo(infra.Dynamo, t.Subscriptions)
	playlists := dynamo.NewPlaylistRepo(infra.Dynamo, t.Playlists)
	tweets := dynamo.NewTweetRepo(infra.Dynamo, t.Tweets)

	return &Deps{
		Users: user.NewService(user.ServiceDeps{
			UserRepo:         users,
			SessionRepo:      sessions,
			SubscriptionRepo: subscriptions,
			VideoRepo:        videos,
			Media:            infra.Media,
		}),
		Sessions: session.NewService(session.ServiceDeps{
			UserRepo:        users,
			SessionRepo:     sessions,
			JWTProvider:     infra.JWT,
			RefreshTokenDur: cfg.RefreshTokenExpiry,
		}),
		Videos: video.NewService(video.ServiceDeps{
			VideoRepo: videos,
			UserRepo:  users,
			Media:     infra.Media,
			Events:    infra.Events,
		}),
		Comments: comment.NewService(comment.ServiceDeps{
			CommentRepo: comments,
			VideoRepo:   videos,
			LikeRepo:    likes,
			UserRepo:    users,
		}),
		Likes: like.NewService(like.ServiceDeps{
			LikeRepo:    likes,
			VideoRepo:   videos,
			CommentRepo: comments,
			TweetRepo:   tweets,
			UserRepo:    users,
		}),
		Subscriptions: subscription.NewService(subscription.ServiceDeps{
			SubscriptionRepo: subscriptions,
			UserRepo:         users,
			VideoRepo:        videos,
		}),
		Playlists: playlist.NewService(playlist.ServiceDeps{
			PlaylistRepo: playlists,
			VideoRepo:    videos,
			UserRepo:     users,
		}),
		Tweets: tweet.NewService(tweet.ServiceDeps{
			TweetRepo: tweets,
			LikeRepo:  likes,
			UserRepo:  users,
		}),
		Dashboard: dashboard.NewService(dashboard.ServiceDeps{
			UserRepo:         users,
			VideoRepo:        videos,
			LikeRepo:         likes,
			SubscriptionRepo: subscriptions,
		}),
		Tokens: infra.JWT,
	}
}
