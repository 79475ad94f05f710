// Package dashboard aggregates a channel's statistics for its owner.
package dashboard

import (
	"context"

	"github.com/go-video-api/internal/application/enrich"
	"github.com/go-video-api/internal/domain"
)

type Service interface {
	Stats(ctx context.Context, userID string) (*domain.ChannelStats, error)
	Videos(ctx context.Context, userID string, pr domain.PageRequest) (domain.Page[domain.DashboardVideo], error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type videoStore interface {
	AllByOwner(ctx context.Context, ownerID string) ([]domain.Video, error)
	ListByOwner(ctx context.Context, ownerID string, pr domain.PageRequest) (domain.Page[domain.Video], error)
}

type likeCounter interface {
	Count(ctx context.Context, kind domain.LikeTarget, targetID string) (int, error)
}

type subscriberCounter interface {
	CountSubscribers(ctx context.Context, channelID string) (int, error)
}

type service struct {
	users         userStore
	videos        videoStore
	likes         likeCounter
	subscriptions subscriberCounter
}

type ServiceDeps struct {
	UserRepo         userStore
	VideoRepo        videoStore
	LikeRepo         likeCounter
	SubscriptionRepo subscriberCounter
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:         deps.UserRepo,
		videos:        deps.VideoRepo,
		likes:         deps.LikeRepo,
		subscriptions: deps.SubscriptionRepo,
	}
}

// Stats totals views and likes over every video of the channel, published or not.
func (s *service) Stats(ctx context.Context, userID string) (*domain.ChannelStats, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	videos, err := s.videos.AllByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	likes := make([]int, len(videos))
	err = enrich.Each(ctx, len(videos), func(ctx context.Context, i int) error {
		n, err := s.likes.Count(ctx, domain.LikeVideo, videos[i].VideoID)
		likes[i] = n
		return err
	})
	if err != nil {
		return nil, err
	}
	subscribers, err := s.subscriptions.CountSubscribers(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &domain.ChannelStats{
		UserID:           u.UserID,
		Username:         u.Username,
		FullName:         u.FullName,
		Avatar:           u.Avatar,
		TotalVideos:      len(videos),
		TotalSubscribers: subscribers,
	}
	for i, v := range videos {
		stats.TotalViews += v.Views
		stats.TotalLikes += likes[i]
	}
	return stats, nil
}

func (s *service) Videos(ctx context.Context, userID string, pr domain.PageRequest) (domain.Page[domain.DashboardVideo], error) {
	page, err := s.videos.ListByOwner(ctx, userID, pr)
	if err != nil {
		return domain.Page[domain.DashboardVideo]{}, err
	}
	out := enrich.MapPage(page, func(v domain.Video) domain.DashboardVideo {
		return domain.DashboardVideo{Video: v}
	})
	err = enrich.Each(ctx, len(out.Items), func(ctx context.Context, i int) error {
		n, err := s.likes.Count(ctx, domain.LikeVideo, out.Items[i].VideoID)
		out.Items[i].LikesCount = n
		return err
	})
	if err != nil {
		return domain.Page[domain.DashboardVideo]{}, err
	}
	return out, nil
}
