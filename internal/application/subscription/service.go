package subscription

import (
	"context"
	"errors"

	"github.com/go-video-api/internal/application/enrich"
	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/apperr"
)

type Service interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (*domain.SubscriptionState, error)
	Subscribers(ctx context.Context, channelID string, pr domain.PageRequest) (domain.Page[domain.UserSummary], error)
	Channels(ctx context.Context, subscriberID string, pr domain.PageRequest) (domain.Page[domain.SubscribedChannel], error)
}

type subscriptionStore interface {
	Toggle(ctx context.Context, subscriberID, channelID string) (bool, error)
	ListSubscribers(ctx context.Context, channelID string, pr domain.PageRequest) (domain.Page[domain.Subscription], error)
	ListChannels(ctx context.Context, subscriberID string, pr domain.PageRequest) (domain.Page[domain.Subscription], error)
}

type userStore interface {
	enrich.UserBatcher
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type videoStore interface {
	LatestPublished(ctx context.Context, ownerID string) (*domain.Video, error)
}

type service struct {
	repo     subscriptionStore
	userRepo userStore
	videos   videoStore
}

type ServiceDeps struct {
	SubscriptionRepo subscriptionStore
	UserRepo         userStore
	VideoRepo        videoStore
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:     deps.SubscriptionRepo,
		userRepo: deps.UserRepo,
		videos:   deps.VideoRepo,
	}
}

func (s *service) Toggle(ctx context.Context, subscriberID, channelID string) (*domain.SubscriptionState, error) {
	if subscriberID == channelID {
		return nil, apperr.BadRequest("You cannot subscribe to your own channel")
	}
	if err := s.channelExists(ctx, channelID); err != nil {
		return nil, err
	}
	subscribed, err := s.repo.Toggle(ctx, subscriberID, channelID)
	if err != nil {
		return nil, err
	}
	return &domain.SubscriptionState{IsSubscribed: subscribed}, nil
}

func (s *service) Subscribers(ctx context.Context, channelID string, pr domain.PageRequest) (domain.Page[domain.UserSummary], error) {
	if err := s.channelExists(ctx, channelID); err != nil {
		return domain.Page[domain.UserSummary]{}, err
	}
	page, err := s.repo.ListSubscribers(ctx, channelID, pr)
	if err != nil {
		return domain.Page[domain.UserSummary]{}, err
	}
	ids := make([]string, len(page.Items))
	for i, sub := range page.Items {
		ids[i] = sub.SubscriberID
	}
	users, err := enrich.Owners(ctx, s.userRepo, ids)
	if err != nil {
		return domain.Page[domain.UserSummary]{}, err
	}
	out := domain.Page[domain.UserSummary]{Items: []domain.UserSummary{}, NextCursor: page.NextCursor, Limit: page.Limit}
	for _, uid := range ids {
		if u, ok := users[uid]; ok {
			out.Items = append(out.Items, *u)
		}
	}
	return out, nil
}

// Channels lists the channels subscriberID follows, each with its newest
// published video.
func (s *service) Channels(ctx context.Context, subscriberID string, pr domain.PageRequest) (domain.Page[domain.SubscribedChannel], error) {
	page, err := s.repo.ListChannels(ctx, subscriberID, pr)
	if err != nil {
		return domain.Page[domain.SubscribedChannel]{}, err
	}
	ids := make([]string, len(page.Items))
	for i, sub := range page.Items {
		ids[i] = sub.ChannelID
	}
	users, err := enrich.Owners(ctx, s.userRepo, ids)
	if err != nil {
		return domain.Page[domain.SubscribedChannel]{}, err
	}

	out := domain.Page[domain.SubscribedChannel]{Items: []domain.SubscribedChannel{}, NextCursor: page.NextCursor, Limit: page.Limit}
	for _, cid := range ids {
		if u, ok := users[cid]; ok {
			out.Items = append(out.Items, domain.SubscribedChannel{UserSummary: *u})
		}
	}
	err = enrich.Each(ctx, len(out.Items), func(ctx context.Context, i int) error {
		v, err := s.videos.LatestPublished(ctx, out.Items[i].UserID)
		out.Items[i].LatestVideo = v
		return err
	})
	if err != nil {
		return domain.Page[domain.SubscribedChannel]{}, err
	}
	return out, nil
}

func (s *service) channelExists(ctx context.Context, channelID string) error {
	if _, err := s.userRepo.Get(ctx, channelID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperr.NotFound("Channel not found")
		}
		return err
	}
	return nil
}
