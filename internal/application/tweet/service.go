package tweet

import (
	"context"
	"strings"
	"time"

	"github.com/go-video-api/internal/application/enrich"
	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/apperr"
	"github.com/go-video-api/internal/pkg/id"
	"github.com/go-video-api/internal/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, ownerID string, req domain.ContentRequest) (*domain.Tweet, error)
	ListByUser(ctx context.Context, userID string, pr domain.PageRequest) (domain.Page[domain.TweetView], error)
	Update(ctx context.Context, tweetID, ownerID string, req domain.ContentRequest) (*domain.Tweet, error)
	Delete(ctx context.Context, tweetID, ownerID string) (*domain.Tweet, error)
}

type tweetStore interface {
	Put(ctx context.Context, t *domain.Tweet) error
	Get(ctx context.Context, tweetID string) (*domain.Tweet, error)
	UpdateContent(ctx context.Context, tweetID, content string) (*domain.Tweet, error)
	Delete(ctx context.Context, tweetID string) (*domain.Tweet, error)
	ListByOwner(ctx context.Context, ownerID string, pr domain.PageRequest) (domain.Page[domain.Tweet], error)
}

type likeCounter interface {
	Count(ctx context.Context, kind domain.LikeTarget, targetID string) (int, error)
}

type service struct {
	repo     tweetStore
	likes    likeCounter
	userRepo enrich.UserBatcher
}

type ServiceDeps struct {
	TweetRepo tweetStore
	LikeRepo  likeCounter
	UserRepo  enrich.UserBatcher
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.TweetRepo, likes: deps.LikeRepo, userRepo: deps.UserRepo}
}

func (s *service) Create(ctx context.Context, ownerID string, req domain.ContentRequest) (*domain.Tweet, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t := &domain.Tweet{
		TweetID:   id.New(),
		OwnerID:   ownerID,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) ListByUser(ctx context.Context, userID string, pr domain.PageRequest) (domain.Page[domain.TweetView], error) {
	page, err := s.repo.ListByOwner(ctx, userID, pr)
	if err != nil {
		return domain.Page[domain.TweetView]{}, err
	}
	owners, err := enrich.Owners(ctx, s.userRepo, []string{userID})
	if err != nil {
		return domain.Page[domain.TweetView]{}, err
	}
	out := enrich.MapPage(page, func(t domain.Tweet) domain.TweetView {
		return domain.TweetView{Tweet: t, Owner: owners[t.OwnerID]}
	})
	err = enrich.Each(ctx, len(out.Items), func(ctx context.Context, i int) error {
		n, err := s.likes.Count(ctx, domain.LikeTweet, out.Items[i].TweetID)
		out.Items[i].LikesCount = n
		return err
	})
	if err != nil {
		return domain.Page[domain.TweetView]{}, err
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, tweetID, ownerID string, req domain.ContentRequest) (*domain.Tweet, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, tweetID, ownerID, "update"); err != nil {
		return nil, err
	}
	return s.repo.UpdateContent(ctx, tweetID, req.Content)
}

func (s *service) Delete(ctx context.Context, tweetID, ownerID string) (*domain.Tweet, error) {
	if err := s.checkOwner(ctx, tweetID, ownerID, "delete"); err != nil {
		return nil, err
	}
	return s.repo.Delete(ctx, tweetID)
}

func (s *service) checkOwner(ctx context.Context, tweetID, ownerID, action string) error {
	t, err := s.repo.Get(ctx, tweetID)
	if err != nil {
		return err
	}
	if t.OwnerID != ownerID {
		return apperr.Forbidden("You are not allowed to " + action + " this tweet")
	}
	return nil
}
