package comment

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
	List(ctx context.Context, videoID, viewerID string, pr domain.PageRequest) (domain.Page[domain.CommentView], error)
	Add(ctx context.Context, videoID, ownerID string, req domain.ContentRequest) (*domain.Comment, error)
	Update(ctx context.Context, commentID, ownerID string, req domain.ContentRequest) (*domain.Comment, error)
	Delete(ctx context.Context, commentID, ownerID string) (*domain.Comment, error)
}

type commentStore interface {
	Put(ctx context.Context, c *domain.Comment) error
	Get(ctx context.Context, commentID string) (*domain.Comment, error)
	UpdateContent(ctx context.Context, commentID, content string) (*domain.Comment, error)
	Delete(ctx context.Context, commentID string) (*domain.Comment, error)
	ListByVideo(ctx context.Context, videoID string, pr domain.PageRequest) (domain.Page[domain.Comment], error)
}

type videoStore interface {
	Get(ctx context.Context, videoID string) (*domain.Video, error)
}

type likeStore interface {
	IsLiked(ctx context.Context, kind domain.LikeTarget, targetID, userID string) (bool, error)
	Count(ctx context.Context, kind domain.LikeTarget, targetID string) (int, error)
}

type service struct {
	repo     commentStore
	videos   videoStore
	likes    likeStore
	userRepo enrich.UserBatcher
}

type ServiceDeps struct {
	CommentRepo commentStore
	VideoRepo   videoStore
	LikeRepo    likeStore
	UserRepo    enrich.UserBatcher
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:     deps.CommentRepo,
		videos:   deps.VideoRepo,
		likes:    deps.LikeRepo,
		userRepo: deps.UserRepo,
	}
}

// visibleVideo loads a video the viewer is allowed to see.
func (s *service) visibleVideo(ctx context.Context, videoID, viewerID string) (*domain.Video, error) {
	v, err := s.videos.Get(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !v.IsPublished && v.OwnerID != viewerID {
		return nil, apperr.NotFound("Video not found")
	}
	return v, nil
}

func (s *service) List(ctx context.Context, videoID, viewerID string, pr domain.PageRequest) (domain.Page[domain.CommentView], error) {
	if _, err := s.visibleVideo(ctx, videoID, viewerID); err != nil {
		return domain.Page[domain.CommentView]{}, err
	}
	page, err := s.repo.ListByVideo(ctx, videoID, pr)
	if err != nil {
		return domain.Page[domain.CommentView]{}, err
	}

	ownerIDs := make([]string, len(page.Items))
	for i := range page.Items {
		ownerIDs[i] = page.Items[i].OwnerID
	}
	owners, err := enrich.Owners(ctx, s.userRepo, ownerIDs)
	if err != nil {
		return domain.Page[domain.CommentView]{}, err
	}

	out := enrich.MapPage(page, func(c domain.Comment) domain.CommentView {
		return domain.CommentView{Comment: c, Owner: owners[c.OwnerID]}
	})
	err = enrich.Each(ctx, len(out.Items), func(ctx context.Context, i int) error {
		cv := &out.Items[i]
		n, err := s.likes.Count(ctx, domain.LikeComment, cv.CommentID)
		if err != nil {
			return err
		}
		cv.LikesCount = n
		if viewerID != "" {
			cv.IsLiked, err = s.likes.IsLiked(ctx, domain.LikeComment, cv.CommentID, viewerID)
		}
		return err
	})
	if err != nil {
		return domain.Page[domain.CommentView]{}, err
	}
	return out, nil
}

func (s *service) Add(ctx context.Context, videoID, ownerID string, req domain.ContentRequest) (*domain.Comment, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.visibleVideo(ctx, videoID, ownerID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &domain.Comment{
		CommentID: id.New(),
		VideoID:   videoID,
		OwnerID:   ownerID,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, commentID, ownerID string, req domain.ContentRequest) (*domain.Comment, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, commentID, ownerID, "update"); err != nil {
		return nil, err
	}
	return s.repo.UpdateContent(ctx, commentID, req.Content)
}

func (s *service) Delete(ctx context.Context, commentID, ownerID string) (*domain.Comment, error) {
	if err := s.checkOwner(ctx, commentID, ownerID, "delete"); err != nil {
		return nil, err
	}
	return s.repo.Delete(ctx, commentID)
}

func (s *service) checkOwner(ctx context.Context, commentID, ownerID, action string) error {
	c, err := s.repo.Get(ctx, commentID)
	if err != nil {
		return err
	}
	if c.OwnerID != ownerID {
		return apperr.Forbidden("You are not allowed to " + action + " this comment")
	}
	return nil
}
