package like

import (
	"context"

	"github.com/go-video-api/internal/application/enrich"
	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/apperr"
)

type Service interface {
	// Toggle likes or unlikes a video, comment or tweet for userID.
	Toggle(ctx context.Context, kind domain.LikeTarget, targetID, userID string) (*domain.LikeState, error)
	LikedVideos(ctx context.Context, userID string, pr domain.PageRequest) (domain.Page[domain.VideoView], error)
}

type likeStore interface {
	Toggle(ctx context.Context, kind domain.LikeTarget, targetID, userID string) (bool, error)
	ListByUser(ctx context.Context, userID string, kind domain.LikeTarget, pr domain.PageRequest) (domain.Page[domain.Like], error)
}

type videoStore interface {
	Get(ctx context.Context, videoID string) (*domain.Video, error)
	BatchGet(ctx context.Context, videoIDs []string) ([]domain.Video, error)
}

type commentStore interface {
	Get(ctx context.Context, commentID string) (*domain.Comment, error)
}

type tweetStore interface {
	Get(ctx context.Context, tweetID string) (*domain.Tweet, error)
}

type service struct {
	repo     likeStore
	videos   videoStore
	comments commentStore
	tweets   tweetStore
	userRepo enrich.UserBatcher
}

type ServiceDeps struct {
	LikeRepo    likeStore
	VideoRepo   videoStore
	CommentRepo commentStore
	TweetRepo   tweetStore
	UserRepo    enrich.UserBatcher
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:     deps.LikeRepo,
		videos:   deps.VideoRepo,
		comments: deps.CommentRepo,
		tweets:   deps.TweetRepo,
		userRepo: deps.UserRepo,
	}
}

func (s *service) Toggle(ctx context.Context, kind domain.LikeTarget, targetID, userID string) (*domain.LikeState, error) {
	if err := s.checkTarget(ctx, kind, targetID, userID); err != nil {
		return nil, err
	}
	liked, err := s.repo.Toggle(ctx, kind, targetID, userID)
	if err != nil {
		return nil, err
	}
	return &domain.LikeState{IsLiked: liked}, nil
}

// checkTarget fails with a not-found error unless the target exists and is
// visible to userID.
func (s *service) checkTarget(ctx context.Context, kind domain.LikeTarget, targetID, userID string) error {
	switch kind {
	case domain.LikeVideo:
		v, err := s.videos.Get(ctx, targetID)
		if err != nil {
			return err
		}
		if !v.IsPublished && v.OwnerID != userID {
			return apperr.NotFound("Video not found")
		}
		return nil
	case domain.LikeComment:
		_, err := s.comments.Get(ctx, targetID)
		return err
	case domain.LikeTweet:
		_, err := s.tweets.Get(ctx, targetID)
		return err
	default:
		return apperr.BadRequest("unknown like target " + string(kind))
	}
}

// LikedVideos pages through the videos userID liked. Videos that were deleted
// or unpublished since are left out, so a page may be shorter than its limit.
func (s *service) LikedVideos(ctx context.Context, userID string, pr domain.PageRequest) (domain.Page[domain.VideoView], error) {
	likes, err := s.repo.ListByUser(ctx, userID, domain.LikeVideo, pr)
	if err != nil {
		return domain.Page[domain.VideoView]{}, err
	}
	ids := make([]string, len(likes.Items))
	for i, l := range likes.Items {
		ids[i] = l.TargetID
	}
	videos, err := s.videos.BatchGet(ctx, ids)
	if err != nil {
		return domain.Page[domain.VideoView]{}, err
	}

	visible := videos[:0]
	for _, v := range videos {
		if v.IsPublished || v.OwnerID == userID {
			visible = append(visible, v)
		}
	}
	ownerIDs := make([]string, len(visible))
	for i := range visible {
		ownerIDs[i] = visible[i].OwnerID
	}
	owners, err := enrich.Owners(ctx, s.userRepo, ownerIDs)
	if err != nil {
		return domain.Page[domain.VideoView]{}, err
	}

	out := domain.Page[domain.VideoView]{
		Items:      make([]domain.VideoView, len(visible)),
		NextCursor: likes.NextCursor,
		Limit:      likes.Limit,
	}
	for i, v := range visible {
		out.Items[i] = domain.VideoView{Video: v, Owner: owners[v.OwnerID]}
	}
	return out, nil
}
