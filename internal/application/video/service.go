package video

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-video-api/internal/application/enrich"
	"github.com/go-video-api/internal/application/media"
	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/apperr"
	"github.com/go-video-api/internal/pkg/id"
	"github.com/go-video-api/internal/pkg/validate"
)

type Service interface {
	Publish(ctx context.Context, ownerID string, req domain.CreateVideoRequest, videoFile, thumbnail *media.File) (*domain.Video, error)
	List(ctx context.Context, q domain.VideoQuery) (domain.Page[domain.VideoView], error)
	// Get returns a video and records the view against viewerID.
	Get(ctx context.Context, videoID, viewerID string) (*domain.VideoView, error)
	Update(ctx context.Context, videoID, ownerID string, req domain.UpdateVideoRequest, thumbnail *media.File) (*domain.Video, error)
	Delete(ctx context.Context, videoID, ownerID string) (*domain.Video, error)
	TogglePublish(ctx context.Context, videoID, ownerID string) (*domain.Video, error)
}

type videoStore interface {
	Put(ctx context.Context, v *domain.Video) error
	Get(ctx context.Context, videoID string) (*domain.Video, error)
	UpdateDetails(ctx context.Context, v *domain.Video) (*domain.Video, error)
	SetPublished(ctx context.Context, videoID string, published bool) (*domain.Video, error)
	IncrementViews(ctx context.Context, videoID string) (*domain.Video, error)
	Delete(ctx context.Context, videoID string) (*domain.Video, error)
	ListPublished(ctx context.Context, q domain.VideoQuery) (domain.Page[domain.Video], error)
}

type userStore interface {
	enrich.UserBatcher
	AppendHistory(ctx context.Context, userID, videoID string) error
}

// EventPublisher announces videos that became visible.
type EventPublisher interface {
	VideoPublished(ctx context.Context, v *domain.Video) error
}

type service struct {
	repo     videoStore
	userRepo userStore
	media    media.Service
	events   EventPublisher
}

type ServiceDeps struct {
	VideoRepo videoStore
	UserRepo  userStore
	Media     media.Service
	// Events may be nil, in which case no events are sent.
	Events EventPublisher
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:     deps.VideoRepo,
		userRepo: deps.UserRepo,
		media:    deps.Media,
		events:   deps.Events,
	}
}

func (s *service) Publish(ctx context.Context, ownerID string, req domain.CreateVideoRequest, videoFile, thumbnail *media.File) (*domain.Video, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if videoFile == nil {
		return nil, apperr.BadRequest("Video file is required")
	}
	if thumbnail == nil {
		return nil, apperr.BadRequest("Thumbnail is required")
	}

	videoURL, err := s.media.Store(ctx, media.VideoFile, ownerID, *videoFile)
	if err != nil {
		return nil, err
	}
	thumbURL, err := s.media.Store(ctx, media.Thumbnail, ownerID, *thumbnail)
	if err != nil {
		s.media.Remove(ctx, videoURL)
		return nil, err
	}

	now := time.Now().UTC()
	v := &domain.Video{
		VideoID:     id.New(),
		OwnerID:     ownerID,
		VideoFile:   videoURL,
		Thumbnail:   thumbURL,
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, v); err != nil {
		s.media.Remove(ctx, videoURL)
		s.media.Remove(ctx, thumbURL)
		return nil, err
	}
	s.announce(ctx, v)
	return v, nil
}

func (s *service) List(ctx context.Context, q domain.VideoQuery) (domain.Page[domain.VideoView], error) {
	if q.OwnerID != "" {
		if err := id.Validate("userId", q.OwnerID); err != nil {
			return domain.Page[domain.VideoView]{}, err
		}
	}
	page, err := s.repo.ListPublished(ctx, q)
	if err != nil {
		return domain.Page[domain.VideoView]{}, err
	}
	ownerIDs := make([]string, len(page.Items))
	for i := range page.Items {
		ownerIDs[i] = page.Items[i].OwnerID
	}
	owners, err := enrich.Owners(ctx, s.userRepo, ownerIDs)
	if err != nil {
		return domain.Page[domain.VideoView]{}, err
	}
	return enrich.MapPage(page, func(v domain.Video) domain.VideoView {
		return domain.VideoView{Video: v, Owner: owners[v.OwnerID]}
	}), nil
}

func (s *service) Get(ctx context.Context, videoID, viewerID string) (*domain.VideoView, error) {
	v, err := s.repo.Get(ctx, videoID)
	if err != nil {
		return nil, err
	}
	// Unpublished videos exist only for their owner.
	if !v.IsPublished && v.OwnerID != viewerID {
		return nil, apperr.NotFound("Video not found")
	}
	if v, err = s.repo.IncrementViews(ctx, videoID); err != nil {
		return nil, err
	}
	if viewerID != "" {
		if err := s.userRepo.AppendHistory(ctx, viewerID, videoID); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("video_id", videoID).Msg("failed to record watch history")
		}
	}
	owners, err := enrich.Owners(ctx, s.userRepo, []string{v.OwnerID})
	if err != nil {
		return nil, err
	}
	return &domain.VideoView{Video: *v, Owner: owners[v.OwnerID]}, nil
}

func (s *service) Update(ctx context.Context, videoID, ownerID string, req domain.UpdateVideoRequest, thumbnail *media.File) (*domain.Video, error) {
	if req.Title == nil && req.Description == nil && thumbnail == nil {
		return nil, apperr.BadRequest("title, description or thumbnail is required")
	}
	trim(req.Title)
	trim(req.Description)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	v, err := s.owned(ctx, videoID, ownerID, "update")
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		v.Title = *req.Title
	}
	if req.Description != nil {
		v.Description = *req.Description
	}

	oldThumb := v.Thumbnail
	v.Thumbnail = ""
	if thumbnail != nil {
		if v.Thumbnail, err = s.media.Store(ctx, media.Thumbnail, ownerID, *thumbnail); err != nil {
			return nil, err
		}
	}
	updated, err := s.repo.UpdateDetails(ctx, v)
	if err != nil {
		s.media.Remove(ctx, v.Thumbnail)
		return nil, err
	}
	if thumbnail != nil {
		s.media.Remove(ctx, oldThumb)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, videoID, ownerID string) (*domain.Video, error) {
	if _, err := s.owned(ctx, videoID, ownerID, "delete"); err != nil {
		return nil, err
	}
	v, err := s.repo.Delete(ctx, videoID)
	if err != nil {
		return nil, err
	}
	s.media.Remove(ctx, v.VideoFile)
	s.media.Remove(ctx, v.Thumbnail)
	return v, nil
}

func (s *service) TogglePublish(ctx context.Context, videoID, ownerID string) (*domain.Video, error) {
	v, err := s.owned(ctx, videoID, ownerID, "update")
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.SetPublished(ctx, videoID, !v.IsPublished)
	if err != nil {
		return nil, err
	}
	if updated.IsPublished {
		s.announce(ctx, updated)
	}
	return updated, nil
}

// owned loads a video and checks that ownerID may modify it.
func (s *service) owned(ctx context.Context, videoID, ownerID, action string) (*domain.Video, error) {
	v, err := s.repo.Get(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != ownerID {
		return nil, apperr.Forbidden("You are not allowed to " + action + " this video")
	}
	return v, nil
}

// announce sends the video.published event. Delivery is best effort.
func (s *service) announce(ctx context.Context, v *domain.Video) {
	if s.events == nil {
		return
	}
	if err := s.events.VideoPublished(ctx, v); err != nil && !errors.Is(err, context.Canceled) {
		zerolog.Ctx(ctx).Warn().Err(err).Str("video_id", v.VideoID).Msg("failed to publish video event")
	}
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
