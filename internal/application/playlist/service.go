package playlist

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/go-video-api/internal/application/enrich"
	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/apperr"
	"github.com/go-video-api/internal/pkg/id"
	"github.com/go-video-api/internal/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, ownerID string, req domain.PlaylistRequest) (*domain.Playlist, error)
	ListByUser(ctx context.Context, userID string, pr domain.PageRequest) (domain.Page[domain.PlaylistSummary], error)
	Get(ctx context.Context, playlistID string) (*domain.PlaylistDetail, error)
	Update(ctx context.Context, playlistID, ownerID string, req domain.PlaylistRequest) (*domain.Playlist, error)
	Delete(ctx context.Context, playlistID, ownerID string) (*domain.Playlist, error)
	AddVideo(ctx context.Context, playlistID, videoID, ownerID string) (*domain.Playlist, error)
	RemoveVideo(ctx context.Context, playlistID, videoID, ownerID string) (*domain.Playlist, error)
}

type playlistStore interface {
	Put(ctx context.Context, p *domain.Playlist) error
	Get(ctx context.Context, playlistID string) (*domain.Playlist, error)
	UpdateDetails(ctx context.Context, playlistID, name, description string) (*domain.Playlist, error)
	Delete(ctx context.Context, playlistID string) (*domain.Playlist, error)
	AddVideo(ctx context.Context, playlistID, videoID string) (*domain.Playlist, error)
	RemoveVideo(ctx context.Context, playlistID, videoID string) (*domain.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string, pr domain.PageRequest) (domain.Page[domain.Playlist], error)
}

type videoStore interface {
	Get(ctx context.Context, videoID string) (*domain.Video, error)
	BatchGet(ctx context.Context, videoIDs []string) ([]domain.Video, error)
}

type service struct {
	repo     playlistStore
	videos   videoStore
	userRepo enrich.UserBatcher
}

type ServiceDeps struct {
	PlaylistRepo playlistStore
	VideoRepo    videoStore
	UserRepo     enrich.UserBatcher
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:     deps.PlaylistRepo,
		videos:   deps.VideoRepo,
		userRepo: deps.UserRepo,
	}
}

func (s *service) Create(ctx context.Context, ownerID string, req domain.PlaylistRequest) (*domain.Playlist, error) {
	req = normalize(req)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &domain.Playlist{
		PlaylistID:  id.New(),
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
		VideoIDs:    []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) ListByUser(ctx context.Context, userID string, pr domain.PageRequest) (domain.Page[domain.PlaylistSummary], error) {
	page, err := s.repo.ListByOwner(ctx, userID, pr)
	if err != nil {
		return domain.Page[domain.PlaylistSummary]{}, err
	}
	return enrich.MapPage(page, func(p domain.Playlist) domain.PlaylistSummary {
		withVideos(&p, nil)
		return domain.PlaylistSummary{Playlist: p, VideoCount: len(p.VideoIDs)}
	}), nil
}

// Get resolves the playlist's owner and its published videos, oldest first.
func (s *service) Get(ctx context.Context, playlistID string) (*domain.PlaylistDetail, error) {
	p, err := s.repo.Get(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	ids := slices.Clone(p.VideoIDs)
	slices.Sort(ids)
	all, err := s.videos.BatchGet(ctx, ids)
	if err != nil {
		return nil, err
	}
	videos := make([]domain.Video, 0, len(all))
	var views int64
	for _, v := range all {
		if v.IsPublished {
			videos = append(videos, v)
			views += v.Views
		}
	}
	owners, err := enrich.Owners(ctx, s.userRepo, []string{p.OwnerID})
	if err != nil {
		return nil, err
	}
	return &domain.PlaylistDetail{
		PlaylistID:  p.PlaylistID,
		Name:        p.Name,
		Description: p.Description,
		Owner:       owners[p.OwnerID],
		Videos:      videos,
		VideoCount:  len(videos),
		ViewCount:   views,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func (s *service) Update(ctx context.Context, playlistID, ownerID string, req domain.PlaylistRequest) (*domain.Playlist, error) {
	req = normalize(req)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, playlistID, ownerID, "update"); err != nil {
		return nil, err
	}
	return withVideos(s.repo.UpdateDetails(ctx, playlistID, req.Name, req.Description))
}

func (s *service) Delete(ctx context.Context, playlistID, ownerID string) (*domain.Playlist, error) {
	if _, err := s.owned(ctx, playlistID, ownerID, "delete"); err != nil {
		return nil, err
	}
	return withVideos(s.repo.Delete(ctx, playlistID))
}

// AddVideo puts a video in the playlist. Adding a video twice keeps one entry.
func (s *service) AddVideo(ctx context.Context, playlistID, videoID, ownerID string) (*domain.Playlist, error) {
	if _, err := s.owned(ctx, playlistID, ownerID, "update"); err != nil {
		return nil, err
	}
	v, err := s.videos.Get(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !v.IsPublished && v.OwnerID != ownerID {
		return nil, apperr.NotFound("Video not found")
	}
	return withVideos(s.repo.AddVideo(ctx, playlistID, videoID))
}

func (s *service) RemoveVideo(ctx context.Context, playlistID, videoID, ownerID string) (*domain.Playlist, error) {
	if _, err := s.owned(ctx, playlistID, ownerID, "update"); err != nil {
		return nil, err
	}
	if _, err := s.videos.Get(ctx, videoID); err != nil {
		return nil, err
	}
	return withVideos(s.repo.RemoveVideo(ctx, playlistID, videoID))
}

func (s *service) owned(ctx context.Context, playlistID, ownerID, action string) (*domain.Playlist, error) {
	p, err := s.repo.Get(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, apperr.Forbidden("You are not allowed to " + action + " this playlist")
	}
	return p, nil
}

func normalize(req domain.PlaylistRequest) domain.PlaylistRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	return req
}

// withVideos renders an empty video set as [] rather than null. DynamoDB drops
// string sets once their last member is removed.
func withVideos(p *domain.Playlist, err error) (*domain.Playlist, error) {
	if p != nil && p.VideoIDs == nil {
		p.VideoIDs = []string{}
	}
	return p, err
}
