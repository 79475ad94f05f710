package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-video-api/internal/application/enrich"
	"github.com/go-video-api/internal/application/media"
	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/apperr"
	"github.com/go-video-api/internal/pkg/id"
	"github.com/go-video-api/internal/pkg/validate"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldAvatar       = "avatar"
	fieldCoverImage   = "cover_image"
	fieldPasswordHash = "password_hash"
)

const msgDuplicateUser = "User with this email or username already exists"

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest, avatar, cover *media.File) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	ChangePassword(ctx context.Context, p domain.Principal, req domain.ChangePasswordRequest) error
	UpdateAccount(ctx context.Context, userID string, req domain.UpdateAccountRequest) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID string, f *media.File) (*domain.User, error)
	UpdateCoverImage(ctx context.Context, userID string, f *media.File) (*domain.User, error)
	ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID string) ([]domain.VideoView, error)
}

type userStore interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]any) (*domain.User, error)
	UpdateAccount(ctx context.Context, u *domain.User, fullName, email string) (*domain.User, error)
	BatchGet(ctx context.Context, userIDs []string) ([]domain.User, error)
}

type sessionStore interface {
	RevokeOthers(ctx context.Context, userID, keep string) error
}

type subscriptionStore interface {
	CountSubscribers(ctx context.Context, channelID string) (int, error)
	CountSubscribedTo(ctx context.Context, subscriberID string) (int, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID string) (bool, error)
}

type videoStore interface {
	BatchGet(ctx context.Context, videoIDs []string) ([]domain.Video, error)
}

type service struct {
	repo          userStore
	sessionRepo   sessionStore
	subscriptions subscriptionStore
	videos        videoStore
	media         media.Service
}

type ServiceDeps struct {
	UserRepo         userStore
	SessionRepo      sessionStore
	SubscriptionRepo subscriptionStore
	VideoRepo        videoStore
	Media            media.Service
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:          deps.UserRepo,
		sessionRepo:   deps.SessionRepo,
		subscriptions: deps.SubscriptionRepo,
		videos:        deps.VideoRepo,
		media:         deps.Media,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest, avatar, cover *media.File) (*domain.User, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if avatar == nil {
		return nil, apperr.BadRequest("Avatar file is required")
	}

	if taken, err := s.taken(ctx, req.Username, req.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Conflict(msgDuplicateUser)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	avatarURL, err := s.media.Store(ctx, media.Avatar, userID, *avatar)
	if err != nil {
		return nil, err
	}
	var coverURL string
	if cover != nil {
		if coverURL, err = s.media.Store(ctx, media.CoverImage, userID, *cover); err != nil {
			s.media.Remove(ctx, avatarURL)
			return nil, err
		}
	}

	now := time.Now().UTC()
	u := &domain.User{
		UserID:       userID,
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		Avatar:       avatarURL,
		CoverImage:   coverURL,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		s.media.Remove(ctx, avatarURL)
		s.media.Remove(ctx, coverURL)
		var de *domain.DuplicateError
		if errors.As(err, &de) {
			return nil, apperr.Conflict(msgDuplicateUser)
		}
		return nil, err
	}
	return u, nil
}

// taken reports whether the username or email already belongs to someone.
func (s *service) taken(ctx context.Context, username, email string) (bool, error) {
	for _, lookup := range []func() (*domain.User, error){
		func() (*domain.User, error) { return s.repo.GetByUsername(ctx, username) },
		func() (*domain.User, error) { return s.repo.GetByEmail(ctx, email) },
	} {
		_, err := lookup()
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return false, err
		}
	}
	return false, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

// ChangePassword replaces the caller's password and signs out their other sessions.
func (s *service) ChangePassword(ctx context.Context, p domain.Principal, req domain.ChangePasswordRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	u, err := s.repo.Get(ctx, p.UserID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.OldPassword)) != nil {
		return apperr.BadRequest("Invalid old password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := s.repo.Update(ctx, u.UserID, map[string]any{fieldPasswordHash: string(hash)}); err != nil {
		return err
	}
	return s.sessionRepo.RevokeOthers(ctx, u.UserID, p.SessionID)
}

func (s *service) UpdateAccount(ctx context.Context, userID string, req domain.UpdateAccountRequest) (*domain.User, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateAccount(ctx, u, req.FullName, req.Email)
	if err != nil {
		var de *domain.DuplicateError
		if errors.As(err, &de) {
			return nil, apperr.Conflict("Email is already in use")
		}
		return nil, err
	}
	return updated, nil
}

func (s *service) UpdateAvatar(ctx context.Context, userID string, f *media.File) (*domain.User, error) {
	if f == nil {
		return nil, apperr.BadRequest("Avatar file is missing")
	}
	return s.replaceImage(ctx, userID, media.Avatar, fieldAvatar, *f, func(u *domain.User) string { return u.Avatar })
}

func (s *service) UpdateCoverImage(ctx context.Context, userID string, f *media.File) (*domain.User, error) {
	if f == nil {
		return nil, apperr.BadRequest("Cover image file is missing")
	}
	return s.replaceImage(ctx, userID, media.CoverImage, fieldCoverImage, *f, func(u *domain.User) string { return u.CoverImage })
}

// replaceImage uploads the new image, points the user at it and then drops
// the previous one.
func (s *service) replaceImage(ctx context.Context, userID string, kind media.Kind, field string, f media.File, current func(*domain.User) string) (*domain.User, error) {
	old, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	url, err := s.media.Store(ctx, kind, userID, f)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.Update(ctx, userID, map[string]any{field: url})
	if err != nil {
		s.media.Remove(ctx, url)
		return nil, err
	}
	s.media.Remove(ctx, current(old))
	return u, nil
}

func (s *service) ChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperr.BadRequest("username is missing")
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("channel does not exist")
		}
		return nil, err
	}
	subscribers, err := s.subscriptions.CountSubscribers(ctx, u.UserID)
	if err != nil {
		return nil, err
	}
	subscribedTo, err := s.subscriptions.CountSubscribedTo(ctx, u.UserID)
	if err != nil {
		return nil, err
	}
	isSubscribed := false
	if viewerID != "" && viewerID != u.UserID {
		if isSubscribed, err = s.subscriptions.IsSubscribed(ctx, viewerID, u.UserID); err != nil {
			return nil, err
		}
	}
	return &domain.ChannelProfile{
		UserID:                    u.UserID,
		Username:                  u.Username,
		FullName:                  u.FullName,
		Email:                     u.Email,
		Avatar:                    u.Avatar,
		CoverImage:                u.CoverImage,
		SubscribersCount:          subscribers,
		ChannelsSubscribedToCount: subscribedTo,
		IsSubscribed:              isSubscribed,
	}, nil
}

// WatchHistory returns the watched videos, most recent first, with their owners.
func (s *service) WatchHistory(ctx context.Context, userID string) ([]domain.VideoView, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(u.WatchHistory))
	seen := make(map[string]bool, len(u.WatchHistory))
	for i := len(u.WatchHistory) - 1; i >= 0; i-- {
		if vid := u.WatchHistory[i]; !seen[vid] {
			seen[vid] = true
			ids = append(ids, vid)
		}
	}
	videos, err := s.videos.BatchGet(ctx, ids)
	if err != nil {
		return nil, err
	}
	ownerIDs := make([]string, len(videos))
	for i := range videos {
		ownerIDs[i] = videos[i].OwnerID
	}
	owners, err := enrich.Owners(ctx, s.repo, ownerIDs)
	if err != nil {
		return nil, err
	}
	out := make([]domain.VideoView, len(videos))
	for i, v := range videos {
		out[i] = domain.VideoView{Video: v, Owner: owners[v.OwnerID]}
	}
	return out, nil
}
