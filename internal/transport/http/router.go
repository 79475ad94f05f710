package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/go-video-api/internal/config"
	"github.com/go-video-api/internal/pkg/apperr"
	"github.com/go-video-api/internal/transport/http/api"
	"github.com/go-video-api/internal/transport/http/handler"
	appmiddleware "github.com/go-video-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	tr := &api.Translator{Production: cfg.IsProduction()}
	rs := api.NewResponder(tr)

	r := chi.NewRouter()
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.RequestLogger(log.Logger))
	r.Use(appmiddleware.Metrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(rs.Wrap(func(http.ResponseWriter, *http.Request) error {
		return apperr.NotFound("Route not found")
	}))
	r.MethodNotAllowed(rs.Wrap(func(http.ResponseWriter, *http.Request) error {
		return apperr.New(http.StatusMethodNotAllowed, "Method not allowed")
	}))

	authMw := appmiddleware.Auth(deps.Tokens, tr)
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(cfg.RateRPS), cfg.RateBurst, tr)

	userH := handler.NewUserHandler(deps.Users, cfg.MaxUploadBytes)
	sessionH := handler.NewSessionHandler(deps.Sessions, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	videoH := handler.NewVideoHandler(deps.Videos, cfg.MaxUploadBytes)
	commentH := handler.NewCommentHandler(deps.Comments)
	likeH := handler.NewLikeHandler(deps.Likes)
	subH := handler.NewSubscriptionHandler(deps.Subscriptions)
	playlistH := handler.NewPlaylistHandler(deps.Playlists)
	tweetH := handler.NewTweetHandler(deps.Tweets)
	dashH := handler.NewDashboardHandler(deps.Dashboard)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(appmiddleware.BodyLimit(cfg.MaxJSONBytes))

		r.Get("/healthcheck", rs.Wrap(handler.Health))

		r.Route("/users", func(r chi.Router) {
			r.With(sensitiveRL.Limit).Post("/register", rs.Wrap(userH.Register))
			r.With(sensitiveRL.Limit).Post("/login", rs.Wrap(sessionH.Login))
			r.With(sensitiveRL.Limit).Post("/refresh-token", rs.Wrap(sessionH.Refresh))

			r.Group(func(r chi.Router) {
				r.Use(authMw)
				r.Post("/logout", rs.WrapAuthed(sessionH.Logout))
				r.Post("/change-password", rs.WrapAuthed(userH.ChangePassword))
				r.Get("/current-user", rs.WrapAuthed(userH.CurrentUser))
				r.Patch("/update-account-details", rs.WrapAuthed(userH.UpdateAccount))
				r.Patch("/avatar", rs.WrapAuthed(userH.UpdateAvatar))
				r.Patch("/cover-image", rs.WrapAuthed(userH.UpdateCoverImage))
				r.Get("/c/{username}", rs.WrapAuthed(userH.ChannelProfile))
				r.Get("/history", rs.WrapAuthed(userH.WatchHistory))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Route("/videos", func(r chi.Router) {
				r.Get("/", rs.WrapAuthed(videoH.List))
				r.Post("/", rs.WrapAuthed(videoH.Publish))
				r.Get("/{videoId}", rs.WrapAuthed(videoH.Get))
				r.Patch("/{videoId}", rs.WrapAuthed(videoH.Update))
				r.Delete("/{videoId}", rs.WrapAuthed(videoH.Delete))
				r.Patch("/toggle/publish/{videoId}", rs.WrapAuthed(videoH.TogglePublish))
			})

			r.Route("/comments", func(r chi.Router) {
				r.Get("/{videoId}", rs.WrapAuthed(commentH.List))
				r.Post("/{videoId}", rs.WrapAuthed(commentH.Add))
				r.Patch("/c/{commentId}", rs.WrapAuthed(commentH.Update))
				r.Delete("/c/{commentId}", rs.WrapAuthed(commentH.Delete))
			})

			r.Route("/likes", func(r chi.Router) {
				r.Post("/toggle/v/{videoId}", rs.WrapAuthed(likeH.ToggleVideo))
				r.Post("/toggle/c/{commentId}", rs.WrapAuthed(likeH.ToggleComment))
				r.Post("/toggle/t/{tweetId}", rs.WrapAuthed(likeH.ToggleTweet))
				r.Get("/videos", rs.WrapAuthed(likeH.LikedVideos))
			})

			r.Route("/subscriptions", func(r chi.Router) {
				r.Post("/c/{channelId}", rs.WrapAuthed(subH.Toggle))
				r.Get("/c/{channelId}", rs.WrapAuthed(subH.Subscribers))
				r.Get("/u/{subscriberId}", rs.WrapAuthed(subH.Channels))
			})

			r.Route("/playlists", func(r chi.Router) {
				r.Post("/", rs.WrapAuthed(playlistH.Create))
				r.Get("/user/{userId}", rs.WrapAuthed(playlistH.ListByUser))
				r.Get("/{playlistId}", rs.WrapAuthed(playlistH.Get))
				r.Patch("/{playlistId}", rs.WrapAuthed(playlistH.Update))
				r.Delete("/{playlistId}", rs.WrapAuthed(playlistH.Delete))
				r.Patch("/add/{playlistId}/{videoId}", rs.WrapAuthed(playlistH.AddVideo))
				r.Patch("/remove/{playlistId}/{videoId}", rs.WrapAuthed(playlistH.RemoveVideo))
			})

			r.Route("/tweets", func(r chi.Router) {
				r.Post("/", rs.WrapAuthed(tweetH.Create))
				r.Get("/user/{userId}", rs.WrapAuthed(tweetH.ListByUser))
				r.Patch("/{tweetId}", rs.WrapAuthed(tweetH.Update))
				r.Delete("/{tweetId}", rs.WrapAuthed(tweetH.Delete))
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/stats", rs.WrapAuthed(dashH.Stats))
				r.Get("/videos", rs.WrapAuthed(dashH.Videos))
			})
		})
	})

	return r
}
