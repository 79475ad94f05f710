package dynamo

// DynamoDB attribute names used in key conditions and update expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUserID       = "user_id"
	fieldUniqueKey    = "unique_key"
	fieldSessionID    = "session_id"
	fieldVideoID      = "video_id"
	fieldCommentID    = "comment_id"
	fieldPlaylistID   = "playlist_id"
	fieldTweetID      = "tweet_id"
	fieldOwnerID      = "owner_id"
	fieldTarget       = "target"
	fieldLikedBy      = "liked_by"
	fieldSubscriberID = "subscriber_id"
	fieldChannelID    = "channel_id"
	fieldFeedKey      = "feed_key"

	fieldEnable       = "enable"
	fieldRefreshToken = "refresh_token"
	fieldExpiresAt    = "expires_at"
	fieldUpdatedAt    = "updated_at"
	fieldWatchHistory = "watch_history"
	fieldViews        = "views"
	fieldIsPublished  = "is_published"
	fieldSearchText   = "search_text"
	fieldVideoIDs     = "video_ids"
)

// Index names. Sort keys on ULID attributes order items by creation time.
const (
	indexUsername        = "username-index"
	indexEmail           = "email-index"
	indexSessionsByUser  = "user_id-index"
	indexVideosByOwner   = "owner_id-video_id-index"
	indexFeed            = "feed_key-video_id-index"
	indexCommentsByVideo = "video_id-comment_id-index"
	indexLikesByUser     = "liked_by-target-index"
	indexSubscribers     = "channel_id-subscriber_id-index"
	indexPlaylistsByUser = "owner_id-playlist_id-index"
	indexTweetsByOwner   = "owner_id-tweet_id-index"
)
