package domain

// ChannelStats aggregates a channel's totals for its owner's dashboard.
type ChannelStats struct {
	UserID           string `json:"id"`
	Username         string `json:"username"`
	FullName         string `json:"fullName"`
	Avatar           string `json:"avatar"`
	TotalVideos      int    `json:"totalVideos"`
	TotalViews       int64  `json:"totalViews"`
	TotalLikes       int    `json:"totalLikes"`
	TotalSubscribers int    `json:"totalSubscribers"`
}

type DashboardVideo struct {
	Video
	LikesCount int `json:"likesCount"`
}
