package admin

// LabelCount is one bar or slice of a dashboard chart.
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type Stats struct {
	TotalUsers         int64        `json:"total_users"`
	UsersByRole        []LabelCount `json:"users_by_role"`
	SignupsPerDay      []DayCount   `json:"signups_per_day"`
	StartupsByIndustry []LabelCount `json:"startups_by_industry"`
	TotalStartups      int64        `json:"total_startups"`
	TotalPosts         int64        `json:"total_posts"`
	TotalLikes         int64        `json:"total_likes"`
	TotalComments      int64        `json:"total_comments"`
}
