package posts

import "time"

type Author struct {
	UUID          string `json:"uuid"`
	Name          string `json:"name"`
	ProfilePicURL string `json:"profile_pic_url"`
}

type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	Author    Author    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post carries its likes as user uuids and its comments oldest first.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url"`
	Author    Author    `json:"author"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

type PostList struct {
	Items []Post `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

type NewPost struct {
	AuthorUUID string
	Title      string
	Content    string
	ImageURL   string
}

type ListFilter struct {
	AuthorUUID string
	Limit      int
	Offset     int
}

// LikeState is the post's like set after a like or unlike.
type LikeState struct {
	PostID int64    `json:"post_id"`
	Likes  []string `json:"likes"`
	Liked  bool     `json:"liked"`
}
