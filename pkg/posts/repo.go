package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrUserNotFound = errors.New("user not found")
)

type PostRepository interface {
	CreatePost(ctx context.Context, np NewPost) (Post, error)
	GetPost(ctx context.Context, id int64) (Post, error)
	ListPosts(ctx context.Context, f ListFilter) ([]Post, int64, error)
	DeletePost(ctx context.Context, id int64) error
	Like(ctx context.Context, postID int64, userUUID string) ([]string, error)
	Unlike(ctx context.Context, postID int64, userUUID string) ([]string, error)
	AddComment(ctx context.Context, postID int64, authorUUID, content string) (Comment, error)
	ListComments(ctx context.Context, postID int64) ([]Comment, error)
}

type postgresPostRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postgresPostRepository{pool: pool}
}

const selectPost = `
	SELECT p.id, p.title, p.content, p.image_url, u.uuid, u.name, u.profile_pic_url, p.created_at,
	       COALESCE((SELECT array_agg(lu.uuid ORDER BY pl.created_at)
	                 FROM post_likes pl JOIN users lu ON lu.id = pl.user_id
	                 WHERE pl.post_id = p.id), '{}') AS likes
	FROM posts p
	JOIN users u ON u.id = p.author_id`

func scanPost(row pgx.Row) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.ImageURL, &p.Author.UUID, &p.Author.Name,
		&p.Author.ProfilePicURL, &p.CreatedAt, &p.Likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, ErrPostNotFound
		}
		return Post{}, err
	}
	if p.Likes == nil {
		p.Likes = []string{}
	}
	p.Comments = []Comment{}
	return p, nil
}

const selectComment = `
	SELECT c.id, c.post_id, u.uuid, u.name, u.profile_pic_url, c.content, c.created_at
	FROM post_comments c
	JOIN users u ON u.id = c.author_id`

func scanComment(row pgx.Row) (Comment, error) {
	var c Comment
	err := row.Scan(&c.ID, &c.PostID, &c.Author.UUID, &c.Author.Name, &c.Author.ProfilePicURL, &c.Content, &c.CreatedAt)
	return c, err
}

func (r *postgresPostRepository) CreatePost(ctx context.Context, np NewPost) (Post, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO posts (author_id, title, content, image_url)
		SELECT u.id, $2::text, $3::text, $4::text FROM users u WHERE u.uuid = $1 AND u.is_deleted = false
		RETURNING id`, np.AuthorUUID, np.Title, np.Content, np.ImageURL).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, ErrUserNotFound
		}
		return Post{}, fmt.Errorf("insert post: %w", err)
	}
	return r.GetPost(ctx, id)
}

func (r *postgresPostRepository) GetPost(ctx context.Context, id int64) (Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx, selectPost+` WHERE p.id = $1 AND p.is_deleted = false`, id))
	if err != nil {
		return Post{}, err
	}
	if p.Comments, err = r.ListComments(ctx, id); err != nil {
		return Post{}, err
	}
	return p, nil
}

// ListPosts returns newest posts first with their comments attached.
func (r *postgresPostRepository) ListPosts(ctx context.Context, f ListFilter) ([]Post, int64, error) {
	where := ` WHERE p.is_deleted = false AND ($1 = '' OR u.uuid = $1)`

	rows, err := r.pool.Query(ctx, selectPost+where+` ORDER BY p.created_at DESC, p.id DESC LIMIT $2 OFFSET $3`,
		f.AuthorUUID, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, err
	}
	posts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Post, error) { return scanPost(row) })
	if err != nil {
		return nil, 0, fmt.Errorf("scan posts: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts p JOIN users u ON u.id = p.author_id`+where,
		f.AuthorUUID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	if len(posts) == 0 {
		return posts, total, nil
	}
	ids := make([]int64, len(posts))
	byID := make(map[int64]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = i
	}
	crow, err := r.pool.Query(ctx, selectComment+` WHERE c.post_id = ANY($1) ORDER BY c.created_at, c.id`, ids)
	if err != nil {
		return nil, 0, err
	}
	comments, err := pgx.CollectRows(crow, func(row pgx.CollectableRow) (Comment, error) { return scanComment(row) })
	if err != nil {
		return nil, 0, fmt.Errorf("scan comments: %w", err)
	}
	for _, c := range comments {
		i := byID[c.PostID]
		posts[i].Comments = append(posts[i].Comments, c)
	}
	return posts, total, nil
}

func (r *postgresPostRepository) DeletePost(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE posts SET is_deleted = true WHERE id = $1 AND is_deleted = false`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *postgresPostRepository) likes(ctx context.Context, postID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT u.uuid FROM post_likes pl JOIN users u ON u.id = pl.user_id
		WHERE pl.post_id = $1 ORDER BY pl.created_at`, postID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// ensure tells a missing post from a missing user once a like statement touched no row.
func (r *postgresPostRepository) ensure(ctx context.Context, postID int64, userUUID string) error {
	var postOK, userOK bool
	err := r.pool.QueryRow(ctx, `SELECT
		EXISTS (SELECT 1 FROM posts WHERE id = $1 AND is_deleted = false),
		EXISTS (SELECT 1 FROM users WHERE uuid = $2 AND is_deleted = false)`, postID, userUUID).Scan(&postOK, &userOK)
	if err != nil {
		return err
	}
	if !postOK {
		return ErrPostNotFound
	}
	if !userOK {
		return ErrUserNotFound
	}
	return nil
}

// Like is idempotent: liking twice leaves one like.
func (r *postgresPostRepository) Like(ctx context.Context, postID int64, userUUID string) ([]string, error) {
	if err := r.ensure(ctx, postID, userUUID); err != nil {
		return nil, err
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO post_likes (post_id, user_id)
		SELECT $1, u.id FROM users u WHERE u.uuid = $2
		ON CONFLICT (post_id, user_id) DO NOTHING`, postID, userUUID)
	if err != nil {
		return nil, fmt.Errorf("like post: %w", err)
	}
	return r.likes(ctx, postID)
}

// Unlike is idempotent: removing a missing like succeeds.
func (r *postgresPostRepository) Unlike(ctx context.Context, postID int64, userUUID string) ([]string, error) {
	if err := r.ensure(ctx, postID, userUUID); err != nil {
		return nil, err
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM post_likes pl USING users u
		WHERE pl.user_id = u.id AND pl.post_id = $1 AND u.uuid = $2`, postID, userUUID)
	if err != nil {
		return nil, fmt.Errorf("unlike post: %w", err)
	}
	return r.likes(ctx, postID)
}

func (r *postgresPostRepository) AddComment(ctx context.Context, postID int64, authorUUID, content string) (Comment, error) {
	if err := r.ensure(ctx, postID, authorUUID); err != nil {
		return Comment{}, err
	}
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO post_comments (post_id, author_id, content)
		SELECT $1::bigint, u.id, $3::text FROM users u WHERE u.uuid = $2 RETURNING id`, postID, authorUUID, content).Scan(&id)
	if err != nil {
		return Comment{}, fmt.Errorf("insert comment: %w", err)
	}
	return scanComment(r.pool.QueryRow(ctx, selectComment+` WHERE c.id = $1`, id))
}

func (r *postgresPostRepository) ListComments(ctx context.Context, postID int64) ([]Comment, error) {
	rows, err := r.pool.Query(ctx, selectComment+` WHERE c.post_id = $1 ORDER BY c.created_at, c.id`, postID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Comment, error) { return scanComment(row) })
}
