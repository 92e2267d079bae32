package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUnknownParticipant = errors.New("sender or receiver does not exist")

const queryTimeout = 5 * time.Second

type MessageStore interface {
	SaveMessage(ctx context.Context, senderUUID, receiverUUID, content string, messageType int16, messagedAt int64) (int64, error)
	UpdateLastActive(ctx context.Context, userUUID string, epoch int64) error
	MarkRead(ctx context.Context, receiverUUID string, ids []int64) ([]string, error)
	History(ctx context.Context, userUUID, peerUUID string, limit int, before int64) ([]HistoryItem, error)
	Conversations(ctx context.Context, userUUID string) ([]Conversation, error)
}

type postgresMessageStore struct {
	pool *pgxpool.Pool
}

func NewPostgresMessageStore(pool *pgxpool.Pool) MessageStore {
	return &postgresMessageStore{pool: pool}
}

func (r *postgresMessageStore) SaveMessage(ctx context.Context, senderUUID, receiverUUID, content string, messageType int16, messagedAt int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO messages (sender_id, receiver_id, content, message_type, messaged_at)
		SELECT s.id, rc.id, $3::text, $4::smallint, $5::bigint
		FROM users s, users rc
		WHERE s.uuid = $1 AND rc.uuid = $2 AND s.is_deleted = false AND rc.is_deleted = false
		RETURNING id`, senderUUID, receiverUUID, content, messageType, messagedAt).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUnknownParticipant
		}
		return 0, fmt.Errorf("insert message: %w", err)
	}
	return id, nil
}

func (r *postgresMessageStore) UpdateLastActive(ctx context.Context, userUUID string, epoch int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `UPDATE users SET last_active_at = $2 WHERE uuid = $1`, userUUID, epoch)
	if err != nil {
		return fmt.Errorf("update last_active_at: %w", err)
	}
	return nil
}

// MarkRead flags the given messages addressed to receiverUUID and returns the
// distinct senders to notify. Ids belonging to other receivers are ignored.
func (r *postgresMessageStore) MarkRead(ctx context.Context, receiverUUID string, ids []int64) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `WITH updated AS (
			UPDATE messages m SET is_read = true
			FROM users u
			WHERE m.receiver_id = u.id AND u.uuid = $1 AND m.id = ANY($2) AND m.is_read = false
			RETURNING m.sender_id
		)
		SELECT DISTINCT s.uuid FROM updated JOIN users s ON s.id = updated.sender_id ORDER BY s.uuid`, receiverUUID, ids)
	if err != nil {
		return nil, fmt.Errorf("mark messages read: %w", err)
	}
	senders, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("mark messages read: %w", err)
	}
	return senders, nil
}

// History returns up to limit messages older than before, oldest first.
func (r *postgresMessageStore) History(ctx context.Context, userUUID, peerUUID string, limit int, before int64) ([]HistoryItem, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT id, sender_uuid, receiver_uuid, content, message_type, is_read, messaged_at FROM (
			SELECT m.id, s.uuid AS sender_uuid, rc.uuid AS receiver_uuid, m.content, m.message_type, m.is_read, m.messaged_at
			FROM messages m
			JOIN users s ON s.id = m.sender_id
			JOIN users rc ON rc.id = m.receiver_id
			WHERE ((s.uuid = $1 AND rc.uuid = $2) OR (s.uuid = $2 AND rc.uuid = $1))
			  AND m.messaged_at < $3
			ORDER BY m.messaged_at DESC, m.id DESC
			LIMIT $4
		) recent ORDER BY messaged_at, id`, userUUID, peerUUID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (HistoryItem, error) {
		var it HistoryItem
		err := row.Scan(&it.ID, &it.SenderID, &it.ReceiverID, &it.Content, &it.MessageType, &it.IsRead, &it.MessagedAt)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan history: %w", err)
	}
	return items, nil
}

func (r *postgresMessageStore) Conversations(ctx context.Context, userUUID string) ([]Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `WITH me AS (SELECT id FROM users WHERE uuid = $1),
		pairs AS (
			SELECT CASE WHEN m.sender_id = me.id THEN m.receiver_id ELSE m.sender_id END AS peer_id,
			       m.content, m.messaged_at, m.id,
			       (m.receiver_id = me.id AND NOT m.is_read) AS unread
			FROM messages m, me
			WHERE m.sender_id = me.id OR m.receiver_id = me.id
		),
		latest AS (
			SELECT DISTINCT ON (peer_id) peer_id, content, messaged_at
			FROM pairs ORDER BY peer_id, messaged_at DESC, id DESC
		)
		SELECT u.uuid, u.name, l.content, l.messaged_at,
		       (SELECT COUNT(*) FROM pairs p WHERE p.peer_id = l.peer_id AND p.unread)::int
		FROM latest l JOIN users u ON u.id = l.peer_id
		ORDER BY l.messaged_at DESC`, userUUID)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	convs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Conversation, error) {
		var c Conversation
		err := row.Scan(&c.PeerID, &c.PeerName, &c.LastMessage, &c.LastMessagedAt, &c.Unread)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan conversations: %w", err)
	}
	return convs, nil
}
