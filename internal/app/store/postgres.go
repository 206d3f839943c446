package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"pulsechat/internal/pkg/randx"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Postgres implements Store on top of a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// NewPostgres initializes the connection pool and applies pending migrations.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database DSN: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	if err := runMigrations(sqlDB); err != nil {
		pool.Close()
		return nil, err
	}

	return &Postgres{pool: pool}, nil
}

// runMigrations applies all pending migrations from the embedded file system.
func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

const userColumns = `id, username, COALESCE(name, ''), COALESCE(avatar, ''), is_online, last_seen`

// FindUser resolves a user id to its identity summary.
func (p *Postgres) FindUser(ctx context.Context, id string) (*User, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Avatar, &u.IsOnline, &u.LastSeen)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &u, nil
}

// CreateMessage persists a message and returns it with the sender attached.
func (p *Postgres) CreateMessage(ctx context.Context, params CreateMessageParams) (*Message, error) {
	msg := Message{
		ID:         randx.MessageID(),
		Content:    params.Content,
		Type:       params.Type,
		SenderID:   params.SenderID,
		ReceiverID: params.ReceiverID,
		GroupID:    params.GroupID,
	}

	row := p.pool.QueryRow(ctx,
		`INSERT INTO messages (id, content, type, sender_id, receiver_id, group_id)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''))
		 RETURNING created_at`,
		msg.ID, msg.Content, string(msg.Type), msg.SenderID, msg.ReceiverID, msg.GroupID)

	if err := row.Scan(&msg.CreatedAt); err != nil {
		// The target was validated before the insert, but it can vanish in
		// between; the FK violation then means "gone", not a storage fault.
		if IsForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("create message: %w", err)
	}

	sender, err := p.FindUser(ctx, params.SenderID)
	if err != nil {
		return nil, fmt.Errorf("create message: load sender: %w", err)
	}
	msg.Sender = *sender

	return &msg, nil
}

// DeleteMessage hard-deletes a message after verifying the requester sent it.
func (p *Postgres) DeleteMessage(ctx context.Context, messageID, requesterID string) (*Message, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("delete message: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT id, content, type, sender_id, COALESCE(receiver_id, ''), COALESCE(group_id, ''), created_at
		 FROM messages WHERE id = $1 FOR UPDATE`, messageID)

	var msg Message
	var msgType string
	err = row.Scan(&msg.ID, &msg.Content, &msgType, &msg.SenderID, &msg.ReceiverID, &msg.GroupID, &msg.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete message: load: %w", err)
	}
	msg.Type = MessageType(msgType)

	if msg.SenderID != requesterID {
		return nil, ErrForbidden
	}

	if _, err := tx.Exec(ctx, `DELETE FROM messages WHERE id = $1`, messageID); err != nil {
		return nil, fmt.Errorf("delete message: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("delete message: commit: %w", err)
	}

	return &msg, nil
}

// IsGroupMember reports whether the user currently belongs to the group.
func (p *Postgres) IsGroupMember(ctx context.Context, userID, groupID string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM group_members WHERE user_id = $1 AND group_id = $2)`,
		userID, groupID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("group membership: %w", err)
	}

	return exists, nil
}

// ListGroupIDs returns the ids of every group the user belongs to.
func (p *Postgres) ListGroupIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT group_id FROM group_members WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// ListFriendIDs returns the user's friends. The relation is stored once per
// pair, so both columns are checked.
func (p *Postgres) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT CASE WHEN user1_id = $1 THEN user2_id ELSE user1_id END
		 FROM friends WHERE user1_id = $1 OR user2_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// SetOnlineStatus records the user's online flag and last-seen timestamp.
func (p *Postgres) SetOnlineStatus(ctx context.Context, userID string, online bool, lastSeen time.Time) error {
	_, err := p.pool.Exec(ctx,
		`UPDATE users SET is_online = $2, last_seen = $3 WHERE id = $1`,
		userID, online, lastSeen)
	if err != nil {
		return fmt.Errorf("set online status: %w", err)
	}

	return nil
}

func scanIDs(rows pgx.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
