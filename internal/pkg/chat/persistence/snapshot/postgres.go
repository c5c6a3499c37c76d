package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "go-parley/internal/pkg/chat/domain"
)

// PgStore persists snapshots to Postgres. Each save rewrites the three
// tables inside one transaction so readers never observe a half-written
// snapshot.
type PgStore struct {
	pool *pgxpool.Pool
}

// Ensure interface compliance at compile time
var _ Store = (*PgStore)(nil)

func NewPgStore(pool *pgxpool.Pool) (*PgStore, error) {
	if pool == nil {
		return nil, errors.New("snapshot: nil pgx pool")
	}
	return &PgStore{pool: pool}, nil
}

// EnsureSchema creates the snapshot tables if they do not exist yet.
func (p *PgStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE SCHEMA IF NOT EXISTS chat;
		CREATE TABLE IF NOT EXISTS chat.app_user (
			id                       uuid PRIMARY KEY,
			name                     text NOT NULL,
			created_at               timestamptz NOT NULL,
			interested_users         jsonb NOT NULL DEFAULT '[]',
			interested_conversations jsonb NOT NULL DEFAULT '[]',
			last_user_check          timestamptz NOT NULL,
			last_conversation_check  timestamptz NOT NULL
		);
		CREATE TABLE IF NOT EXISTS chat.conversation (
			id                   uuid PRIMARY KEY,
			owner_id             uuid NOT NULL,
			created_at           timestamptz NOT NULL,
			title                text NOT NULL,
			default_access_level text NOT NULL,
			membership           jsonb NOT NULL DEFAULT '{}'
		);
		CREATE TABLE IF NOT EXISTS chat.message (
			id              uuid PRIMARY KEY,
			conversation_id uuid NOT NULL,
			author_id       uuid NOT NULL,
			created_at      timestamptz NOT NULL,
			content         text NOT NULL,
			likes           integer NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return fmt.Errorf("snapshot: ensure schema: %w", err)
	}
	return nil
}

func (p *PgStore) Save(ctx context.Context, snap *Snapshot) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("snapshot: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "TRUNCATE chat.app_user, chat.conversation, chat.message"); err != nil {
		return fmt.Errorf("snapshot: truncate: %w", err)
	}

	for _, u := range snap.Users {
		interestedUsers, err := json.Marshal(u.InterestedUsers)
		if err != nil {
			return fmt.Errorf("snapshot: encode interests: %w", err)
		}
		interestedConvos, err := json.Marshal(u.InterestedConversations)
		if err != nil {
			return fmt.Errorf("snapshot: encode interests: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO chat.app_user (
				id, name, created_at, interested_users, interested_conversations,
				last_user_check, last_conversation_check
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, u.ID, u.Name, u.CreatedAt, interestedUsers, interestedConvos, u.LastUserCheck, u.LastConversationCheck); err != nil {
			return fmt.Errorf("snapshot: insert user: %w", err)
		}
	}

	for _, c := range snap.Conversations {
		membership, err := json.Marshal(c.Membership)
		if err != nil {
			return fmt.Errorf("snapshot: encode membership: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO chat.conversation (
				id, owner_id, created_at, title, default_access_level, membership
			) VALUES ($1, $2, $3, $4, $5, $6)
		`, c.ID, c.Owner, c.CreatedAt, c.Title, c.DefaultLevel.String(), membership); err != nil {
			return fmt.Errorf("snapshot: insert conversation: %w", err)
		}
	}

	for _, m := range snap.Messages {
		if _, err := tx.Exec(ctx, `
			INSERT INTO chat.message (
				id, conversation_id, author_id, created_at, content, likes
			) VALUES ($1, $2, $3, $4, $5, $6)
		`, m.ID, m.ConversationID, m.AuthorID, m.CreatedAt, m.Content, m.Likes); err != nil {
			return fmt.Errorf("snapshot: insert message: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("snapshot: commit: %w", err)
	}
	return nil
}

func (p *PgStore) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	rows, err := p.pool.Query(ctx, `
		SELECT id, name, created_at, interested_users, interested_conversations,
		       last_user_check, last_conversation_check
		FROM chat.app_user ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("snapshot: query users: %w", err)
	}
	for rows.Next() {
		var u UserRecord
		var interestedUsers, interestedConvos []byte
		if err := rows.Scan(&u.ID, &u.Name, &u.CreatedAt, &interestedUsers, &interestedConvos,
			&u.LastUserCheck, &u.LastConversationCheck); err != nil {
			rows.Close()
			return nil, fmt.Errorf("snapshot: scan user: %w", err)
		}
		if err := json.Unmarshal(interestedUsers, &u.InterestedUsers); err != nil {
			rows.Close()
			return nil, fmt.Errorf("snapshot: decode interests: %w", err)
		}
		if err := json.Unmarshal(interestedConvos, &u.InterestedConversations); err != nil {
			rows.Close()
			return nil, fmt.Errorf("snapshot: decode interests: %w", err)
		}
		snap.Users = append(snap.Users, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot: read users: %w", err)
	}

	rows, err = p.pool.Query(ctx, `
		SELECT id, owner_id, created_at, title, default_access_level, membership
		FROM chat.conversation ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("snapshot: query conversations: %w", err)
	}
	for rows.Next() {
		var c ConversationRecord
		var level string
		var membership []byte
		if err := rows.Scan(&c.ID, &c.Owner, &c.CreatedAt, &c.Title, &level, &membership); err != nil {
			rows.Close()
			return nil, fmt.Errorf("snapshot: scan conversation: %w", err)
		}
		if c.DefaultLevel, err = chat.ParseAccessLevel(level); err != nil {
			rows.Close()
			return nil, err
		}
		if err := json.Unmarshal(membership, &c.Membership); err != nil {
			rows.Close()
			return nil, fmt.Errorf("snapshot: decode membership: %w", err)
		}
		snap.Conversations = append(snap.Conversations, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot: read conversations: %w", err)
	}

	rows, err = p.pool.Query(ctx, `
		SELECT id, conversation_id, author_id, created_at, content, likes
		FROM chat.message ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("snapshot: query messages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m MessageRecord
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.AuthorID, &m.CreatedAt, &m.Content, &m.Likes); err != nil {
			return nil, fmt.Errorf("snapshot: scan message: %w", err)
		}
		snap.Messages = append(snap.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot: read messages: %w", err)
	}

	return snap, nil
}
