package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/ChatAppBack/internal/models"
)

type ChatRepository struct {
	db DBTX
}

func NewChatRepository(db DBTX) *ChatRepository {
	return &ChatRepository{db: db}
}

const chatColumns = `id::text, name, email, owner_email, avatar, unread, last_message, last_message_time, created_at, updated_at`

// CreateOrGet inserts the membership, or returns the existing one when the
// owner already has this contact.
func (r *ChatRepository) CreateOrGet(ctx context.Context, chat *models.Chat) (*models.Chat, error) {
	query := `
		INSERT INTO chats (owner_email, name, email, avatar, unread)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner_email, email)
		DO UPDATE SET updated_at = chats.updated_at
		RETURNING ` + chatColumns

	created, err := scanChat(r.db.QueryRow(ctx, query, chat.User, chat.Name, chat.Email, chat.Avatar, chat.Unread))
	if err != nil {
		return nil, translatePgError(err)
	}
	return created, nil
}

func (r *ChatRepository) ListByOwner(ctx context.Context, owner string) ([]models.Chat, error) {
	query := `
		SELECT ` + chatColumns + `
		FROM chats
		WHERE owner_email = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := make([]models.Chat, 0)
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, *chat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return chats, nil
}

func scanChat(row pgx.Row) (*models.Chat, error) {
	var chat models.Chat
	err := row.Scan(
		&chat.ID,
		&chat.Name,
		&chat.Email,
		&chat.User,
		&chat.Avatar,
		&chat.Unread,
		&chat.LastMessage,
		&chat.LastMessageTime,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &chat, nil
}
