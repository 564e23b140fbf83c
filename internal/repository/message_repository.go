package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbita-consulting/platform/internal/domain"
)

// MessageRepository manages the append-only conversation log.
type MessageRepository interface {
	// CreateWithAttachments writes the message and its attachments in one
	// transaction; a failing attachment write rolls the message back.
	CreateWithAttachments(ctx context.Context, msg *domain.Message, attachments []*domain.TicketAttachment) error
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Message, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository builds repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) CreateWithAttachments(ctx context.Context, msg *domain.Message, attachments []*domain.TicketAttachment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertMsg = `
        INSERT INTO messages (ticket_id, sender_id, content)
        VALUES ($1,$2,$3)
        RETURNING id, timestamp`
	if err := tx.QueryRow(ctx, insertMsg,
		msg.TicketID,
		msg.SenderID,
		msg.Content,
	).Scan(&msg.ID, &msg.Timestamp); err != nil {
		return err
	}

	const insertAtt = `
        INSERT INTO ticket_attachments (ticket_id, message_id, storage_key, file_name, mime_type, size_bytes, uploaded_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	for _, att := range attachments {
		att.TicketID = msg.TicketID
		messageID := msg.ID
		att.MessageID = &messageID
		if err := tx.QueryRow(ctx, insertAtt,
			att.TicketID,
			att.MessageID,
			att.StorageKey,
			att.FileName,
			att.MimeType,
			att.SizeBytes,
			att.UploadedBy,
		).Scan(&att.ID, &att.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	const query = `
        SELECT id, ticket_id, sender_id, content, timestamp
        FROM messages WHERE id=$1`
	var msg domain.Message
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&msg.ID,
		&msg.TicketID,
		&msg.SenderID,
		&msg.Content,
		&msg.Timestamp,
	); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Message, error) {
	const query = `
        SELECT id, ticket_id, sender_id, content, timestamp
        FROM messages WHERE ticket_id=$1 ORDER BY timestamp ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.TicketID,
			&msg.SenderID,
			&msg.Content,
			&msg.Timestamp,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
