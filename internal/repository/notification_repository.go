package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbita-consulting/platform/internal/domain"
)

// NotificationRepository persists in-platform notification records and
// per-user preferences.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	GetPreferences(ctx context.Context, userID string) (domain.NotificationPreferences, error)
	SavePreferences(ctx context.Context, prefs domain.NotificationPreferences) error
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository constructs repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

const notificationColumns = `id, user_id, type, title, message, read, target_kind, target_id, created_at`

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (user_id, type, title, message, read, target_kind, target_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	var kind, targetID *string
	if notification.Target != nil {
		k := string(notification.Target.Kind)
		kind = &k
		targetID = &notification.Target.ID
	}
	return r.pool.QueryRow(ctx, query,
		notification.UserID,
		notification.Type,
		notification.Title,
		notification.Message,
		notification.Read,
		kind,
		targetID,
	).Scan(&notification.ID, &notification.CreatedAt)
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanNotification(row)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id=$1`
	if unreadOnly {
		query += ` AND read=false`
	}
	query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *notification)
	}
	return result, rows.Err()
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND read=false`, userID).Scan(&count)
	return count, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE notifications SET read=true WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `UPDATE notifications SET read=true WHERE user_id=$1 AND read=false`, userID)
	return err
}

func (r *notificationRepository) GetPreferences(ctx context.Context, userID string) (domain.NotificationPreferences, error) {
	const query = `
        SELECT user_id, web_ticket_created, web_ticket_updated, web_ticket_closed, web_message_created, web_assessment_completed
        FROM notification_preferences WHERE user_id=$1`
	var prefs domain.NotificationPreferences
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&prefs.UserID,
		&prefs.WebTicketCreated,
		&prefs.WebTicketUpdated,
		&prefs.WebTicketClosed,
		&prefs.WebMessageCreated,
		&prefs.WebAssessmentCompleted,
	)
	if err == pgx.ErrNoRows {
		return domain.DefaultNotificationPreferences(userID), nil
	}
	if err != nil {
		return domain.NotificationPreferences{}, err
	}
	return prefs, nil
}

func (r *notificationRepository) SavePreferences(ctx context.Context, prefs domain.NotificationPreferences) error {
	const query = `
        INSERT INTO notification_preferences (user_id, web_ticket_created, web_ticket_updated, web_ticket_closed, web_message_created, web_assessment_completed)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (user_id) DO UPDATE SET
            web_ticket_created=EXCLUDED.web_ticket_created,
            web_ticket_updated=EXCLUDED.web_ticket_updated,
            web_ticket_closed=EXCLUDED.web_ticket_closed,
            web_message_created=EXCLUDED.web_message_created,
            web_assessment_completed=EXCLUDED.web_assessment_completed`
	_, err := r.pool.Exec(ctx, query,
		prefs.UserID,
		prefs.WebTicketCreated,
		prefs.WebTicketUpdated,
		prefs.WebTicketClosed,
		prefs.WebMessageCreated,
		prefs.WebAssessmentCompleted,
	)
	return err
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var notification domain.Notification
	var kind, targetID *string
	if err := row.Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Type,
		&notification.Title,
		&notification.Message,
		&notification.Read,
		&kind,
		&targetID,
		&notification.CreatedAt,
	); err != nil {
		return nil, err
	}
	if kind != nil && targetID != nil {
		notification.Target = &domain.TargetRef{Kind: domain.TargetKind(*kind), ID: *targetID}
	}
	return &notification, nil
}
