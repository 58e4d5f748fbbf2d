package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jupiterclapton/murmure/internal/core/domain"
	"github.com/jupiterclapton/murmure/internal/core/ports"
	"github.com/jupiterclapton/murmure/internal/core/query"
)

type NotificationRepo struct {
	s *Store
}

func NewNotificationRepo(s *Store) ports.NotificationRepository {
	return &NotificationRepo{s: s}
}

// Le filtre unread s'exprime en texte pour coller à la valeur reçue
// dans la requête ("true" / "false").
var notificationCols = map[string]string{
	"id":         "n.id",
	"type":       "n.type",
	"unread":     "(NOT n.is_read)::text",
	"created_at": "n.created_at",
}

const notificationSelect = `
	SELECT n.id, n.recipient_id, n.actor_id, n.type, n.target_id, n.is_read, n.created_at
	FROM notifications n`

func (r *NotificationRepo) Save(ctx context.Context, notif *domain.Notification) error {
	q := `
		INSERT INTO notifications (id, recipient_id, actor_id, type, target_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.s.db.Exec(ctx, q,
		notif.ID, notif.RecipientID, notif.ActorID, notif.Type, notif.TargetID, notif.IsRead, notif.CreatedAt)
	return handleError(err)
}

func (r *NotificationRepo) FindByID(ctx context.Context, notifID string) (*domain.Notification, error) {
	row := r.s.db.QueryRow(ctx, notificationSelect+` WHERE n.id = $1`, notifID)
	return scanNotification(row)
}

func (r *NotificationRepo) List(ctx context.Context, recipientID string, plan *query.Plan) ([]*domain.Notification, int, error) {
	b := newPlanBuilder(notificationCols)
	b.Where("n.recipient_id = ?", recipientID)
	b.Apply(plan)

	var total int
	if err := r.s.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications n`+b.WhereSQL(), b.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.s.db.Query(ctx, notificationSelect+b.WhereSQL()+b.OrderSQL(plan)+b.PageSQL(plan), b.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notifs []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		notifs = append(notifs, n)
	}
	return notifs, total, rows.Err()
}

func (r *NotificationRepo) MarkRead(ctx context.Context, notifID string) error {
	tag, err := r.s.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, notifID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	err := row.Scan(&n.ID, &n.RecipientID, &n.ActorID, &n.Type, &n.TargetID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if derr := handleError(err); derr != err {
			return nil, derr
		}
		return nil, fmt.Errorf("db: scan notification: %w", err)
	}
	return &n, nil
}
