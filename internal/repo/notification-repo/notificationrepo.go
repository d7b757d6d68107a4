package notificationrepo

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{db: db}
}

func (repo *Repository) Insert(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := repo.db.Exec(ctx, query, n.ID, n.UserID, n.Title, n.Message, n.Read, n.CreatedAt); err != nil {
		zap.L().Error("can't save notification", zap.Error(err))
		return err
	}
	return nil
}

func (repo *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error) {
	query := `
		SELECT id, user_id, title, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := repo.db.Query(ctx, query, userID, limit)
	if err != nil {
		zap.L().Error("can't query notifications", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			zap.L().Error("can't scan notification", zap.Error(err))
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (repo *Repository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := repo.db.Exec(ctx, "UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		zap.L().Error("can't mark notification read", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
