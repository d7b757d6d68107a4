package notifications

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/internal/handlers/httperr"
	"github.com/GlebRadaev/freelancehub/internal/handlers/request"
	"github.com/GlebRadaev/freelancehub/pkg/utils"
)

type Service interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
}

type NotificationHandler struct {
	notificationService Service
}

func New(notificationService Service) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications godoc
//
//	@Summary	List my notifications
//	@Tags		Notifications
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}	domain.Notification
//	@Router		/api/notifications [get]
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}

	list, err := h.notificationService.ListForUser(r.Context(), principal.ID)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	if list == nil {
		list = []domain.Notification{}
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// MarkRead godoc
//
//	@Summary	Mark a notification as read
//	@Tags		Notifications
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Notification id"
//	@Success	204
//	@Failure	404	{object}	utils.Response	"Notification not found"
//	@Router		/api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	principal, ok := request.Principal(w, r)
	if !ok {
		return
	}
	id, ok := request.PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), principal.ID, id); err != nil {
		httperr.Respond(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
