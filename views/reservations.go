package views

import (
	"context"

	"go.uber.org/zap"

	"biblioteca_portal/models"
)

const ConfirmCancel = "¿Estás seguro de que quieres cancelar esta reserva?"

// FilterReservations keeps reservations whose estado equals estado; "" keeps all
func FilterReservations(list []models.Reservation, estado string) []models.Reservation {
	if estado == "" {
		return list
	}
	out := make([]models.Reservation, 0, len(list))
	for _, r := range list {
		if r.Estado == estado {
			out = append(out, r)
		}
	}
	return out
}

func ReservationStatusLabel(estado string) string {
	switch estado {
	case models.ReservationActive:
		return "Activa"
	case models.ReservationCancelled:
		return "Cancelada"
	case models.ReservationExpired:
		return "Vencida"
	case models.ReservationCompleted:
		return "Completada"
	}
	return "Desconocido"
}

// ReservationCountLabel: "1 reserva encontrada", "2 reservas encontradas"
func ReservationCountLabel(n int) string { return Plural(n, "reserva", "encontrada") }

// NotificationIcon maps a notification type to its Font Awesome icon
func NotificationIcon(tipo string) string {
	switch tipo {
	case models.NotifyDue:
		return "fa-exclamation-triangle"
	case models.NotifyAvailable:
		return "fa-check-circle"
	case models.NotifyReminder:
		return "fa-bell"
	case models.NotifyCancelled:
		return "fa-times-circle"
	}
	return "fa-info-circle"
}

// Unread drops notifications already read
func Unread(list []models.Notification) []models.Notification {
	out := make([]models.Notification, 0, len(list))
	for _, n := range list {
		if !n.Leida {
			out = append(out, n)
		}
	}
	return out
}

type Reservations struct {
	backend   Backend
	log       *zap.Logger
	dashboard *Dashboard
}

// Load replaces the reservation snapshot with the session user's reservations
func (v *Reservations) Load(ctx context.Context, st State) (State, error) {
	if err := requireSession(st); err != nil {
		return st, err
	}
	list, err := v.backend.ListUserReservations(ctx, st.Session.Token, st.Session.User.ID)
	if err != nil {
		v.log.Warn("load reservations", zap.Int("usuario_id", st.Session.User.ID), zap.Error(err))
		return st, err
	}
	st.Reservations = list
	return st, nil
}

// LoadNotifications replaces the notification snapshot with the unread ones
func (v *Reservations) LoadNotifications(ctx context.Context, st State) (State, error) {
	if err := requireSession(st); err != nil {
		return st, err
	}
	list, err := v.backend.ListNotifications(ctx, st.Session.Token, st.Session.User.ID)
	if err != nil {
		v.log.Warn("load notifications", zap.Int("usuario_id", st.Session.User.ID), zap.Error(err))
		return st, err
	}
	st.Notifications = Unread(list)
	return st, nil
}

// Cancel cancels a reservation after confirmation. On success it refreshes, in order,
// the reservations, the notifications and the dashboard counters. Each refresh that
// fails is logged and the chain goes on; if the cancel itself fails nothing is refreshed.
func (v *Reservations) Cancel(ctx context.Context, st State, id string, confirm Confirmer) (State, string, error) {
	if err := requireSession(st); err != nil {
		return st, MsgLoginRequired, err
	}
	if !confirm(ConfirmCancel) {
		return st, "", ErrNotConfirmed
	}

	if _, err := v.backend.CancelReservation(ctx, st.Session.Token, id); err != nil {
		v.log.Warn("cancel reservation", zap.String("reserva_id", id), zap.Error(err))
		return st, Failure("cancelar la reserva", err, "Error al cancelar la reserva"), err
	}

	if next, err := v.Load(ctx, st); err == nil {
		st = next
	}
	if next, err := v.LoadNotifications(ctx, st); err == nil {
		st = next
	}
	st = v.dashboard.Refresh(ctx, st)

	return st, "✅ Reserva cancelada exitosamente", nil
}

// MarkRead marks a notification as read and reloads only the notification list
func (v *Reservations) MarkRead(ctx context.Context, st State, id string) (State, error) {
	if err := requireSession(st); err != nil {
		return st, err
	}
	if err := v.backend.MarkNotificationRead(ctx, st.Session.Token, id); err != nil {
		v.log.Warn("mark notification read", zap.String("notificacion_id", id), zap.Error(err))
		return st, err
	}
	if next, err := v.LoadNotifications(ctx, st); err == nil {
		st = next
	}
	return st, nil
}

type StatusOption struct {
	Value    string
	Label    string
	Selected bool
}

type ReservationRow struct {
	models.Reservation
	ShortID     string
	StatusLabel string
	Cancelable  bool
}

type NotificationRow struct {
	models.Notification
	Icon string
}

type ReservationsPage struct {
	Filter        string
	Statuses      []StatusOption
	Items         []ReservationRow
	Count         int
	CountLabel    string
	Notifications []NotificationRow
	Error         string
}

var reservationStatuses = []string{
	models.ReservationActive,
	models.ReservationCancelled,
	models.ReservationExpired,
	models.ReservationCompleted,
}

// ReservationsView builds the page for the estado filter
func ReservationsView(st State, estado string, loadErr error) ReservationsPage {
	p := ReservationsPage{Filter: estado}
	p.Statuses = append(p.Statuses, StatusOption{Value: "", Label: "Todas", Selected: estado == ""})
	for _, s := range reservationStatuses {
		p.Statuses = append(p.Statuses, StatusOption{Value: s, Label: ReservationStatusLabel(s), Selected: s == estado})
	}
	for _, n := range st.Notifications {
		p.Notifications = append(p.Notifications, NotificationRow{Notification: n, Icon: NotificationIcon(n.Tipo)})
	}
	if loadErr != nil {
		p.Error = MsgReservasFailed + ": " + Reason(loadErr, MsgUnknownError)
		return p
	}
	for _, r := range FilterReservations(st.Reservations, estado) {
		p.Items = append(p.Items, ReservationRow{
			Reservation: r,
			ShortID:     ShortID(r.ID),
			StatusLabel: ReservationStatusLabel(r.Estado),
			Cancelable:  r.Active(),
		})
	}
	p.Count = len(p.Items)
	p.CountLabel = ReservationCountLabel(p.Count)
	return p
}
