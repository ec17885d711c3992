package views

import (
	"context"

	"go.uber.org/zap"

	"biblioteca_portal/models"
)

// ReservationService creates reservations from any page. The catalog uses it, and so
// does the JSON API; it keeps the dashboard counters and the reservations page in sync.
type ReservationService struct {
	backend      Backend
	log          *zap.Logger
	dashboard    *Dashboard
	reservations *Reservations
}

// Create reserves bookID for DiasReserva days. After success the dashboard counters are
// refreshed, and the reservation list is reloaded only when current is the reservations page.
func (s *ReservationService) Create(ctx context.Context, st State, bookID int, current Page) (State, *models.Reservation, error) {
	if err := requireSession(st); err != nil {
		return st, nil, err
	}
	r, err := s.backend.CreateReservation(ctx, st.Session.Token, models.ReservationRequest{
		UsuarioID:   st.Session.User.ID,
		LibroID:     bookID,
		DiasReserva: DiasReserva,
	})
	if err != nil {
		s.log.Warn("create reservation", zap.Int("libro_id", bookID), zap.Error(err))
		return st, nil, err
	}

	st = s.dashboard.Refresh(ctx, st)
	if current == PageReservations {
		if next, err := s.reservations.Load(ctx, st); err == nil {
			st = next
		}
	}
	return st, r, nil
}
