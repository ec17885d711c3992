package views

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"biblioteca_portal/models"
)

// Counters are the three dashboard figures
type Counters struct {
	TotalBooks         int
	ActiveLoans        int
	ActiveReservations int
}

type Dashboard struct {
	backend     Backend
	log         *zap.Logger
	scopedLoans bool
}

// CountActiveLoans counts userID's loans in estado activo
func CountActiveLoans(loans []models.Loan, userID int) int {
	n := 0
	for _, l := range loans {
		if l.Active() && l.UsuarioID == userID {
			n++
		}
	}
	return n
}

func CountActiveReservations(list []models.Reservation) int {
	n := 0
	for _, r := range list {
		if r.Active() {
			n++
		}
	}
	return n
}

// Counters fetches the three figures concurrently. Any failure fails the whole join.
func (d *Dashboard) Counters(ctx context.Context, st State) (Counters, error) {
	if err := requireSession(st); err != nil {
		return Counters{}, err
	}
	token, uid := st.Session.Token, st.Session.User.ID

	var c Counters
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		books, err := d.backend.ListBooks(gctx, token)
		if err != nil {
			return err
		}
		c.TotalBooks = len(books)
		return nil
	})
	g.Go(func() error {
		var (
			loans []models.Loan
			err   error
		)
		if d.scopedLoans {
			loans, err = d.backend.ListUserLoans(gctx, token, uid)
		} else {
			loans, err = d.backend.ListAllLoans(gctx, token)
		}
		if err != nil {
			return err
		}
		c.ActiveLoans = CountActiveLoans(loans, uid)
		return nil
	})
	g.Go(func() error {
		list, err := d.backend.ListUserReservations(gctx, token, uid)
		if err != nil {
			return err
		}
		c.ActiveReservations = CountActiveReservations(list)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Counters{}, err
	}
	return c, nil
}

// Refresh stores fresh counters in the state, all zero when the join fails
func (d *Dashboard) Refresh(ctx context.Context, st State) State {
	c, err := d.Counters(ctx, st)
	if err != nil {
		d.log.Warn("load dashboard counters", zap.Error(err))
		c = Counters{}
	}
	st.Counters = &c
	return st
}

// ActivityLabel names an activity log action
func ActivityLabel(accion string) string {
	switch accion {
	case models.ActionReserve:
		return "Reserva de libro"
	case models.ActionLoan:
		return "Préstamo de libro"
	case models.ActionReturn:
		return "Devolución"
	case models.ActionCancel:
		return "Reserva cancelada"
	case models.ActionMarkRead:
		return "Notificación leída"
	case models.ActionLogin:
		return "Inicio de sesión"
	case models.ActionLogout:
		return "Cierre de sesión"
	}
	return accion
}

type DashboardPage struct {
	Counters Counters
	// Activity is the user's recent actions, when the activity log is enabled
	Activity []models.ActivityEntry
}

func DashboardView(st State) DashboardPage {
	if st.Counters == nil {
		return DashboardPage{}
	}
	return DashboardPage{Counters: *st.Counters}
}
