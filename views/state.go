// Package views holds the page logic of the portal: what each page loads, how it filters
// and partitions records, and what a user action does to the page state.
//
// Views never touch HTTP or templates. Each operation takes a State, calls the Backend
// and returns the next State; the caller decides how to render it.
package views

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"biblioteca_portal/models"
)

// Backend is the subset of the gateway client the views use
type Backend interface {
	ListBooks(ctx context.Context, token string) ([]models.Book, error)
	CreateLoan(ctx context.Context, token string, in models.LoanRequest) (*models.Loan, error)
	ListUserLoans(ctx context.Context, token string, userID int) ([]models.Loan, error)
	ListAllLoans(ctx context.Context, token string) ([]models.Loan, error)
	ReturnLoan(ctx context.Context, token string, loanID int) (*models.ReturnResult, error)
	CreateReservation(ctx context.Context, token string, in models.ReservationRequest) (*models.Reservation, error)
	ListUserReservations(ctx context.Context, token string, userID int) ([]models.Reservation, error)
	CancelReservation(ctx context.Context, token, reservationID string) (*models.Reservation, error)
	ListNotifications(ctx context.Context, token string, userID int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, token, notificationID string) error
}

// State is the page state of one signed-in user. Snapshots are replaced whole on reload.
type State struct {
	Session       models.Session
	Books         []models.Book
	Loans         []models.Loan
	Reservations  []models.Reservation
	Notifications []models.Notification
	// Counters is nil until the dashboard counts have been fetched
	Counters *Counters
}

func NewState(s models.Session) State { return State{Session: s} }

var (
	// ErrNoSession means the action needs a signed-in user
	ErrNoSession = errors.New("views: no active session")
	// ErrUnavailable is the local guard for books with no copies left
	ErrUnavailable = errors.New("views: no copies available")
	// ErrNotConfirmed means the user declined the confirmation prompt
	ErrNotConfirmed = errors.New("views: not confirmed")
)

// Confirmer asks the user to accept an action
type Confirmer func(prompt string) bool

// Always accepts without asking
func Always(string) bool { return true }

func requireSession(st State) error {
	if !st.Session.Valid() {
		return ErrNoSession
	}
	return nil
}

// Views bundles the page views over one backend
type Views struct {
	Catalog      *Catalog
	Loans        *Loans
	Reservations *Reservations
	Reserver     *ReservationService
	Dashboard    *Dashboard
}

type Options struct {
	// ScopedLoans counts dashboard loans with the per-user endpoint
	ScopedLoans bool
}

func New(b Backend, log *zap.Logger, opts Options) *Views {
	if log == nil {
		log = zap.NewNop()
	}
	dash := &Dashboard{backend: b, log: log, scopedLoans: opts.ScopedLoans}
	res := &Reservations{backend: b, log: log, dashboard: dash}
	reserver := &ReservationService{backend: b, log: log, dashboard: dash, reservations: res}
	return &Views{
		Catalog:      &Catalog{backend: b, log: log, reserver: reserver},
		Loans:        &Loans{backend: b, log: log},
		Reservations: res,
		Reserver:     reserver,
		Dashboard:    dash,
	}
}
