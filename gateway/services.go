package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"biblioteca_portal/models"
)

// Login exchanges credentials for a token. It never sends a token, so a 401 here is
// a plain *HTTPError ("Credenciales inválidas"), not ErrUnauthenticated.
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResult, error) {
	var out models.LoginResult
	in := models.LoginRequest{Username: username, Password: password}
	if err := c.Request(ctx, "", Auth, http.MethodPost, "/login", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListBooks(ctx context.Context, token string) ([]models.Book, error) {
	var out []models.Book
	if err := c.Request(ctx, token, Catalog, http.MethodGet, "/libros", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateLoan(ctx context.Context, token string, in models.LoanRequest) (*models.Loan, error) {
	var out models.Loan
	if err := c.Request(ctx, token, Loans, http.MethodPost, "/prestamos", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListUserLoans(ctx context.Context, token string, userID int) ([]models.Loan, error) {
	var out []models.Loan
	path := fmt.Sprintf("/prestamos/usuario/%d", userID)
	if err := c.Request(ctx, token, Loans, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAllLoans returns every user's loans; callers filter by user.
func (c *Client) ListAllLoans(ctx context.Context, token string) ([]models.Loan, error) {
	var out []models.Loan
	if err := c.Request(ctx, token, Loans, http.MethodGet, "/prestamos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ReturnLoan(ctx context.Context, token string, loanID int) (*models.ReturnResult, error) {
	var out models.ReturnResult
	path := fmt.Sprintf("/prestamos/%d/devolver", loanID)
	if err := c.Request(ctx, token, Loans, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateReservation(ctx context.Context, token string, in models.ReservationRequest) (*models.Reservation, error) {
	var out models.Reservation
	if err := c.Request(ctx, token, Reservations, http.MethodPost, "/reservas", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListUserReservations(ctx context.Context, token string, userID int) ([]models.Reservation, error) {
	var out []models.Reservation
	path := fmt.Sprintf("/reservas/usuario/%d", userID)
	if err := c.Request(ctx, token, Reservations, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CancelReservation(ctx context.Context, token, reservationID string) (*models.Reservation, error) {
	var out models.Reservation
	path := "/reservas/" + url.PathEscape(reservationID) + "/cancelar"
	if err := c.Request(ctx, token, Reservations, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListNotifications(ctx context.Context, token string, userID int) ([]models.Notification, error) {
	var out []models.Notification
	path := fmt.Sprintf("/notificaciones/usuario/%d", userID)
	if err := c.Request(ctx, token, Notifications, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, token, notificationID string) error {
	path := "/notificaciones/" + url.PathEscape(notificationID) + "/leer"
	return c.Request(ctx, token, Notifications, http.MethodPost, path, nil, nil)
}

// Health returns the gateway's aggregated service status
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	if err := c.Request(ctx, "", Root, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
