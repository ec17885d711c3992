package views

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"biblioteca_portal/models"
)

const (
	// DiasPrestamo is the loan length requested from the catalog page
	DiasPrestamo = 15
	// DiasReserva is the hold length requested for reservations
	DiasReserva = 3
)

// Filter is the catalog search form. Empty fields match everything.
type Filter struct {
	Search   string
	Category string
	Author   string
}

func (f Filter) Active() bool { return f.Search != "" || f.Category != "" || f.Author != "" }

// Matches: search is a case-insensitive substring of title, author or category;
// category and author must be equal when set.
func (f Filter) Matches(b models.Book) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(b.Titulo), term) &&
			!strings.Contains(strings.ToLower(b.Autor), term) &&
			!strings.Contains(strings.ToLower(b.Categoria), term) {
			return false
		}
	}
	if f.Category != "" && b.Categoria != f.Category {
		return false
	}
	if f.Author != "" && b.Autor != f.Author {
		return false
	}
	return true
}

// FilterBooks keeps the books matching f, in their original order
func FilterBooks(books []models.Book, f Filter) []models.Book {
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if f.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}

// FilterOptions returns the distinct categories and authors, sorted
func FilterOptions(books []models.Book) (categories, authors []string) {
	return distinctSorted(books, func(b models.Book) string { return b.Categoria }),
		distinctSorted(books, func(b models.Book) string { return b.Autor })
}

func distinctSorted(books []models.Book, field func(models.Book) string) []string {
	seen := make(map[string]struct{}, len(books))
	out := []string{}
	for _, b := range books {
		v := field(b)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// BookCountLabel: "0 libros encontrados", "1 libro encontrado", ...
func BookCountLabel(n int) string { return Plural(n, "libro", "encontrado") }

type Catalog struct {
	backend  Backend
	log      *zap.Logger
	reserver *ReservationService
}

// Load replaces the book snapshot
func (v *Catalog) Load(ctx context.Context, st State) (State, error) {
	books, err := v.backend.ListBooks(ctx, st.Session.Token)
	if err != nil {
		v.log.Warn("load catalog", zap.Error(err))
		return st, err
	}
	st.Books = books
	return st, nil
}

func findBook(books []models.Book, id int) (models.Book, bool) {
	for _, b := range books {
		if b.ID == id {
			return b, true
		}
	}
	return models.Book{}, false
}

func bookTitle(books []models.Book, id int) string {
	if b, ok := findBook(books, id); ok && b.Titulo != "" {
		return b.Titulo
	}
	return fmt.Sprintf("ID: %d", id)
}

// guard rejects books the snapshot shows with no copies. Unknown ids go to the server.
func guard(books []models.Book, id int) error {
	if b, ok := findBook(books, id); ok && !b.Available() {
		return ErrUnavailable
	}
	return nil
}

// Reserve holds a book through the shared reservation service, then reloads the catalog.
// The returned message is the success text, or the failure text when err != nil.
func (v *Catalog) Reserve(ctx context.Context, st State, bookID int) (State, string, error) {
	if err := requireSession(st); err != nil {
		return st, "Debes iniciar sesión para reservar libros", err
	}
	if err := guard(st.Books, bookID); err != nil {
		return st, Failure("reservar el libro", err, MsgUnknownError), err
	}
	title := bookTitle(st.Books, bookID)

	st, r, err := v.reserver.Create(ctx, st, bookID, PageCatalog)
	if err != nil {
		return st, Failure("reservar el libro", err, MsgUnknownError), err
	}
	msg := fmt.Sprintf("✅ Reserva realizada exitosamente\n\n📚 Libro: %s\n📅 La reserva vence: %s", title, r.FechaVencimiento.Date())

	st = v.reload(ctx, st)
	return st, msg, nil
}

// Loan borrows a book for DiasPrestamo days, then reloads the catalog
func (v *Catalog) Loan(ctx context.Context, st State, bookID int) (State, string, error) {
	if err := requireSession(st); err != nil {
		return st, "Debes iniciar sesión para solicitar préstamos", err
	}
	if err := guard(st.Books, bookID); err != nil {
		return st, Failure("realizar el préstamo", err, MsgUnknownError), err
	}
	title := bookTitle(st.Books, bookID)

	loan, err := v.backend.CreateLoan(ctx, st.Session.Token, models.LoanRequest{
		UsuarioID:    st.Session.User.ID,
		LibroID:      bookID,
		DiasPrestamo: DiasPrestamo,
	})
	if err != nil {
		return st, Failure("realizar el préstamo", err, MsgUnknownError), err
	}
	msg := fmt.Sprintf("✅ Préstamo realizado exitosamente\n\n📖 Libro: %s\n📅 Fecha de devolución: %s", title, loan.FechaDevolucionEsperada.Date())

	st = v.reload(ctx, st)
	return st, msg, nil
}

// reload after a successful mutation; a failure keeps the old snapshot
func (v *Catalog) reload(ctx context.Context, st State) State {
	next, err := v.Load(ctx, st)
	if err != nil {
		v.log.Warn("reload catalog after action", zap.Error(err))
		return st
	}
	return next
}

// BookCard is one catalog entry as displayed
type BookCard struct {
	models.Book
	Disabled bool
}

type CatalogPage struct {
	Filter     Filter
	Categories []string
	Authors    []string
	Books      []BookCard
	Count      int
	CountLabel string
	// Error replaces the grid with an error panel and a retry link
	Error string
}

// CatalogView builds the page from the snapshot; loadErr is the last load failure, if any
func CatalogView(st State, f Filter, loadErr error) CatalogPage {
	if loadErr != nil {
		return CatalogPage{Filter: f, Error: MsgCatalogFailed}
	}
	cats, authors := FilterOptions(st.Books)
	visible := FilterBooks(st.Books, f)
	cards := make([]BookCard, 0, len(visible))
	for _, b := range visible {
		cards = append(cards, BookCard{Book: b, Disabled: !b.Available()})
	}
	return CatalogPage{
		Filter:     f,
		Categories: cats,
		Authors:    authors,
		Books:      cards,
		Count:      len(visible),
		CountLabel: BookCountLabel(len(visible)),
	}
}
