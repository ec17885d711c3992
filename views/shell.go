package views

// Page is one of the portal sections; exactly one is active at a time
type Page string

const (
	PageDashboard    Page = "dashboard"
	PageCatalog      Page = "catalogo"
	PageLoans        Page = "prestamos"
	PageReservations Page = "reservas"
)

// Pages in navigation order
var Pages = []Page{PageDashboard, PageCatalog, PageLoans, PageReservations}

// DashboardPath is the canonical address of the dashboard
const DashboardPath = "/app"

func (p Page) Path() string {
	if p == PageDashboard {
		return DashboardPath
	}
	return "/" + string(p)
}

func (p Page) Title() string {
	switch p {
	case PageCatalog:
		return "Catálogo"
	case PageLoans:
		return "Mis Préstamos"
	case PageReservations:
		return "Mis Reservas"
	}
	return "Dashboard"
}

func (p Page) Icon() string {
	switch p {
	case PageCatalog:
		return "fa-book"
	case PageLoans:
		return "fa-hand-holding"
	case PageReservations:
		return "fa-calendar-check"
	}
	return "fa-home"
}

// Resolve maps a request path to a page. "/" and "/app" are the dashboard; an unknown
// path falls back to the dashboard with known == false, and the caller should rewrite
// the address to canonical.
func Resolve(path string) (page Page, canonical string, known bool) {
	switch path {
	case "/", DashboardPath:
		return PageDashboard, DashboardPath, true
	}
	for _, p := range Pages {
		if p != PageDashboard && path == p.Path() {
			return p, path, true
		}
	}
	return PageDashboard, DashboardPath, false
}

type NavItem struct {
	Page   Page
	Label  string
	Path   string
	Icon   string
	Active bool
}

// Nav lists the navigation links with active marked
func Nav(active Page) []NavItem {
	items := make([]NavItem, 0, len(Pages))
	for _, p := range Pages {
		items = append(items, NavItem{Page: p, Label: p.Title(), Path: p.Path(), Icon: p.Icon(), Active: p == active})
	}
	return items
}
