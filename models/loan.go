package models

const (
	LoanActive   = "activo"
	LoanReturned = "devuelto"
	LoanOverdue  = "vencido"
)

type Loan struct {
	ID                      int     `json:"id"`
	UsuarioID               int     `json:"usuario_id"`
	LibroID                 int     `json:"libro_id"`
	FechaPrestamo           Time    `json:"fecha_prestamo"`
	FechaDevolucionEsperada Time    `json:"fecha_devolucion_esperada"`
	FechaDevolucionReal     *Time   `json:"fecha_devolucion_real,omitempty"`
	Estado                  string  `json:"estado"`
	Multa                   float64 `json:"multa"`
	DiasRetraso             int     `json:"dias_retraso,omitempty"`
}

func (l Loan) Active() bool { return l.Estado == LoanActive }

type LoanRequest struct {
	UsuarioID    int `json:"usuario_id"`
	LibroID      int `json:"libro_id"`
	DiasPrestamo int `json:"dias_prestamo"`
}

// ReturnResult 是 devolver 的响应
type ReturnResult struct {
	Message     string  `json:"message"`
	Multa       float64 `json:"multa"`
	DiasRetraso int     `json:"dias_retraso"`
}
