package models

// Book 目录服务中的一本书（客户端只读）
type Book struct {
	ID                    int     `json:"id"`
	Titulo                string  `json:"titulo"`
	Autor                 string  `json:"autor"`
	Categoria             string  `json:"categoria"`
	AnioPublicacion       int     `json:"año_publicacion"`
	Editorial             string  `json:"editorial"`
	ISBN                  string  `json:"isbn"`
	Descripcion           *string `json:"descripcion,omitempty"`
	EjemplaresDisponibles int     `json:"ejemplares_disponibles"`
	EjemplaresTotales     int     `json:"ejemplares_totales"`
}

func (b Book) Available() bool { return b.EjemplaresDisponibles > 0 }
