package renderer

// Canvas es la superficie de dibujo del documento. El origen está en la
// esquina inferior izquierda y el eje Y crece hacia arriba, igual que el
// cursor de paginación que recorre las secciones.
type Canvas interface {
	PageSize() (w, h float64)
	AddPage()
	// SetFont fija Helvetica con el estilo ("" o "B") y tamaño dados.
	SetFont(style string, size float64)
	Text(x, y float64, s string)
	Line(x1, y1, x2, y2 float64)
	// Image dibuja la imagen con su esquina inferior izquierda en (x, y).
	Image(path string, x, y, w, h float64) error
}
