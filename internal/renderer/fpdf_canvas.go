package renderer

import (
	"github.com/go-pdf/fpdf"
)

// pdfCanvas implementa Canvas sobre go-pdf/fpdf. fpdf usa origen arriba a la
// izquierda, por eso cada llamada convierte la coordenada Y.
type pdfCanvas struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string
	w, h float64
}

func newPDFCanvas() *pdfCanvas {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	w, h := pdf.GetPageSize()
	return &pdfCanvas{pdf: pdf, tr: tr, w: w, h: h}
}

func (c *pdfCanvas) PageSize() (float64, float64) { return c.w, c.h }

func (c *pdfCanvas) AddPage() { c.pdf.AddPage() }

func (c *pdfCanvas) SetFont(style string, size float64) {
	c.pdf.SetFont("Helvetica", style, size)
}

func (c *pdfCanvas) Text(x, y float64, s string) {
	c.pdf.Text(x, c.h-y, c.tr(s))
}

func (c *pdfCanvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, c.h-y1, x2, c.h-y2)
}

func (c *pdfCanvas) Image(path string, x, y, w, h float64) error {
	opts := fpdf.ImageOptions{ImageType: "", ReadDpi: true}
	c.pdf.ImageOptions(path, x, c.h-y-h, w, h, false, opts, 0, "")
	if err := c.pdf.Error(); err != nil {
		// El estado de error de fpdf es pegajoso: sin limpiarlo, una imagen
		// fallida anularía todo dibujo posterior y el Save del documento.
		c.pdf.ClearError()
		return err
	}
	return nil
}

func (c *pdfCanvas) Save(path string) error {
	return c.pdf.OutputFileAndClose(path)
}
