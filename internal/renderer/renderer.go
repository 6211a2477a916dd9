package renderer

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"workorder-system/internal/entities"
	apperrors "workorder-system/pkg/errors"
)

// Geometría fija del documento, en puntos sobre A4.
const (
	pageMargin = 40.0
	// Marca de agua baja: cuando el cursor cae por debajo se cierra la página.
	lowWater  = 100.0
	wrapWidth = 80
	sigWidth  = 180.0
	sigHeight = 50.0
)

// Símbolos del tri-estado del checklist.
const (
	MarkAplica    = "✓"
	MarkNoAplica  = "✗"
	MarkSinMarcar = "○"
)

// Identidad de la organización impresa en el encabezado.
const (
	companyName  = "NOVAMEDICAL CHILE LTDA"
	companyRUT   = "77.899.260-4"
	companyPhone = "Tel: +56 2 3288 1618"
	companyEmail = "Email: serviciotecnico@novamedical.cl"
)

const (
	placeholderTechSig   = "[Firma del técnico]"
	placeholderClientSig = "[Firma del cliente]"
)

// Mark devuelve el símbolo impreso para un estado del checklist.
func Mark(estado entities.TriState) string {
	switch estado {
	case entities.TriAplica:
		return MarkAplica
	case entities.TriNoAplica:
		return MarkNoAplica
	default:
		return MarkSinMarcar
	}
}

type Renderer struct {
	logger *zap.Logger
	// Now alimenta el pie de página; se fija en los tests.
	Now func() time.Time
}

func New(logger *zap.Logger) *Renderer {
	return &Renderer{logger: logger, Now: time.Now}
}

// Render produce el artefacto PDF de la orden en path. Falla únicamente si el
// archivo de salida no se puede escribir; la ausencia de cualquier campo se
// resuelve por omisión o con marcador, nunca con error.
func (r *Renderer) Render(path string, o *entities.WorkOrder) error {
	c := newPDFCanvas()
	r.RenderTo(c, o)

	if err := c.Save(path); err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrRenderFailed, path, err)
	}
	r.logger.Info("PDF generado", zap.String("path", path), zap.Int64("orden", o.ID))
	return nil
}

// RenderTo recorre las secciones en orden fijo enhebrando el cursor vertical.
// Cada función de sección recibe el cursor y devuelve dónde quedó.
func (r *Renderer) RenderTo(c Canvas, o *entities.WorkOrder) {
	_, h := c.PageSize()
	y := h - pageMargin

	y = r.drawHeader(c, y, o)
	y = r.drawClientBlock(c, y, o)
	y = r.drawEquipmentBlock(c, y, o)
	y = r.drawReasonAndWarranty(c, y, o)
	y = r.drawTextBlock(c, y, "PROBLEMA REPORTADO", o.ProblemaCliente, 5)
	y = r.drawTextBlock(c, y, "INSPECCIÓN VISUAL", o.InspeccionVisual, 10)
	y = r.drawChecklist(c, y, o)
	y = r.drawTextBlock(c, y, "MEDICIONES REALIZADAS", o.MedicionesParametros, 10)
	y = r.drawParts(c, y, o)
	y = r.drawTextBlock(c, y, "DETALLES Y OBSERVACIONES", o.DetallesServicio, 10)
	y = r.drawResolution(c, y, o)
	r.drawSignatures(c, y, o)
	r.drawFooter(c)
}

func (r *Renderer) drawHeader(c Canvas, y float64, o *entities.WorkOrder) float64 {
	w, _ := c.PageSize()

	if _, err := os.Stat("novamedical.png"); err == nil {
		_ = c.Image("novamedical.png", pageMargin-10, y-70, 100, 100)
	}

	c.SetFont("B", 14)
	c.Text(pageMargin+80, y, companyName)
	c.SetFont("", 9)
	c.Text(pageMargin+80, y-15, companyRUT)
	c.Text(pageMargin+80, y-30, companyPhone)
	c.Text(pageMargin+80, y-45, companyEmail)

	c.SetFont("B", 12)
	c.Text(w-180, y, fmt.Sprintf("ORDEN DE TRABAJO N°: %d", o.ID))
	c.SetFont("", 9)
	c.Text(w-180, y-15, "Fecha: "+o.Fecha)

	return y - 80
}

func (r *Renderer) drawClientBlock(c Canvas, y float64, o *entities.WorkOrder) float64 {
	w, _ := c.PageSize()

	c.SetFont("B", 11)
	c.Text(pageMargin, y, "DATOS DE CLIENTE Y/O USUARIO")
	y -= 15

	c.SetFont("", 9)
	c.Text(pageMargin, y, "Institución:")
	if o.Institucion != "" {
		c.Text(pageMargin+50, y, trunc(o.Institucion, 40))
	}
	c.Text(w/2, y, "Encargado:")
	if o.Encargado != "" {
		c.Text(w/2+48, y, trunc(o.Encargado, 25))
	}
	y -= 12

	c.Text(pageMargin, y, "Contacto:")
	if o.Contacto != "" {
		c.Text(pageMargin+45, y, trunc(o.Contacto, 30))
	}
	c.Text(w/2, y, "Comuna:")
	if o.Comuna != "" {
		c.Text(w/2+40, y, trunc(o.Comuna, 20))
	}
	y -= 12

	c.Text(pageMargin, y, "Ciudad:")
	if o.Ciudad != "" {
		c.Text(pageMargin+35, y, trunc(o.Ciudad, 20))
	}
	return y - 20
}

func (r *Renderer) drawEquipmentBlock(c Canvas, y float64, o *entities.WorkOrder) float64 {
	w, _ := c.PageSize()

	c.SetFont("B", 11)
	c.Text(pageMargin, y, "DATOS DEL EQUIPAMIENTO")
	y -= 15

	c.SetFont("", 9)
	c.Text(pageMargin, y, "Equipo:")
	if o.Equipo != "" {
		c.Text(pageMargin+35, y, trunc(o.Equipo, 25))
	}
	c.Text(w/2, y, "Marca/Modelo:")
	if o.MarcaModelo != "" {
		c.Text(w/2+60, y, trunc(o.MarcaModelo, 25))
	}
	y -= 12

	c.Text(pageMargin, y, "N° Serie:")
	if o.NumeroSerie != "" {
		c.Text(pageMargin+40, y, trunc(o.NumeroSerie, 20))
	}
	c.Text(w/2, y, "Ingeniero:")
	if o.TecnicoNombre != "" {
		c.Text(w/2+40, y, trunc(o.TecnicoNombre, 25))
	}
	return y - 25
}

// drawReasonAndWarranty dibuja motivo de visita y tipo de garantía en dos
// columnas con cursores independientes; la sección termina en el punto más
// bajo de ambas.
func (r *Renderer) drawReasonAndWarranty(c Canvas, y float64, o *entities.WorkOrder) float64 {
	w, h := c.PageSize()
	leftX := pageMargin
	rightX := w/2 + 20

	c.SetFont("B", 11)
	c.Text(leftX, y, "MOTIVO DE VISITA")
	c.SetFont("", 9)

	leftY := y - 15
	for _, reason := range o.ServiceReasons() {
		if !reason.Marked {
			continue
		}
		if leftY < lowWater {
			c.AddPage()
			y = h - pageMargin
			leftY = y - 15
			c.SetFont("B", 11)
			c.Text(leftX, y, "MOTIVO DE VISITA (cont.)")
			c.SetFont("", 9)
		}
		c.Text(leftX+5, leftY, MarkAplica+" "+reason.Label)
		leftY -= 10
	}

	c.SetFont("B", 11)
	c.Text(rightX, y, "TIPO DE GARANTÍA")
	c.SetFont("", 9)

	rightY := y - 15
	if o.GarantiaEnGarantia == entities.FlagSi {
		c.Text(rightX+5, rightY, MarkAplica+" En garantía")
		rightY -= 10
	}
	if o.GarantiaFueraGarantia == entities.FlagSi {
		c.Text(rightX+5, rightY, MarkAplica+" Fuera de garantía")
		rightY -= 10
	}
	if o.GarantiaEnConvenio == entities.FlagSi {
		c.Text(rightX+5, rightY, MarkAplica+" En convenio")
		rightY -= 10
	}

	// La maquetación no continúa hasta que ambas columnas terminaron.
	return min(leftY, rightY) - 15
}

// drawTextBlock emite un bloque de texto libre con el corte voraz de 80
// caracteres. Bloque vacío => no se dibuja nada, ni siquiera el título.
func (r *Renderer) drawTextBlock(c Canvas, y float64, title, body string, gap float64) float64 {
	if body == "" {
		return y
	}
	_, h := c.PageSize()

	c.SetFont("B", 11)
	c.Text(pageMargin, y, title)
	y -= 15

	c.SetFont("", 9)
	for _, line := range WrapText(body, wrapWidth) {
		if y < lowWater {
			c.AddPage()
			y = h - pageMargin - 15
		}
		c.Text(pageMargin+5, y, line)
		y -= 10
	}
	return y - gap
}

// drawChecklist dibuja la grilla de dos columnas del checklist de
// mantenimiento: el cursor solo baja al completar cada fila de dos.
func (r *Renderer) drawChecklist(c Canvas, y float64, o *entities.WorkOrder) float64 {
	w, h := c.PageSize()

	c.SetFont("B", 11)
	c.Text(pageMargin, y, "DESCRIPCIÓN DEL MANTENIMIENTO")
	y -= 20

	c.SetFont("", 9)
	colWidth := (w - 2*pageMargin) / 2

	for i, item := range o.Checklist() {
		xPos := pageMargin + 5
		if i%2 == 1 {
			xPos = pageMargin + colWidth + 10
		}

		if y < lowWater {
			c.AddPage()
			y = h - pageMargin - 20
			c.SetFont("B", 11)
			c.Text(pageMargin, y+20, "DESCRIPCIÓN MANTENIMIENTO (cont.)")
			c.SetFont("", 9)
		}

		c.Text(xPos, y, Mark(item.Estado)+" "+item.Label)

		if i%2 == 1 {
			y -= 12
		}
	}
	y -= 15

	// El renglón "Otros" solo aparece marcado como aplica y con texto.
	if o.MantenimientoOtros == entities.TriAplica && o.MantenimientoOtrosEspecificar != "" {
		c.Text(pageMargin, y, MarkAplica+" Otros: "+o.MantenimientoOtrosEspecificar)
		y -= 15
	}
	return y
}

func (r *Renderer) drawParts(c Canvas, y float64, o *entities.WorkOrder) float64 {
	_, h := c.PageSize()

	var piezas []entities.ReplacementPart
	for _, p := range o.Piezas {
		if p.Descripcion != "" && p.Cantidad != "" {
			piezas = append(piezas, p)
		}
	}
	if len(piezas) == 0 {
		return y
	}

	c.SetFont("B", 11)
	c.Text(pageMargin, y, "PIEZAS DE REEMPLAZO")
	y -= 15

	c.SetFont("", 9)
	for _, p := range piezas {
		if y < lowWater {
			c.AddPage()
			y = h - pageMargin - 15
		}
		c.Text(pageMargin+5, y, fmt.Sprintf("• %s - Cant: %s", p.Descripcion, p.Cantidad))
		y -= 10
	}
	return y - 5
}

func (r *Renderer) drawResolution(c Canvas, y float64, o *entities.WorkOrder) float64 {
	c.SetFont("B", 11)
	c.Text(pageMargin, y, "RESOLUCIÓN FINAL")
	y -= 15

	c.SetFont("", 9)
	if o.ResolucionOperativo == entities.FlagSi {
		c.Text(pageMargin+5, y, MarkAplica+" Equipo operativo")
		y -= 10
	}
	if o.ResolucionNoOperativo == entities.FlagSi {
		c.Text(pageMargin+5, y, MarkAplica+" Equipo no operativo")
		y -= 10
	}
	if o.ResolucionRequiereVisita == entities.FlagSi {
		c.Text(pageMargin+5, y, MarkAplica+" Requiere nueva visita")
		y -= 10
	}
	return y - 20
}

// drawSignatures dibuja los dos bloques de firma lado a lado. Si la imagen no
// existe o no se pudo aplanar, cae al marcador textual sin abortar el
// documento.
func (r *Renderer) drawSignatures(c Canvas, y float64, o *entities.WorkOrder) {
	w, h := c.PageSize()

	if y < 150 {
		c.AddPage()
		y = h - pageMargin
	}

	xTech := pageMargin
	xClient := w - pageMargin - sigWidth

	c.SetFont("B", 9)
	c.Text(xTech, y, "FIRMA INGENIERO")
	c.SetFont("", 8)
	c.Text(xTech, y-12, "Nombre: "+o.TecnicoNombre)
	c.Line(xTech, y-25, xTech+sigWidth, y-25)
	r.embedSignature(c, o.TecnicoFirma, xTech, y, placeholderTechSig)

	c.SetFont("B", 9)
	c.Text(xClient, y, "FIRMA CLIENTE / RESPONSABLE")
	c.SetFont("", 8)
	c.Text(xClient, y-12, "Nombre: "+o.Encargado)
	c.Line(xClient, y-25, xClient+sigWidth, y-25)
	r.embedSignature(c, o.ClienteFirma, xClient, y, placeholderClientSig)
}

func (r *Renderer) embedSignature(c Canvas, sigPath string, x, y float64, placeholder string) {
	if sigPath == "" {
		c.Text(x, y-45, placeholder)
		return
	}
	if _, err := os.Stat(sigPath); err != nil {
		c.Text(x, y-45, placeholder)
		return
	}

	flatPath, err := FlattenSignature(sigPath)
	if err != nil {
		r.logger.Warn("no se pudo procesar la firma", zap.String("path", sigPath), zap.Error(err))
		c.Text(x, y-45, placeholder)
		return
	}
	if err := c.Image(flatPath, x, y-80, sigWidth, sigHeight); err != nil {
		c.Text(x, y-45, placeholder)
	}
}

func (r *Renderer) drawFooter(c Canvas) {
	c.SetFont("", 7)
	c.Text(pageMargin, 30, "Documento generado automáticamente - Novamedical Services - "+r.Now().Format("02/01/2006 15:04"))
}

func trunc(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
