package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"workorder-system/internal/dto"
	"workorder-system/internal/services"
	apperrors "workorder-system/pkg/errors"
	"workorder-system/pkg/utils"
)

type WorkOrderController struct {
	service services.WorkOrderServiceInterface
	logger  *zap.Logger
}

func NewWorkOrderController(service services.WorkOrderServiceInterface, logger *zap.Logger) *WorkOrderController {
	return &WorkOrderController{service: service, logger: logger}
}

// Index muestra el formulario de envío más el listado de órdenes previas,
// de la más nueva a la más vieja.
func (c *WorkOrderController) Index(ctx echo.Context) error {
	records, err := c.service.GetSummaries(ctx.Request().Context())
	if err != nil {
		c.logger.Error("Index: error cargando el listado de órdenes", zap.Error(err))
		utils.AddFlash(ctx, "error", "Error cargando la página")
		records = []dto.WorkOrderSummaryDTO{}
	}

	return ctx.Render(http.StatusOK, "index.html", map[string]interface{}{
		"Records": records,
		"Today":   time.Now().Format("2006-01-02"),
		"Flashes": utils.GetFlashes(ctx),
	})
}

// Create recibe el POST del formulario. Redirige siempre a "/", con los
// motivos de rechazo o con el reconocimiento como mensajes flash: nunca una
// respuesta en blanco.
func (c *WorkOrderController) Create(ctx echo.Context) error {
	form, err := ctx.FormParams()
	if err != nil {
		c.logger.Error("Create: error leyendo el formulario", zap.Error(err))
		utils.AddFlash(ctx, "error", "Error interno del servidor")
		return ctx.Redirect(http.StatusSeeOther, "/")
	}

	result, err := c.service.Submit(ctx.Request().Context(), form)
	if err != nil {
		var verr *apperrors.ValidationError
		if errors.As(err, &verr) {
			for _, reason := range verr.Reasons {
				utils.AddFlash(ctx, "error", reason)
			}
			return ctx.Redirect(http.StatusSeeOther, "/")
		}

		c.logger.Error("Create: error creando la orden de trabajo", zap.Error(err))
		utils.AddFlash(ctx, "error", "Error interno del servidor")
		return ctx.Redirect(http.StatusSeeOther, "/")
	}

	switch {
	case result.SendErr != nil:
		utils.AddFlash(ctx, "error",
			fmt.Sprintf("Orden #%d generada pero falló el envío: %v", result.OrderID, result.SendErr))
	case result.Recipient != "":
		utils.AddFlash(ctx, "success",
			fmt.Sprintf("✅ Orden #%d generada y enviada a %s", result.OrderID, result.Recipient))
	default:
		utils.AddFlash(ctx, "success",
			fmt.Sprintf("✅ Orden #%d generada correctamente. No se detectó email válido para envío.", result.OrderID))
	}

	return ctx.Redirect(http.StatusSeeOther, "/")
}

// Download transmite el PDF de la orden como adjunto. Id inexistente o
// archivo ausente => flash de error y redirección, jamás una excepción al
// cliente.
func (c *WorkOrderController) Download(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.AddFlash(ctx, "error", "Orden inválida")
		return ctx.Redirect(http.StatusSeeOther, "/")
	}

	order, err := c.service.FindOrder(ctx.Request().Context(), id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			c.logger.Error("Download: error buscando la orden", zap.Int64("id", id), zap.Error(err))
		}
		utils.AddFlash(ctx, "error", "PDF no encontrado")
		return ctx.Redirect(http.StatusSeeOther, "/")
	}

	if order.PDFPath == "" {
		utils.AddFlash(ctx, "error", "PDF no encontrado")
		return ctx.Redirect(http.StatusSeeOther, "/")
	}
	if _, err := os.Stat(order.PDFPath); err != nil {
		utils.AddFlash(ctx, "error", "PDF no encontrado")
		return ctx.Redirect(http.StatusSeeOther, "/")
	}

	return ctx.Attachment(order.PDFPath, filepath.Base(order.PDFPath))
}

var exportHeaders = []interface{}{
	"N°", "Institución", "Encargado", "Contacto", "Comuna", "Ciudad",
	"Fecha", "Equipo", "Marca/Modelo", "N° Serie", "Técnico", "PDF", "Creada",
}

// Export descarga el registro completo de órdenes como planilla XLSX.
func (c *WorkOrderController) Export(ctx echo.Context) error {
	rows, err := c.service.GetExportRows(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusInternalServerError, "No se pudo generar la exportación", err, nil),
			c.logger,
		)
	}

	f := excelize.NewFile()
	sheet := "Órdenes de trabajo"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &exportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "M1", style)

	for i, item := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			item.ID, item.Institucion, item.Encargado, item.Contacto, item.Comuna,
			item.Ciudad, item.Fecha, item.Equipo, item.MarcaModelo, item.NumeroSerie,
			item.TecnicoNombre, item.PDFPath, item.CreatedAt,
		}
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "B", 25)
	f.SetColWidth(sheet, "G", "J", 18)

	fileName := fmt.Sprintf("ordenes_trabajo_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, fileName))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().WriteHeader(http.StatusOK)

	return f.Write(ctx.Response())
}
