package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"workorder-system/internal/dto"
	"workorder-system/internal/entities"
	apperrors "workorder-system/pkg/errors"
)

const workOrdersTable = "work_orders"

// Columnas en el orden del INSERT (id y created_at los asigna la BD).
var workOrderColumns = []string{
	"institucion", "encargado", "contacto", "comuna", "ciudad", "fecha",
	"equipo", "marca_modelo", "numero_serie",
	"servicio_instalacion", "servicio_mantenimiento", "servicio_correctivo",
	"servicio_visita", "servicio_comercial", "servicio_otro", "servicio_otro_especificar",
	"garantia_en_garantia", "garantia_fuera_garantia", "garantia_en_convenio",
	"problema_cliente", "inspeccion_visual",
	"mantenimiento_prueba_funcionamiento", "mantenimiento_apertura_mecanismos",
	"mantenimiento_desinfeccion", "mantenimiento_limpieza_lubricacion",
	"mantenimiento_lubricacion_motores", "mantenimiento_calibracion_ejes",
	"mantenimiento_calibracion_software", "mantenimiento_verificacion_seguridad",
	"mantenimiento_verificacion_filtraciones", "mantenimiento_limpieza_cpu",
	"mantenimiento_cambio_filtro", "mantenimiento_reteste_pernos",
	"mantenimiento_reseteo_contadores", "mantenimiento_otros", "mantenimiento_otros_especificar",
	"mediciones_parametros",
	"piezas_descripcion1", "piezas_cantidad1", "piezas_descripcion2", "piezas_cantidad2",
	"piezas_descripcion3", "piezas_cantidad3", "piezas_descripcion4", "piezas_cantidad4",
	"detalles_servicio",
	"resolucion_operativo", "resolucion_no_operativo", "resolucion_requiere_visita",
	"encuesta_presentacion", "encuesta_reparacion", "encuesta_preparacion",
	"encuesta_plazos", "encuesta_nota", "encuesta_recomendacion",
	"tecnico_nombre", "tecnico_firma", "cliente_firma", "pdf_path",
}

func insertValues(o *entities.WorkOrder) []interface{} {
	return []interface{}{
		o.Institucion, o.Encargado, o.Contacto, o.Comuna, o.Ciudad, o.Fecha,
		o.Equipo, o.MarcaModelo, o.NumeroSerie,
		o.ServicioInstalacion, o.ServicioMantenimiento, o.ServicioCorrectivo,
		o.ServicioVisita, o.ServicioComercial, o.ServicioOtro, o.ServicioOtroEspecificar,
		o.GarantiaEnGarantia, o.GarantiaFueraGarantia, o.GarantiaEnConvenio,
		o.ProblemaCliente, o.InspeccionVisual,
		string(o.MantenimientoPruebaFuncionamiento), string(o.MantenimientoAperturaMecanismos),
		string(o.MantenimientoDesinfeccion), string(o.MantenimientoLimpiezaLubricacion),
		string(o.MantenimientoLubricacionMotores), string(o.MantenimientoCalibracionEjes),
		string(o.MantenimientoCalibracionSoftware), string(o.MantenimientoVerificacionSeguridad),
		string(o.MantenimientoVerificacionFiltraciones), string(o.MantenimientoLimpiezaCPU),
		string(o.MantenimientoCambioFiltro), string(o.MantenimientoRetestePernos),
		string(o.MantenimientoReseteoContadores), string(o.MantenimientoOtros), o.MantenimientoOtrosEspecificar,
		o.MedicionesParametros,
		o.Piezas[0].Descripcion, o.Piezas[0].Cantidad, o.Piezas[1].Descripcion, o.Piezas[1].Cantidad,
		o.Piezas[2].Descripcion, o.Piezas[2].Cantidad, o.Piezas[3].Descripcion, o.Piezas[3].Cantidad,
		o.DetallesServicio,
		o.ResolucionOperativo, o.ResolucionNoOperativo, o.ResolucionRequiereVisita,
		o.EncuestaPresentacion, o.EncuestaReparacion, o.EncuestaPreparacion,
		o.EncuestaPlazos, o.EncuestaNota, o.EncuestaRecomendacion,
		o.TecnicoNombre, o.TecnicoFirma, o.ClienteFirma, o.PDFPath,
	}
}

// scanDest devuelve los destinos de Scan en el mismo orden que workOrderColumns.
func scanDest(o *entities.WorkOrder) []interface{} {
	return []interface{}{
		&o.Institucion, &o.Encargado, &o.Contacto, &o.Comuna, &o.Ciudad, &o.Fecha,
		&o.Equipo, &o.MarcaModelo, &o.NumeroSerie,
		&o.ServicioInstalacion, &o.ServicioMantenimiento, &o.ServicioCorrectivo,
		&o.ServicioVisita, &o.ServicioComercial, &o.ServicioOtro, &o.ServicioOtroEspecificar,
		&o.GarantiaEnGarantia, &o.GarantiaFueraGarantia, &o.GarantiaEnConvenio,
		&o.ProblemaCliente, &o.InspeccionVisual,
		&o.MantenimientoPruebaFuncionamiento, &o.MantenimientoAperturaMecanismos,
		&o.MantenimientoDesinfeccion, &o.MantenimientoLimpiezaLubricacion,
		&o.MantenimientoLubricacionMotores, &o.MantenimientoCalibracionEjes,
		&o.MantenimientoCalibracionSoftware, &o.MantenimientoVerificacionSeguridad,
		&o.MantenimientoVerificacionFiltraciones, &o.MantenimientoLimpiezaCPU,
		&o.MantenimientoCambioFiltro, &o.MantenimientoRetestePernos,
		&o.MantenimientoReseteoContadores, &o.MantenimientoOtros, &o.MantenimientoOtrosEspecificar,
		&o.MedicionesParametros,
		&o.Piezas[0].Descripcion, &o.Piezas[0].Cantidad, &o.Piezas[1].Descripcion, &o.Piezas[1].Cantidad,
		&o.Piezas[2].Descripcion, &o.Piezas[2].Cantidad, &o.Piezas[3].Descripcion, &o.Piezas[3].Cantidad,
		&o.DetallesServicio,
		&o.ResolucionOperativo, &o.ResolucionNoOperativo, &o.ResolucionRequiereVisita,
		&o.EncuestaPresentacion, &o.EncuestaReparacion, &o.EncuestaPreparacion,
		&o.EncuestaPlazos, &o.EncuestaNota, &o.EncuestaRecomendacion,
		&o.TecnicoNombre, &o.TecnicoFirma, &o.ClienteFirma, &o.PDFPath,
	}
}

type WorkOrderRepositoryInterface interface {
	Create(ctx context.Context, order *entities.WorkOrder) (int64, error)
	SetDocumentPath(ctx context.Context, id int64, path string) error
	ListSummaries(ctx context.Context) ([]dto.WorkOrderSummaryDTO, error)
	ListForExport(ctx context.Context) ([]dto.ExportRowDTO, error)
	Find(ctx context.Context, id int64) (*entities.WorkOrder, error)
}

type WorkOrderRepository struct {
	storage *pgxpool.Pool
	builder sq.StatementBuilderType
	logger  *zap.Logger
}

func NewWorkOrderRepository(storage *pgxpool.Pool, logger *zap.Logger) WorkOrderRepositoryInterface {
	return &WorkOrderRepository{
		storage: storage,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger:  logger,
	}
}

// Create inserta la fila completa y devuelve la identidad asignada por la BD.
// El INSERT es una sentencia única: o entra toda la fila o no entra nada, y el
// BIGSERIAL garantiza identidades crecientes sin colisión entre llamadas
// concurrentes.
func (r *WorkOrderRepository) Create(ctx context.Context, order *entities.WorkOrder) (int64, error) {
	query, args, err := r.builder.
		Insert(workOrdersTable).
		Columns(workOrderColumns...).
		Values(insertValues(order)...).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error insertando orden de trabajo: %w", err)
	}
	return id, nil
}

func (r *WorkOrderRepository) SetDocumentPath(ctx context.Context, id int64, path string) error {
	query := fmt.Sprintf("UPDATE %s SET pdf_path = $1 WHERE id = $2", workOrdersTable)

	result, err := r.storage.Exec(ctx, query, path, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *WorkOrderRepository) ListSummaries(ctx context.Context) ([]dto.WorkOrderSummaryDTO, error) {
	query, args, err := r.builder.
		Select("id", "institucion", "fecha", "pdf_path").
		From(workOrdersTable).
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]dto.WorkOrderSummaryDTO, 0)
	for rows.Next() {
		var s dto.WorkOrderSummaryDTO
		if err := rows.Scan(&s.ID, &s.Institucion, &s.Fecha, &s.PDFPath); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *WorkOrderRepository) ListForExport(ctx context.Context) ([]dto.ExportRowDTO, error) {
	query, args, err := r.builder.
		Select("id", "institucion", "encargado", "contacto", "comuna", "ciudad",
			"fecha", "equipo", "marca_modelo", "numero_serie", "tecnico_nombre",
			"pdf_path", "created_at").
		From(workOrdersTable).
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]dto.ExportRowDTO, 0)
	for rows.Next() {
		var (
			item      dto.ExportRowDTO
			createdAt time.Time
		)
		if err := rows.Scan(&item.ID, &item.Institucion, &item.Encargado, &item.Contacto,
			&item.Comuna, &item.Ciudad, &item.Fecha, &item.Equipo, &item.MarcaModelo,
			&item.NumeroSerie, &item.TecnicoNombre, &item.PDFPath, &createdAt); err != nil {
			return nil, err
		}
		item.CreatedAt = createdAt.Format("2006-01-02, 15:04:05")
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *WorkOrderRepository) Find(ctx context.Context, id int64) (*entities.WorkOrder, error) {
	query := fmt.Sprintf(
		"SELECT id, %s, created_at FROM %s WHERE id = $1",
		strings.Join(workOrderColumns, ", "),
		workOrdersTable,
	)

	var order entities.WorkOrder
	dest := append([]interface{}{&order.ID}, scanDest(&order)...)
	dest = append(dest, &order.CreatedAt)

	if err := r.storage.QueryRow(ctx, query, id).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}
