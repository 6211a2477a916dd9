package dto

import (
	"net/url"
	"strconv"
	"strings"

	"workorder-system/internal/entities"
)

// Valores por defecto cuando la clave no viene en el formulario.
const (
	DefaultText = ""
	DefaultFlag = entities.FlagNo
)

// Claves de las firmas en el POST.
const (
	FieldSigTech   = "sig_tech"
	FieldSigClient = "sig_client"
)

// SignaturePayloads transporta las firmas tal como llegaron (data-URL sin decodificar).
type SignaturePayloads struct {
	Tech   string
	Client string
}

// SubmissionFields es el objeto de entrada completamente poblado que ve la
// lógica de negocio: el defaulting de claves ausentes ocurre aquí y no más
// adelante.
type SubmissionFields struct {
	Order      entities.WorkOrder
	Signatures SignaturePayloads
}

// ParseSubmission convierte el formulario crudo en un SubmissionFields.
// Clave ausente => DefaultText para textos, DefaultFlag para checkboxes;
// los tri-estados se normalizan a aplica / no_aplica / sin marcar.
func ParseSubmission(form url.Values) *SubmissionFields {
	o := entities.WorkOrder{
		Institucion: text(form, "institucion"),
		Encargado:   text(form, "encargado"),
		Contacto:    text(form, "contacto"),
		Comuna:      text(form, "comuna"),
		Ciudad:      text(form, "ciudad"),
		Fecha:       strings.TrimSpace(form.Get("fecha")),
		Equipo:      text(form, "equipo"),
		MarcaModelo: text(form, "marca_modelo"),
		NumeroSerie: text(form, "numero_serie"),

		ServicioInstalacion:     flag(form, "servicio_instalacion"),
		ServicioMantenimiento:   flag(form, "servicio_mantenimiento"),
		ServicioCorrectivo:      flag(form, "servicio_correctivo"),
		ServicioVisita:          flag(form, "servicio_visita"),
		ServicioComercial:       flag(form, "servicio_comercial"),
		ServicioOtro:            flag(form, "servicio_otro"),
		ServicioOtroEspecificar: text(form, "servicio_otro_especificar"),

		ProblemaCliente:  text(form, "problema_cliente"),
		InspeccionVisual: text(form, "inspeccion_visual"),

		MantenimientoPruebaFuncionamiento:     tri(form, "mantenimiento_prueba_funcionamiento"),
		MantenimientoAperturaMecanismos:       tri(form, "mantenimiento_apertura_mecanismos"),
		MantenimientoDesinfeccion:             tri(form, "mantenimiento_desinfeccion"),
		MantenimientoLimpiezaLubricacion:      tri(form, "mantenimiento_limpieza_lubricacion"),
		MantenimientoLubricacionMotores:       tri(form, "mantenimiento_lubricacion_motores"),
		MantenimientoCalibracionEjes:          tri(form, "mantenimiento_calibracion_ejes"),
		MantenimientoCalibracionSoftware:      tri(form, "mantenimiento_calibracion_software"),
		MantenimientoVerificacionSeguridad:    tri(form, "mantenimiento_verificacion_seguridad"),
		MantenimientoVerificacionFiltraciones: tri(form, "mantenimiento_verificacion_filtraciones"),
		MantenimientoLimpiezaCPU:              tri(form, "mantenimiento_limpieza_cpu"),
		MantenimientoCambioFiltro:             tri(form, "mantenimiento_cambio_filtro"),
		MantenimientoRetestePernos:            tri(form, "mantenimiento_reteste_pernos"),
		MantenimientoReseteoContadores:        tri(form, "mantenimiento_reseteo_contadores"),
		MantenimientoOtros:                    tri(form, "mantenimiento_otros"),
		MantenimientoOtrosEspecificar:         text(form, "mantenimiento_otros_especificar"),

		MedicionesParametros: text(form, "mediciones_parametros"),

		DetallesServicio: text(form, "detalles_servicio"),

		ResolucionOperativo:      flag(form, "resolucion_operativo"),
		ResolucionNoOperativo:    flag(form, "resolucion_no_operativo"),
		ResolucionRequiereVisita: flag(form, "resolucion_requiere_visita"),

		EncuestaPresentacion:  text(form, "encuesta_presentacion"),
		EncuestaReparacion:    text(form, "encuesta_reparacion"),
		EncuestaPreparacion:   text(form, "encuesta_preparacion"),
		EncuestaPlazos:        text(form, "encuesta_plazos"),
		EncuestaNota:          text(form, "encuesta_nota"),
		EncuestaRecomendacion: text(form, "encuesta_recomendacion"),

		TecnicoNombre: text(form, "tecnico_nombre"),
	}

	for i := 0; i < len(o.Piezas); i++ {
		n := strconv.Itoa(i + 1)
		o.Piezas[i] = entities.ReplacementPart{
			Descripcion: text(form, "piezas_descripcion"+n),
			Cantidad:    text(form, "piezas_cantidad"+n),
		}
	}

	// El radio "garantia" activa a lo sumo uno de los tres flags.
	garantia := form.Get("garantia")
	o.GarantiaEnGarantia = boolFlag(garantia == entities.GarantiaEnGarantia)
	o.GarantiaFueraGarantia = boolFlag(garantia == entities.GarantiaFueraGarantia)
	o.GarantiaEnConvenio = boolFlag(garantia == entities.GarantiaEnConvenio)

	return &SubmissionFields{
		Order: o,
		Signatures: SignaturePayloads{
			Tech:   form.Get(FieldSigTech),
			Client: form.Get(FieldSigClient),
		},
	}
}

func text(form url.Values, key string) string {
	if !form.Has(key) {
		return DefaultText
	}
	return strings.TrimSpace(form.Get(key))
}

func flag(form url.Values, key string) string {
	if form.Get(key) == entities.FlagSi {
		return entities.FlagSi
	}
	return DefaultFlag
}

func tri(form url.Values, key string) entities.TriState {
	return entities.TriState(form.Get(key)).Normalize()
}

func boolFlag(b bool) string {
	if b {
		return entities.FlagSi
	}
	return entities.FlagNo
}

// WorkOrderSummaryDTO es la fila del listado de la página principal.
type WorkOrderSummaryDTO struct {
	ID          int64  `json:"id"`
	Institucion string `json:"institucion"`
	Fecha       string `json:"fecha"`
	PDFPath     string `json:"pdf_path"`
}

// ExportRowDTO es la fila del registro exportado a XLSX.
type ExportRowDTO struct {
	ID            int64
	Institucion   string
	Encargado     string
	Contacto      string
	Comuna        string
	Ciudad        string
	Fecha         string
	Equipo        string
	MarcaModelo   string
	NumeroSerie   string
	TecnicoNombre string
	PDFPath       string
	CreatedAt     string
}
