package entities

import "time"

// TriState es el estado de una actividad del checklist de mantenimiento.
type TriState string

const (
	TriAplica    TriState = "aplica"
	TriNoAplica  TriState = "no_aplica"
	TriSinMarcar TriState = ""
)

// Normalize descarta cualquier valor fuera de los tres estados permitidos.
func (t TriState) Normalize() TriState {
	switch t {
	case TriAplica, TriNoAplica:
		return t
	default:
		return TriSinMarcar
	}
}

// Valores de los flags "si"/"no" tal como se persisten.
const (
	FlagSi = "si"
	FlagNo = "no"
)

// Selección de garantía del formulario (radio, mutuamente excluyente).
const (
	GarantiaEnGarantia    = "en_garantia"
	GarantiaFueraGarantia = "fuera_garantia"
	GarantiaEnConvenio    = "en_convenio"
)

type ReplacementPart struct {
	Descripcion string
	Cantidad    string
}

// WorkOrder es una orden de trabajo de servicio técnico: una fila por visita.
// Todos los campos de texto opcionales se guardan como cadena vacía, nunca NULL.
type WorkOrder struct {
	ID          int64
	Institucion string
	Encargado   string
	Contacto    string
	Comuna      string
	Ciudad      string
	Fecha       string
	Equipo      string
	MarcaModelo string
	NumeroSerie string

	ServicioInstalacion     string
	ServicioMantenimiento   string
	ServicioCorrectivo      string
	ServicioVisita          string
	ServicioComercial       string
	ServicioOtro            string
	ServicioOtroEspecificar string

	GarantiaEnGarantia    string
	GarantiaFueraGarantia string
	GarantiaEnConvenio    string

	ProblemaCliente  string
	InspeccionVisual string

	MantenimientoPruebaFuncionamiento     TriState
	MantenimientoAperturaMecanismos       TriState
	MantenimientoDesinfeccion             TriState
	MantenimientoLimpiezaLubricacion      TriState
	MantenimientoLubricacionMotores       TriState
	MantenimientoCalibracionEjes          TriState
	MantenimientoCalibracionSoftware      TriState
	MantenimientoVerificacionSeguridad    TriState
	MantenimientoVerificacionFiltraciones TriState
	MantenimientoLimpiezaCPU              TriState
	MantenimientoCambioFiltro             TriState
	MantenimientoRetestePernos            TriState
	MantenimientoReseteoContadores        TriState
	MantenimientoOtros                    TriState
	MantenimientoOtrosEspecificar         string

	MedicionesParametros string

	Piezas [4]ReplacementPart

	DetallesServicio string

	ResolucionOperativo      string
	ResolucionNoOperativo    string
	ResolucionRequiereVisita string

	EncuestaPresentacion  string
	EncuestaReparacion    string
	EncuestaPreparacion   string
	EncuestaPlazos        string
	EncuestaNota          string
	EncuestaRecomendacion string

	TecnicoNombre string
	TecnicoFirma  string
	ClienteFirma  string
	PDFPath       string
	CreatedAt     time.Time
}

// ChecklistItem es una actividad del checklist con su etiqueta impresa.
type ChecklistItem struct {
	Label  string
	Estado TriState
}

// Checklist devuelve las 13 actividades fijas en el orden del documento.
// El renglón "Otros" con texto libre va aparte.
func (o *WorkOrder) Checklist() []ChecklistItem {
	return []ChecklistItem{
		{"Prueba funcionamiento", o.MantenimientoPruebaFuncionamiento},
		{"Apertura mecanismos", o.MantenimientoAperturaMecanismos},
		{"Desinfección equipo", o.MantenimientoDesinfeccion},
		{"Limpieza/lubricación", o.MantenimientoLimpiezaLubricacion},
		{"Lubricación motores", o.MantenimientoLubricacionMotores},
		{"Calibración ejes", o.MantenimientoCalibracionEjes},
		{"Calibración software", o.MantenimientoCalibracionSoftware},
		{"Verificación seguridad", o.MantenimientoVerificacionSeguridad},
		{"Verificación filtraciones", o.MantenimientoVerificacionFiltraciones},
		{"Limpieza CPU", o.MantenimientoLimpiezaCPU},
		{"Cambio filtro", o.MantenimientoCambioFiltro},
		{"Reteste pernos", o.MantenimientoRetestePernos},
		{"Reseteo contadores", o.MantenimientoReseteoContadores},
	}
}

// ServiceReason es un motivo de visita marcado en el formulario.
type ServiceReason struct {
	Label  string
	Marked bool
}

// ServiceReasons devuelve los motivos de visita en el orden del documento.
// El motivo "Otro" lleva el texto libre cuando fue especificado.
func (o *WorkOrder) ServiceReasons() []ServiceReason {
	otro := "Otro"
	if o.ServicioOtroEspecificar != "" {
		otro = "Otro: " + o.ServicioOtroEspecificar
	}
	return []ServiceReason{
		{"Instalación/Puesta en marcha", o.ServicioInstalacion == FlagSi},
		{"Mantenimiento preventivo", o.ServicioMantenimiento == FlagSi},
		{"Mantenimiento correctivo", o.ServicioCorrectivo == FlagSi},
		{"Visita técnica/Diagnóstico", o.ServicioVisita == FlagSi},
		{"Solicitud comercial", o.ServicioComercial == FlagSi},
		{otro, o.ServicioOtro == FlagSi},
	}
}
