package dto

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"workorder-system/internal/entities"
)

// Un formulario con solo los campos obligatorios produce un objeto completo:
// textos vacíos, flags en "no" y tri-estados sin marcar.
func TestParseSubmission_Defaults(t *testing.T) {
	form := url.Values{}
	form.Set("institucion", "Hospital Regional")
	form.Set("fecha", "2026-03-15")

	fields := ParseSubmission(form)
	o := fields.Order

	assert.Equal(t, "Hospital Regional", o.Institucion)
	assert.Equal(t, "2026-03-15", o.Fecha)
	assert.Equal(t, "", o.Encargado)
	assert.Equal(t, "", o.Contacto)
	assert.Equal(t, "", o.ProblemaCliente)

	assert.Equal(t, entities.FlagNo, o.ServicioInstalacion)
	assert.Equal(t, entities.FlagNo, o.ServicioMantenimiento)
	assert.Equal(t, entities.FlagNo, o.ResolucionOperativo)
	assert.Equal(t, entities.FlagNo, o.GarantiaEnGarantia)
	assert.Equal(t, entities.FlagNo, o.GarantiaFueraGarantia)
	assert.Equal(t, entities.FlagNo, o.GarantiaEnConvenio)

	assert.Equal(t, entities.TriSinMarcar, o.MantenimientoDesinfeccion)
	assert.Equal(t, entities.TriSinMarcar, o.MantenimientoPruebaFuncionamiento)

	for _, p := range o.Piezas {
		assert.Empty(t, p.Descripcion)
		assert.Empty(t, p.Cantidad)
	}

	assert.Empty(t, fields.Signatures.Tech)
	assert.Empty(t, fields.Signatures.Client)
}

func TestParseSubmission_TrimsWhitespace(t *testing.T) {
	form := url.Values{}
	form.Set("institucion", "  Clínica Dávila  ")
	form.Set("fecha", " 2026-03-15 ")

	o := ParseSubmission(form).Order
	assert.Equal(t, "Clínica Dávila", o.Institucion)
	assert.Equal(t, "2026-03-15", o.Fecha)
}

func TestParseSubmission_TriStateNormalization(t *testing.T) {
	form := url.Values{}
	form.Set("mantenimiento_desinfeccion", "aplica")
	form.Set("mantenimiento_limpieza_cpu", "no_aplica")
	form.Set("mantenimiento_cambio_filtro", "cualquier_cosa")

	o := ParseSubmission(form).Order
	assert.Equal(t, entities.TriAplica, o.MantenimientoDesinfeccion)
	assert.Equal(t, entities.TriNoAplica, o.MantenimientoLimpiezaCPU)
	assert.Equal(t, entities.TriSinMarcar, o.MantenimientoCambioFiltro)
}

// Los checkboxes solo aceptan "si" literal; cualquier otro valor cae a "no".
func TestParseSubmission_FlagsRejectGarbage(t *testing.T) {
	form := url.Values{}
	form.Set("servicio_mantenimiento", "si")
	form.Set("servicio_correctivo", "true")
	form.Set("resolucion_operativo", "on")

	o := ParseSubmission(form).Order
	assert.Equal(t, entities.FlagSi, o.ServicioMantenimiento)
	assert.Equal(t, entities.FlagNo, o.ServicioCorrectivo)
	assert.Equal(t, entities.FlagNo, o.ResolucionOperativo)
}

// El radio de garantía activa exactamente un flag.
func TestParseSubmission_WarrantyRadio(t *testing.T) {
	cases := []struct {
		value    string
		garantia [3]string
	}{
		{"en_garantia", [3]string{entities.FlagSi, entities.FlagNo, entities.FlagNo}},
		{"fuera_garantia", [3]string{entities.FlagNo, entities.FlagSi, entities.FlagNo}},
		{"en_convenio", [3]string{entities.FlagNo, entities.FlagNo, entities.FlagSi}},
		{"", [3]string{entities.FlagNo, entities.FlagNo, entities.FlagNo}},
		{"otra_cosa", [3]string{entities.FlagNo, entities.FlagNo, entities.FlagNo}},
	}

	for _, tc := range cases {
		form := url.Values{}
		if tc.value != "" {
			form.Set("garantia", tc.value)
		}
		o := ParseSubmission(form).Order
		assert.Equal(t, tc.garantia[0], o.GarantiaEnGarantia, tc.value)
		assert.Equal(t, tc.garantia[1], o.GarantiaFueraGarantia, tc.value)
		assert.Equal(t, tc.garantia[2], o.GarantiaEnConvenio, tc.value)
	}
}

func TestParseSubmission_Parts(t *testing.T) {
	form := url.Values{}
	form.Set("piezas_descripcion1", "Filtro HEPA")
	form.Set("piezas_cantidad1", "2")
	form.Set("piezas_descripcion3", "Correa")

	o := ParseSubmission(form).Order
	assert.Equal(t, entities.ReplacementPart{Descripcion: "Filtro HEPA", Cantidad: "2"}, o.Piezas[0])
	assert.Equal(t, entities.ReplacementPart{}, o.Piezas[1])
	assert.Equal(t, entities.ReplacementPart{Descripcion: "Correa"}, o.Piezas[2])
}

func TestParseSubmission_Signatures(t *testing.T) {
	form := url.Values{}
	form.Set(FieldSigTech, "data:image/png;base64,AAAA")

	fields := ParseSubmission(form)
	assert.Equal(t, "data:image/png;base64,AAAA", fields.Signatures.Tech)
	assert.Empty(t, fields.Signatures.Client)
}
