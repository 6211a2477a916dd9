package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"workorder-system/internal/dto"
	"workorder-system/internal/entities"
	"workorder-system/pkg/config"
	"workorder-system/pkg/customvalidator"
	apperrors "workorder-system/pkg/errors"
)

// --- dobles de prueba ---

type fakeRepo struct {
	rows      map[int64]*entities.WorkOrder
	nextID    int64
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[int64]*entities.WorkOrder)}
}

func (r *fakeRepo) Create(_ context.Context, order *entities.WorkOrder) (int64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.nextID++
	cp := *order
	cp.ID = r.nextID
	r.rows[r.nextID] = &cp
	return r.nextID, nil
}

func (r *fakeRepo) SetDocumentPath(_ context.Context, id int64, path string) error {
	row, ok := r.rows[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	row.PDFPath = path
	return nil
}

func (r *fakeRepo) ListSummaries(_ context.Context) ([]dto.WorkOrderSummaryDTO, error) {
	return nil, nil
}

func (r *fakeRepo) ListForExport(_ context.Context) ([]dto.ExportRowDTO, error) {
	return nil, nil
}

func (r *fakeRepo) Find(_ context.Context, id int64) (*entities.WorkOrder, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return row, nil
}

type fakeStorage struct {
	saved int
}

func (s *fakeStorage) SaveBytes(_ []byte, prefix, ext string) (string, error) {
	s.saved++
	return fmt.Sprintf("uploads/%s_%d%s", prefix, s.saved, ext), nil
}

func (s *fakeStorage) Exists(string) bool { return true }

type fakeRenderer struct {
	calls int
	err   error
}

func (r *fakeRenderer) Render(string, *entities.WorkOrder) error {
	r.calls++
	return r.err
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) Send(recipient, _, _, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, recipient)
	return nil
}

type serviceFixture struct {
	svc      *WorkOrderService
	repo     *fakeRepo
	storage  *fakeStorage
	renderer *fakeRenderer
	mailer   *fakeMailer
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	v := validator.New()
	require.NoError(t, customvalidator.RegisterCustomValidations(v))

	cfg := &config.Config{}
	cfg.Storage.PDFDir = "pdfs"
	cfg.Storage.MaxSignatureSize = 500000

	f := &serviceFixture{
		repo:     newFakeRepo(),
		storage:  &fakeStorage{},
		renderer: &fakeRenderer{},
		mailer:   &fakeMailer{},
	}
	f.svc = NewWorkOrderService(f.repo, f.storage, f.renderer, f.mailer, v, cfg, zap.NewNop())
	return f
}

func minimalForm() url.Values {
	form := url.Values{}
	form.Set("institucion", "Hospital Regional")
	form.Set("fecha", "2026-03-15")
	return form
}

func signatureDataURL(size int) string {
	payload := base64.StdEncoding.EncodeToString(make([]byte, size))
	return signatureDataURLPrefix + payload
}

// --- escenarios ---

func TestSubmit_MinimalForm(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Submit(context.Background(), minimalForm())
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.OrderID)
	assert.Empty(t, result.Recipient, "sin email válido no se intenta enviar")
	assert.NoError(t, result.SendErr)

	row := f.repo.rows[1]
	require.NotNil(t, row)
	assert.Equal(t, "Hospital Regional", row.Institucion)
	assert.Equal(t, entities.FlagNo, row.ServicioInstalacion)
	assert.Equal(t, "pdfs/orden_trabajo_1.pdf", row.PDFPath)
	assert.Equal(t, 1, f.renderer.calls)
	assert.Empty(t, f.mailer.sent)
}

func TestSubmit_MissingRequiredFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), url.Values{})
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reasons, "El campo Institución/Cliente es requerido")
	assert.Contains(t, verr.Reasons, "La fecha es requerida")

	// Rechazo sin efectos secundarios: ni fila, ni artefactos, ni render.
	assert.Empty(t, f.repo.rows)
	assert.Zero(t, f.storage.saved)
	assert.Zero(t, f.renderer.calls)
}

func TestSubmit_BadDateFormat(t *testing.T) {
	f := newFixture(t)
	form := minimalForm()
	form.Set("fecha", "15/03/2026")

	_, err := f.svc.Submit(context.Background(), form)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reasons, "La fecha no tiene un formato válido (AAAA-MM-DD)")
	assert.Empty(t, f.repo.rows)
}

func TestSubmit_SignatureSizeBoundary(t *testing.T) {
	f := newFixture(t)
	maxSize := f.svc.cfg.Storage.MaxSignatureSize

	// Exactamente en el tope: aceptada. El tope rige sobre el payload
	// codificado tal como llega, no sobre los bytes decodificados.
	atLimit := signatureDataURL(100)
	f.svc.cfg.Storage.MaxSignatureSize = len(atLimit)
	form := minimalForm()
	form.Set(dto.FieldSigTech, atLimit)

	result, err := f.svc.Submit(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.OrderID)

	// Un carácter por encima: rechazada sin fila.
	f.svc.cfg.Storage.MaxSignatureSize = len(atLimit) - 1
	form2 := minimalForm()
	form2.Set(dto.FieldSigTech, atLimit)

	_, err = f.svc.Submit(context.Background(), form2)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reasons, "La firma del técnico es demasiado grande")
	assert.Len(t, f.repo.rows, 1, "solo la primera orden debe existir")

	f.svc.cfg.Storage.MaxSignatureSize = maxSize
}

func TestSubmit_MalformedSignature(t *testing.T) {
	f := newFixture(t)

	cases := []string{
		"no es un data-url",
		"data:image/jpeg;base64,AAAA",
		signatureDataURLPrefix + "!!!no-base64!!!",
	}
	for _, payload := range cases {
		form := minimalForm()
		form.Set(dto.FieldSigClient, payload)

		_, err := f.svc.Submit(context.Background(), form)
		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr, payload)
		assert.Contains(t, verr.Reasons, "La firma del cliente no es una imagen válida")
	}
	assert.Empty(t, f.repo.rows)
	assert.Zero(t, f.storage.saved)
}

func TestSubmit_SignaturesStoredBeforeInsert(t *testing.T) {
	f := newFixture(t)
	form := minimalForm()
	form.Set(dto.FieldSigTech, signatureDataURL(64))
	form.Set(dto.FieldSigClient, signatureDataURL(64))

	result, err := f.svc.Submit(context.Background(), form)
	require.NoError(t, err)

	row := f.repo.rows[result.OrderID]
	require.NotNil(t, row)
	assert.Equal(t, 2, f.storage.saved)
	assert.Contains(t, row.TecnicoFirma, "tech_")
	assert.Contains(t, row.ClienteFirma, "client_")
}

func TestSubmit_RecipientResolution(t *testing.T) {
	cases := []struct {
		name      string
		contacto  string
		encargado string
		want      string
	}{
		{"contacto es email", "contacto@hospital.cl", "encargado@hospital.cl", "contacto@hospital.cl"},
		{"contacto es teléfono", "+56 9 1234 5678", "encargado@hospital.cl", "encargado@hospital.cl"},
		{"ninguno es email", "+56 9 1234 5678", "María González", ""},
		{"ambos vacíos", "", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			form := minimalForm()
			form.Set("contacto", tc.contacto)
			form.Set("encargado", tc.encargado)

			result, err := f.svc.Submit(context.Background(), form)
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.Recipient)

			if tc.want != "" {
				assert.Equal(t, []string{tc.want}, f.mailer.sent)
			} else {
				assert.Empty(t, f.mailer.sent)
			}
		})
	}
}

// El fallo del envío no revierte nada: la orden y su PDF quedan, y el error
// viaja en el resultado para el reconocimiento.
func TestSubmit_SendFailureIsBestEffort(t *testing.T) {
	f := newFixture(t)
	f.mailer.err = errors.New("conexión rechazada")
	form := minimalForm()
	form.Set("contacto", "contacto@hospital.cl")

	result, err := f.svc.Submit(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "contacto@hospital.cl", result.Recipient)
	assert.Error(t, result.SendErr)

	row := f.repo.rows[result.OrderID]
	require.NotNil(t, row)
	assert.Equal(t, "pdfs/orden_trabajo_1.pdf", row.PDFPath)
}

// Si el render falla la fila persiste sin referencia de documento.
func TestSubmit_RenderFailureKeepsRow(t *testing.T) {
	f := newFixture(t)
	f.renderer.err = apperrors.ErrRenderFailed

	_, err := f.svc.Submit(context.Background(), minimalForm())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRenderFailed)

	row := f.repo.rows[1]
	require.NotNil(t, row)
	assert.Empty(t, row.PDFPath)
	assert.Empty(t, f.mailer.sent)
}

func TestSubmit_MonotonicIdentities(t *testing.T) {
	f := newFixture(t)

	r1, err := f.svc.Submit(context.Background(), minimalForm())
	require.NoError(t, err)
	r2, err := f.svc.Submit(context.Background(), minimalForm())
	require.NoError(t, err)

	assert.Equal(t, int64(1), r1.OrderID)
	assert.Equal(t, int64(2), r2.OrderID)
	assert.Equal(t, "pdfs/orden_trabajo_2.pdf", f.repo.rows[2].PDFPath)
}
