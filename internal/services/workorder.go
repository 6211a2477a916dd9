package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"workorder-system/internal/dto"
	"workorder-system/internal/entities"
	"workorder-system/internal/repositories"
	"workorder-system/pkg/config"
	"workorder-system/pkg/customvalidator"
	apperrors "workorder-system/pkg/errors"
	"workorder-system/pkg/filestorage"
)

const signatureDataURLPrefix = "data:image/png;base64,"

// RendererInterface es el contrato con el renderizador de documentos.
type RendererInterface interface {
	Render(path string, order *entities.WorkOrder) error
}

// SubmissionResult es el reconocimiento de un envío aceptado. SendErr carga
// el fallo no fatal del notificador, si lo hubo; Recipient queda vacío cuando
// no se resolvió ningún destinatario válido.
type SubmissionResult struct {
	OrderID   int64
	Recipient string
	SendErr   error
}

type WorkOrderServiceInterface interface {
	Submit(ctx context.Context, form url.Values) (*SubmissionResult, error)
	GetSummaries(ctx context.Context) ([]dto.WorkOrderSummaryDTO, error)
	GetExportRows(ctx context.Context) ([]dto.ExportRowDTO, error)
	FindOrder(ctx context.Context, id int64) (*entities.WorkOrder, error)
}

type WorkOrderService struct {
	repo       repositories.WorkOrderRepositoryInterface
	signatures filestorage.FileStorageInterface
	renderer   RendererInterface
	mailer     MailerInterface
	validate   *validator.Validate
	cfg        *config.Config
	logger     *zap.Logger
}

func NewWorkOrderService(
	repo repositories.WorkOrderRepositoryInterface,
	signatures filestorage.FileStorageInterface,
	renderer RendererInterface,
	mailer MailerInterface,
	validate *validator.Validate,
	cfg *config.Config,
	logger *zap.Logger,
) *WorkOrderService {
	return &WorkOrderService{
		repo:       repo,
		signatures: signatures,
		renderer:   renderer,
		mailer:     mailer,
		validate:   validate,
		cfg:        cfg,
		logger:     logger,
	}
}

// requiredFields son los campos obligatorios del formulario, chequeados con
// el validador antes de cualquier efecto secundario.
type requiredFields struct {
	Institucion string `validate:"required"`
	Fecha       string `validate:"required,fecha"`
}

// Submit recorre la máquina de estados de un envío:
// Recibido → Validado → Persistido → Renderizado → Notificado → Reconocido.
// La validación (incluida la decodificación de firmas) ocurre antes de
// cualquier inserción: un payload malformado jamás deja una fila huérfana.
func (s *WorkOrderService) Submit(ctx context.Context, form url.Values) (*SubmissionResult, error) {
	fields := dto.ParseSubmission(form)

	sigTech, sigClient, reasons := s.validateSubmission(fields)
	if len(reasons) > 0 {
		return nil, apperrors.NewValidationError(reasons...)
	}

	order := fields.Order

	// Las firmas se escriben como artefactos propios antes del INSERT para
	// que la fila nazca con sus referencias, como un solo paso lógico.
	if sigTech != nil {
		path, err := s.signatures.SaveBytes(sigTech, "tech", ".png")
		if err != nil {
			return nil, fmt.Errorf("no se pudo guardar la firma del técnico: %w", err)
		}
		order.TecnicoFirma = path
	}
	if sigClient != nil {
		path, err := s.signatures.SaveBytes(sigClient, "client", ".png")
		if err != nil {
			return nil, fmt.Errorf("no se pudo guardar la firma del cliente: %w", err)
		}
		order.ClienteFirma = path
	}

	id, err := s.repo.Create(ctx, &order)
	if err != nil {
		s.logger.Error("Submit: error de almacenamiento al crear la orden", zap.Error(err))
		return nil, err
	}
	order.ID = id

	pdfPath := filepath.Join(s.cfg.Storage.PDFDir, fmt.Sprintf("orden_trabajo_%d.pdf", id))
	if err := s.renderer.Render(pdfPath, &order); err != nil {
		// La fila persiste sin referencia de documento.
		s.logger.Error("Submit: error generando el PDF", zap.Int64("orden", id), zap.Error(err))
		return nil, err
	}

	if err := s.repo.SetDocumentPath(ctx, id, pdfPath); err != nil {
		s.logger.Error("Submit: no se pudo registrar la ruta del PDF", zap.Int64("orden", id), zap.Error(err))
		return nil, err
	}

	result := &SubmissionResult{OrderID: id}

	recipient := s.resolveRecipient(&order)
	if recipient == "" {
		s.logger.Info("Orden generada sin envío de email", zap.Int64("orden", id))
		return result, nil
	}

	result.Recipient = recipient
	subject := fmt.Sprintf("Orden de Trabajo Novamedical #%d - %s", id, order.Institucion)
	body := fmt.Sprintf(
		"Se adjunta la orden de trabajo #%d para %s.\n\nFecha del servicio: %s\nTécnico: %s",
		id, order.Institucion, order.Fecha, order.TecnicoNombre,
	)

	if err := s.mailer.Send(recipient, subject, body, pdfPath); err != nil {
		// El fallo de envío no revierte nada: queda en el reconocimiento.
		s.logger.Error("Submit: error enviando email",
			zap.Int64("orden", id), zap.String("recipient", recipient), zap.Error(err))
		result.SendErr = err
	} else {
		s.logger.Info("Orden enviada", zap.Int64("orden", id), zap.String("recipient", recipient))
	}

	return result, nil
}

// validateSubmission devuelve los payloads de firma ya decodificados y la
// lista de motivos de rechazo. Sin efectos secundarios.
func (s *WorkOrderService) validateSubmission(fields *dto.SubmissionFields) (sigTech, sigClient []byte, reasons []string) {
	err := s.validate.Struct(requiredFields{
		Institucion: fields.Order.Institucion,
		Fecha:       fields.Order.Fecha,
	})
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				reasons = append(reasons, requiredFieldMessage(fe))
			}
		} else {
			reasons = append(reasons, "Formulario inválido")
		}
	}

	maxSize := s.cfg.Storage.MaxSignatureSize

	sigTech, reasons = s.checkSignature(fields.Signatures.Tech, "La firma del técnico", maxSize, reasons)
	sigClient, reasons = s.checkSignature(fields.Signatures.Client, "La firma del cliente", maxSize, reasons)
	return sigTech, sigClient, reasons
}

func (s *WorkOrderService) checkSignature(dataURL, label string, maxSize int, reasons []string) ([]byte, []string) {
	if dataURL == "" {
		return nil, reasons
	}
	// El tope se aplica sobre el payload codificado, tal como llega.
	if len(dataURL) > maxSize {
		return nil, append(reasons, label+" es demasiado grande")
	}

	data, err := decodeSignature(dataURL)
	if err != nil {
		return nil, append(reasons, label+" no es una imagen válida")
	}
	return data, reasons
}

func requiredFieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Institucion":
		return "El campo Institución/Cliente es requerido"
	case "Fecha":
		if fe.Tag() == "fecha" {
			return "La fecha no tiene un formato válido (AAAA-MM-DD)"
		}
		return "La fecha es requerida"
	default:
		return fmt.Sprintf("El campo %s no es válido", fe.Field())
	}
}

func decodeSignature(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, signatureDataURLPrefix) {
		return nil, apperrors.ErrBadSignatureFormat
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, signatureDataURLPrefix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrBadSignatureFormat, err)
	}
	return data, nil
}

// resolveRecipient aplica la política de resolución: primero el campo
// contacto, después el encargado; si ninguno es un email sintácticamente
// válido no se envía nada.
func (s *WorkOrderService) resolveRecipient(order *entities.WorkOrder) string {
	if customvalidator.IsValidEmail(order.Contacto) {
		return order.Contacto
	}
	if customvalidator.IsValidEmail(order.Encargado) {
		return order.Encargado
	}
	return ""
}

func (s *WorkOrderService) GetSummaries(ctx context.Context) ([]dto.WorkOrderSummaryDTO, error) {
	return s.repo.ListSummaries(ctx)
}

func (s *WorkOrderService) GetExportRows(ctx context.Context) ([]dto.ExportRowDTO, error) {
	return s.repo.ListForExport(ctx)
}

func (s *WorkOrderService) FindOrder(ctx context.Context, id int64) (*entities.WorkOrder, error) {
	return s.repo.Find(ctx, id)
}
