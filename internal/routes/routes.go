package routes

import (
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workorder-system/internal/controllers"
	"workorder-system/internal/renderer"
	"workorder-system/internal/repositories"
	"workorder-system/internal/services"
	"workorder-system/pkg/config"
	"workorder-system/pkg/filestorage"
)

// InitRouter arma la cadena repositorio → servicio → controlador y registra
// las rutas de la aplicación.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, validate *validator.Validate, cfg *config.Config, logger *zap.Logger) error {
	signatureStorage, err := filestorage.NewLocalFileStorage(cfg.Storage.UploadsDir)
	if err != nil {
		return err
	}

	orderRepo := repositories.NewWorkOrderRepository(dbConn, logger)
	pdfRenderer := renderer.New(logger)
	mailer := services.NewMailer(cfg.SMTP, logger)
	orderService := services.NewWorkOrderService(orderRepo, signatureStorage, pdfRenderer, mailer, validate, cfg, logger)

	orderController := controllers.NewWorkOrderController(orderService, logger)
	healthController := controllers.NewHealthController(dbConn, cfg, logger)

	e.GET("/", orderController.Index)
	e.POST("/create", orderController.Create)
	e.GET("/download/:id", orderController.Download)
	e.GET("/export", orderController.Export)
	e.GET("/health", healthController.Check)

	e.Static("/uploads", cfg.Storage.UploadsDir)

	return nil
}
