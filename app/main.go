package main

import (
	"context"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"workorder-system/internal/routes"
	"workorder-system/internal/view"
	"workorder-system/migrations"
	"workorder-system/pkg/config"
	"workorder-system/pkg/customvalidator"
	"workorder-system/pkg/database/postgresql"
	apperrors "workorder-system/pkg/errors"
	applogger "workorder-system/pkg/logger"
	"workorder-system/pkg/utils"
)

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.LogFile)
	defer logger.Sync()

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("Pánico recuperado",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Error interno del servidor", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	// Los mensajes flash viven en una cookie de sesión firmada.
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(cfg.Server.SecretKey))))

	renderer, err := view.NewTemplateRenderer()
	if err != nil {
		logger.Fatal("No se pudieron cargar las plantillas", zap.Error(err))
	}
	e.Renderer = renderer

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("Error registrando las reglas de validación", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	for _, dir := range []string{cfg.Storage.UploadsDir, cfg.Storage.PDFDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal("No se pudo crear el directorio de trabajo",
				zap.String("dir", dir), zap.Error(err))
		}
	}

	if err := postgresql.Migrate(cfg.Postgres.DSN, migrations.FS); err != nil {
		logger.Fatal("Error aplicando las migraciones", zap.Error(err))
	}

	dbConn, err := postgresql.ConnectDB(context.Background(), cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("No se pudo conectar a la base de datos", zap.Error(err))
	}
	defer dbConn.Close()

	if err := routes.InitRouter(e, dbConn, v, cfg, logger); err != nil {
		logger.Fatal("Error inicializando las rutas", zap.Error(err))
	}

	logger.Info("🚀 Servidor escuchando", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Error arrancando el servidor", zap.Error(err))
	}
}
