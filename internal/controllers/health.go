package controllers

import (
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workorder-system/pkg/config"
)

type HealthController struct {
	db     *pgxpool.Pool
	cfg    *config.Config
	logger *zap.Logger
}

func NewHealthController(db *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) *HealthController {
	return &HealthController{db: db, cfg: cfg, logger: logger}
}

// Check verifica la base de datos y los directorios de trabajo. Recrea los
// directorios si alguien los borró en caliente.
func (h *HealthController) Check(ctx echo.Context) error {
	report := map[string]interface{}{
		"status":      "ok",
		"database":    "ok",
		"directories": "ok",
		"timestamp":   time.Now().Format(time.RFC3339),
	}

	if err := h.db.Ping(ctx.Request().Context()); err != nil {
		h.logger.Error("Health: base de datos inalcanzable", zap.Error(err))
		report["status"] = "error"
		report["database"] = err.Error()
		return ctx.JSON(http.StatusInternalServerError, report)
	}

	for _, dir := range []string{h.cfg.Storage.UploadsDir, h.cfg.Storage.PDFDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			h.logger.Error("Health: no se pudo asegurar el directorio",
				zap.String("dir", dir), zap.Error(err))
			report["status"] = "error"
			report["directories"] = err.Error()
			return ctx.JSON(http.StatusInternalServerError, report)
		}
	}

	return ctx.JSON(http.StatusOK, report)
}
