package filestorage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// FileStorageInterface define el contrato del almacenamiento de artefactos.
type FileStorageInterface interface {
	// SaveBytes guarda el contenido bajo un nombre único "<prefix>_<unix>_<uuid><ext>"
	// y devuelve la ruta completa en disco. Los nombres nunca colisionan entre
	// solicitudes concurrentes.
	SaveBytes(data []byte, prefix string, ext string) (string, error)
	Exists(path string) bool
}

type LocalFileStorage struct {
	basePath string
}

func NewLocalFileStorage(basePath string) (*LocalFileStorage, error) {
	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			return nil, fmt.Errorf("no se pudo crear el directorio %s: %w", basePath, err)
		}
	}
	return &LocalFileStorage{basePath: basePath}, nil
}

func (s *LocalFileStorage) SaveBytes(data []byte, prefix string, ext string) (string, error) {
	fileName := fmt.Sprintf("%s_%d_%s%s", prefix, time.Now().Unix(), uuid.New().String(), ext)
	fullPath := filepath.Join(s.basePath, fileName)

	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", err
	}

	return filepath.ToSlash(fullPath), nil
}

func (s *LocalFileStorage) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
