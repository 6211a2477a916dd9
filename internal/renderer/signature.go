package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// FlattenSignature compone la firma sobre un fondo blanco opaco y escribe el
// resultado junto al original con sufijo "_flat". Las firmas llegan como PNG
// con transparencia; sin este paso el PDF puede mostrarlas sobre negro.
func FlattenSignature(srcPath string) (string, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return "", fmt.Errorf("no se pudo decodificar la firma %s: %w", srcPath, err)
	}

	bounds := img.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, bounds, img, bounds.Min, draw.Over)

	ext := filepath.Ext(srcPath)
	outPath := strings.TrimSuffix(srcPath, ext) + "_flat" + ext

	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if err := png.Encode(out, flat); err != nil {
		return "", err
	}
	return outPath, nil
}
