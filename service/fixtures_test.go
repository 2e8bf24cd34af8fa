package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fixtureRow struct {
	Code        any
	Description any
	Price       any
	WithImage   bool
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// writeCatalogFixture writes a workbook with two title rows followed by rows
// starting at row 3 and returns its path.
func writeCatalogFixture(t *testing.T, rows []fixtureRow) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	require.NoError(t, f.SetCellValue(sheet, "B1", "CATÁLOGO MILLEX"))
	require.NoError(t, f.SetCellValue(sheet, "B2", "Código"))
	require.NoError(t, f.SetCellValue(sheet, "C2", "Descripción"))
	require.NoError(t, f.SetCellValue(sheet, "D2", "Precio"))

	pic := testPNG(t, 8, 8)
	for i, row := range rows {
		r := i + 3
		if row.Code != nil {
			require.NoError(t, f.SetCellValue(sheet, cellName(t, 2, r), row.Code))
		}
		if row.Description != nil {
			require.NoError(t, f.SetCellValue(sheet, cellName(t, 3, r), row.Description))
		}
		if row.Price != nil {
			require.NoError(t, f.SetCellValue(sheet, cellName(t, 4, r), row.Price))
		}
		if row.WithImage {
			require.NoError(t, f.AddPictureFromBytes(sheet, cellName(t, 1, r), &excelize.Picture{
				Extension: ".png",
				File:      pic,
			}))
		}
	}

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func cellName(t *testing.T, col, row int) string {
	t.Helper()
	name, err := excelize.CoordinatesToCellName(col, row)
	require.NoError(t, err)
	return name
}

// writeWorkbook saves a workbook prepared by build and returns its path
func writeWorkbook(t *testing.T, build func(f *excelize.File)) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	build(f)

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func addPicture(t *testing.T, f *excelize.File, sheet, cell string, data []byte) {
	t.Helper()
	require.NoError(t, f.AddPictureFromBytes(sheet, cell, &excelize.Picture{
		Extension: ".png",
		File:      data,
	}))
}
