package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCatalogReadsRowsUntilEmptyCode(t *testing.T) {
	path := writeCatalogFixture(t, []fixtureRow{
		{Code: "GAT-01", Description: "Comida para Gatos", Price: 10.5, WithImage: true},
		{Code: "GAT-02", Description: "Arena Sanitaria", Price: "$1,234.50"},
		{Code: "", Description: "ignored"},
		{Code: "GAT-03", Description: "after the gap", Price: 3},
	})

	snapshot, err := ParseCatalog(DocumentHandle{SourceID: "sheet-1", Path: path}, nil)
	require.NoError(t, err)
	require.Equal(t, 2, snapshot.Len())

	first := snapshot.Products[0]
	assert.Equal(t, "GAT-01", first.Code)
	assert.Equal(t, "Comida para Gatos", first.Description)
	assert.True(t, first.Price.Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, 3, first.SourceRow)
	assert.True(t, first.HasImage())
	assert.Equal(t, "comida para gatos", first.DescriptionNormalized)

	second := snapshot.Products[1]
	assert.True(t, second.Price.Equal(decimal.RequireFromString("1234.50")))
	assert.False(t, second.HasImage())

	_, ok := snapshot.Lookup("GAT-03")
	assert.False(t, ok, "rows after the first empty code are never read")
	assert.Equal(t, "sheet-1", snapshot.SourceID)
	assert.Equal(t, path, snapshot.Location)
}

func TestParseCatalogBadPriceIsZero(t *testing.T) {
	path := writeCatalogFixture(t, []fixtureRow{
		{Code: "X", Description: "Sin precio", Price: "consultar"},
		{Code: "Y", Description: "Vacío"},
	})

	snapshot, err := ParseCatalog(DocumentHandle{SourceID: "s", Path: path}, nil)
	require.NoError(t, err)
	require.Equal(t, 2, snapshot.Len())
	assert.True(t, snapshot.Products[0].Price.IsZero())
	assert.True(t, snapshot.Products[1].Price.IsZero())
}

func TestParseCatalogEmptySheet(t *testing.T) {
	path := writeCatalogFixture(t, nil)
	snapshot, err := ParseCatalog(DocumentHandle{SourceID: "s", Path: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.Len())
}

func TestParseCatalogNotASpreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("<html>login required</html>"), 0o644))

	_, err := ParseCatalog(DocumentHandle{SourceID: "s", Path: path}, nil)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, path, parseErr.Location)
}

func TestParseCatalogWhitespaceCodeDoesNotEndData(t *testing.T) {
	path := writeCatalogFixture(t, []fixtureRow{
		{Code: "GAT-01", Description: "Comida", Price: 10},
		{Code: "   ", Description: "Sin código", Price: 1},
		{Code: "GAT-02", Description: "Arena", Price: 5},
		{Code: "", Description: "fin"},
	})

	snapshot, err := ParseCatalog(DocumentHandle{SourceID: "s", Path: path}, nil)
	require.NoError(t, err)
	require.Equal(t, 3, snapshot.Len())
	assert.Equal(t, "GAT-02", snapshot.Products[2].Code)
	assert.Equal(t, 5, snapshot.Products[2].SourceRow)
}

func TestParseCatalogReadsActiveSheet(t *testing.T) {
	path := writeWorkbook(t, func(f *excelize.File) {
		require.NoError(t, f.SetCellValue("Sheet1", "B3", "OTRA-01"))

		idx, err := f.NewSheet("Gatos")
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Gatos", "B3", "GAT-01"))
		require.NoError(t, f.SetCellValue("Gatos", "C3", "Comida para Gatos"))
		require.NoError(t, f.SetCellValue("Gatos", "D3", 10))
		f.SetActiveSheet(idx)
	})

	snapshot, err := ParseCatalog(DocumentHandle{SourceID: "s", Path: path}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, snapshot.Len())
	assert.Equal(t, "GAT-01", snapshot.Products[0].Code)
}

func TestParseCatalogBindsImageToLaterRow(t *testing.T) {
	pic := testPNG(t, 6, 6)
	path := writeWorkbook(t, func(f *excelize.File) {
		for i, code := range []string{"A-1", "A-2", "A-3", "A-4"} {
			row := i + 3
			require.NoError(t, f.SetCellValue("Sheet1", cellName(t, 2, row), code))
			require.NoError(t, f.SetCellValue("Sheet1", cellName(t, 3, row), "Producto"))
		}
		addPicture(t, f, "Sheet1", "A5", pic)
	})

	snapshot, err := ParseCatalog(DocumentHandle{SourceID: "s", Path: path}, nil)
	require.NoError(t, err)
	require.Equal(t, 4, snapshot.Len())

	for _, p := range snapshot.Products {
		if p.Code == "A-3" {
			assert.Equal(t, 5, p.SourceRow)
			assert.Equal(t, pic, p.Image)
		} else {
			assert.False(t, p.HasImage(), "row %d must carry no image", p.SourceRow)
		}
	}
}

func TestParseCatalogLeftmostPictureWins(t *testing.T) {
	left := testPNG(t, 4, 4)
	right := testPNG(t, 9, 9)
	path := writeWorkbook(t, func(f *excelize.File) {
		require.NoError(t, f.SetCellValue("Sheet1", "B3", "GAT-01"))
		require.NoError(t, f.SetCellValue("Sheet1", "C3", "Comida"))
		addPicture(t, f, "Sheet1", "F3", right)
		addPicture(t, f, "Sheet1", "A3", left)
	})

	snapshot, err := ParseCatalog(DocumentHandle{SourceID: "s", Path: path}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, snapshot.Len())
	assert.Equal(t, left, snapshot.Products[0].Image)
}
