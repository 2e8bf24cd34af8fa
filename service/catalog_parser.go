package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"catalogo-millex/models"
	"catalogo-millex/utils"
)

// Spreadsheet layout: rows 1-2 hold titles, data starts at row 3 with
// code, description and price in columns B, C and D.
const (
	firstDataRow      = 3
	codeColumn        = 2
	descriptionColumn = 3
	priceColumn       = 4
)

// ParseCatalog reads a catalog document into an indexed snapshot.
// Scanning stops at the first row with an empty code cell; later rows are never read.
// Bad prices become zero and rows without a picture carry no image.
func ParseCatalog(handle DocumentHandle, logger *zap.Logger) (*models.CatalogSnapshot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f, err := excelize.OpenFile(handle.Path)
	if err != nil {
		return nil, &ParseError{Location: handle.Path, Err: err}
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		return nil, &ParseError{Location: handle.Path, Err: fmt.Errorf("workbook has no active sheet")}
	}

	records, err := readRecords(f, sheet, handle.SourceID)
	if err != nil {
		return nil, &ParseError{Location: handle.Path, Err: err}
	}

	images := readImagesByRow(f, sheet, logger)
	for i := range records {
		if img, ok := images[records[i].SourceRow]; ok {
			records[i].Image = img
		}
	}

	logger.Info("✓ catalog parsed",
		zap.String("sourceId", handle.SourceID),
		zap.String("sheet", sheet),
		zap.Int("products", len(records)),
		zap.Int("images", len(images)),
	)
	return BuildIndex(handle.SourceID, handle.Path, records), nil
}

func readRecords(f *excelize.File, sheet, sourceID string) ([]models.ProductRecord, error) {
	var records []models.ProductRecord
	for row := firstDataRow; ; row++ {
		rawCode, err := cellValue(f, sheet, codeColumn, row)
		if err != nil {
			return nil, err
		}
		// Only a truly empty cell ends the data; whitespace still counts as a row.
		if rawCode == "" {
			break
		}
		code := strings.TrimSpace(rawCode)
		if code == "" {
			code = rawCode
		}

		description, err := cellValue(f, sheet, descriptionColumn, row)
		if err != nil {
			return nil, err
		}
		rawPrice, err := cellValue(f, sheet, priceColumn, row)
		if err != nil {
			return nil, err
		}

		records = append(records, models.ProductRecord{
			SourceID:    sourceID,
			Code:        code,
			Description: strings.TrimSpace(description),
			Price:       utils.ParsePrice(rawPrice),
			SourceRow:   row,
		})
	}
	return records, nil
}

func cellValue(f *excelize.File, sheet string, col, row int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	return f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
}

// readImagesByRow maps 1-based row numbers to embedded picture bytes.
// Drawing anchors are stored 0-based; excelize reports them as cell names,
// which already carry the +1 row offset. When several pictures share a row,
// the leftmost one wins.
func readImagesByRow(f *excelize.File, sheet string, logger *zap.Logger) map[int][]byte {
	images := make(map[int][]byte)

	cells, err := f.GetPictureCells(sheet)
	if err != nil {
		logger.Warn("⚠️  failed to list embedded pictures", zap.String("sheet", sheet), zap.Error(err))
		return images
	}

	type anchor struct {
		cell     string
		col, row int
	}
	anchors := make([]anchor, 0, len(cells))
	for _, cell := range cells {
		col, row, err := excelize.CellNameToCoordinates(cell)
		if err != nil {
			continue
		}
		anchors = append(anchors, anchor{cell: cell, col: col, row: row})
	}
	sort.Slice(anchors, func(i, j int) bool {
		if anchors[i].row != anchors[j].row {
			return anchors[i].row < anchors[j].row
		}
		return anchors[i].col < anchors[j].col
	})

	for _, a := range anchors {
		if _, taken := images[a.row]; taken {
			continue
		}
		pics, err := f.GetPictures(sheet, a.cell)
		if err != nil {
			logger.Warn("⚠️  failed to read embedded picture", zap.String("cell", a.cell), zap.Error(err))
			continue
		}
		for _, pic := range pics {
			if len(pic.File) > 0 {
				images[a.row] = pic.File
				break
			}
		}
	}
	return images
}
