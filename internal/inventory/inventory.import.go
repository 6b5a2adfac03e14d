// FilePath: internal/inventory/inventory.import.go
package inventory

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/repository"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/status"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/telemetry"
	nuts "github.com/vaudience/go-nuts"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither .csv nor .xlsx
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrMalformedFile is returned when the file cannot be read as a table
	ErrMalformedFile = errors.New("malformed file")
)

var requiredColumns = []string{"product_id", "product_name", "quantity", "zone", "date"}

type importRow struct {
	product models.Product
	scan    models.ScanRecord
}

// Import reads a .csv (';' separated) or .xlsx file and stores every valid
// row in one transaction. Invalid rows are reported, not fatal.
func (s *Service) Import(ctx context.Context, filename string, r io.Reader) (*models.ImportResult, error) {
	table, err := readTable(filename, r)
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrMalformedFile)
	}

	header := headerIndex(table[0])
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := header[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrMalformedFile, strings.Join(missing, ", "))
	}

	result := &models.ImportResult{Errors: []string{}}
	now := s.now().UTC()
	var rows []importRow

	for i, record := range table[1:] {
		if isBlank(record) {
			continue
		}
		row, err := parseRow(header, record)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		row.scan.ID = nuts.NID("scn", 16)
		row.scan.CreatedAt = now
		rows = append(rows, row)
	}

	err = s.uow.WithinTx(ctx, func(tx repository.Tx) error {
		for i := range rows {
			if _, err := tx.EnsureProduct(ctx, &rows[i].product); err != nil {
				return err
			}
			if err := tx.InsertScan(ctx, &rows[i].scan); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Success = len(rows)

	nuts.L.Infof("[Inventory] imported %s: %d rows stored, %d rejected", filename, result.Success, result.Failed)
	if err := s.events.Emit(EventImported, result); err != nil {
		nuts.L.Errorf("[Inventory] import hook failed: %v", err)
	}
	return result, nil
}

func readTable(filename string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSV(r)
	case ".xlsx":
		return readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q, expected .csv or .xlsx", ErrUnsupportedFormat, filename)
	}
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	table, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	return table, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedFile)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	return rows, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseRow(header map[string]int, record []string) (importRow, error) {
	get := func(col string) string {
		i, ok := header[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	for _, col := range requiredColumns {
		if get(col) == "" {
			return importRow{}, fmt.Errorf("missing required field %s", col)
		}
	}

	quantity, err := strconv.Atoi(get("quantity"))
	if err != nil {
		return importRow{}, fmt.Errorf("invalid quantity %q", get("quantity"))
	}
	if quantity < 0 {
		return importRow{}, fmt.Errorf("quantity must not be negative")
	}
	rowNumber, err := optionalInt(get("row"))
	if err != nil {
		return importRow{}, fmt.Errorf("invalid row %q", get("row"))
	}
	shelfNumber, err := optionalInt(get("shelf"))
	if err != nil {
		return importRow{}, fmt.Errorf("invalid shelf %q", get("shelf"))
	}
	scannedAt, err := telemetry.ParseTimestamp(get("date"))
	if err != nil {
		return importRow{}, fmt.Errorf("invalid date %q", get("date"))
	}

	category := get("category")
	if category == "" {
		category = models.UnknownCategory
	}
	robotID := get("robot_id")
	if robotID == "" {
		robotID = models.ManualRobotID
	}

	return importRow{
		product: models.Product{
			ID:           get("product_id"),
			Name:         get("product_name"),
			Category:     category,
			MinStock:     models.DefaultMinStock,
			OptimalStock: models.DefaultOptimalStock,
		},
		scan: models.ScanRecord{
			RobotID:     robotID,
			ProductID:   get("product_id"),
			Quantity:    quantity,
			Zone:        get("zone"),
			RowNumber:   rowNumber,
			ShelfNumber: shelfNumber,
			Status:      status.ClassifyScan(quantity),
			ScannedAt:   scannedAt,
		},
	}, nil
}

func optionalInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
