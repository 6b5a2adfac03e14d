// FilePath: internal/inventory/inventory.export.go
package inventory

import (
	"bytes"
	"context"
	"fmt"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "History"

var exportHeadings = []string{"Date", "Robot", "Zone", "SKU", "Product", "Expected", "Actual", "Difference", "Status"}

// Export renders the filtered history as an .xlsx workbook. The page and
// limit filters apply, so large exports are paged by the caller.
func (s *Service) Export(ctx context.Context, f models.HistoryFilters) (*bytes.Buffer, error) {
	page, err := s.History(ctx, f)
	if err != nil {
		return nil, err
	}

	wb := excelize.NewFile()
	defer wb.Close()
	if err := wb.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for col, h := range exportHeadings {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := wb.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, item := range page.Items {
		values := []interface{}{
			item.Date, item.RobotID, item.Zone, item.SKU, item.Product,
			item.Expected, item.Actual, item.Difference, string(item.Status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := wb.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}
	}

	return wb.WriteToBuffer()
}
