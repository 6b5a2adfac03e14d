package inventory

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/database"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/repository/sqlstore"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestService(t *testing.T) (*Service, *sqlstore.Store) {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.InitSchema(context.Background(), db))
	t.Cleanup(func() { db.Close() })

	store := sqlstore.New(db)
	svc := New(store.Scans, store)
	svc.now = func() time.Time { return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC) }
	return svc, store
}

const sampleCSV = "product_id;product_name;quantity;zone;date;category;robot_id;row;shelf\n" +
	"TEL-4567;Router RT-AC68U;45;A;2024-01-15T10:00:00;Routers;RB-001;12;3\n" +
	"TEL-9999;New Cable;15;B;2024-01-15;;;;\n" +
	"TEL-1000;Missing qty;;C;2024-01-15;;;;\n" +
	"TEL-1001;Bad date;4;C;15/01/2024;;;;\n" +
	"\n" + // blank lines are skipped
	"TEL-1002;Bad qty;many;C;2024-01-15;;;;\n"

func TestImportCSV(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	require.NoError(t, store.Products.Upsert(ctx, &models.Product{ID: "TEL-4567", Name: "Router RT-AC68U", Category: "Routers", MinStock: 10, OptimalStock: 50}))

	result, err := svc.Import(ctx, "inventory.csv", strings.NewReader("\xef\xbb\xbf"+sampleCSV))
	require.NoError(t, err)
	require.Equal(t, 2, result.Success)
	require.Equal(t, 3, result.Failed)
	require.Len(t, result.Errors, 3)
	require.Contains(t, result.Errors[0], "row 3")
	require.Contains(t, result.Errors[0], "quantity")
	require.Contains(t, result.Errors[1], "row 4")
	require.Contains(t, result.Errors[2], "row 5")

	// existing products are left alone, unknown ones are created
	product, err := store.Products.Get(ctx, "TEL-4567")
	require.NoError(t, err)
	require.Equal(t, 50, product.OptimalStock)
	created, err := store.Products.Get(ctx, "TEL-9999")
	require.NoError(t, err)
	require.Equal(t, "New Cable", created.Name)
	require.Equal(t, models.UnknownCategory, created.Category)
	require.Equal(t, models.DefaultOptimalStock, created.OptimalStock)

	page, err := svc.History(ctx, models.HistoryFilters{})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)

	byID := map[string]models.HistoryItem{}
	for _, item := range page.Items {
		byID[item.SKU] = item
	}
	require.Equal(t, models.HistoryItem{
		ID: byID["TEL-4567"].ID, Date: "2024-01-15T10:00:00Z", RobotID: "RB-001", Zone: "A-12", SKU: "TEL-4567",
		Product: "Router RT-AC68U", Expected: 50, Actual: 45, Difference: -5, Status: models.ScanOK,
	}, byID["TEL-4567"])
	require.Equal(t, models.ManualRobotID, byID["TEL-9999"].RobotID)
	require.Equal(t, "B-0", byID["TEL-9999"].Zone)
	require.Equal(t, models.ScanLowStock, byID["TEL-9999"].Status)
}

func TestImportXLSX(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	wb := excelize.NewFile()
	rows := [][]interface{}{
		{"product_id", "product_name", "quantity", "zone", "date"},
		{"TEL-8901", "Switch", 3, "D", "2024-01-20T08:30:00Z"},
		{"TEL-2345", "Modem", 25, "D", "2024-01-20T08:31:00Z"},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, wb.SetCellValue("Sheet1", cell, v))
		}
	}
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)

	var mu sync.Mutex
	var imported []int
	svc.OnImported("test", func(result *models.ImportResult) {
		mu.Lock()
		imported = append(imported, result.Success)
		mu.Unlock()
	})

	result, err := svc.Import(ctx, "Stock.XLSX", buf)
	require.NoError(t, err)
	require.Equal(t, 2, result.Success)
	require.Zero(t, result.Failed)
	require.Empty(t, result.Errors)

	page, err := svc.History(ctx, models.HistoryFilters{Status: "CRITICAL"})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	require.Equal(t, "TEL-8901", page.Items[0].SKU)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(imported) == 1 && imported[0] == 2
	}, time.Second, 5*time.Millisecond)
}

func TestImportRejectsBadFiles(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Import(ctx, "inventory.json", strings.NewReader("{}"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = svc.Import(ctx, "inventory.csv", strings.NewReader(""))
	require.ErrorIs(t, err, ErrMalformedFile)

	_, err = svc.Import(ctx, "inventory.csv", strings.NewReader("product_id;quantity\nTEL-1;5\n"))
	require.ErrorIs(t, err, ErrMalformedFile)
	require.Contains(t, err.Error(), "product_name")

	_, err = svc.Import(ctx, "inventory.xlsx", strings.NewReader("not a zip"))
	require.ErrorIs(t, err, ErrMalformedFile)
}

func TestParseFilters(t *testing.T) {
	q, err := ParseFilters(models.HistoryFilters{Page: 2, Limit: 10, Zone: "A", Status: "OK", FromDate: "2024-01-01", ToDate: "2024-01-31T23:59:59"})
	require.NoError(t, err)
	require.Equal(t, 20, q.Offset)
	require.Equal(t, 10, q.Limit)
	require.Equal(t, "A", q.Zone)
	require.Equal(t, models.ScanOK, q.Status)
	require.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Equal(*q.From))

	q, err = ParseFilters(models.HistoryFilters{})
	require.NoError(t, err)
	require.Equal(t, DefaultPageLimit, q.Limit)

	q, err = ParseFilters(models.HistoryFilters{Limit: 5000})
	require.NoError(t, err)
	require.Equal(t, MaxPageLimit, q.Limit)

	for _, f := range []models.HistoryFilters{
		{Page: -1},
		{Limit: -5},
		{FromDate: "soon"},
		{ToDate: "later"},
		{Status: "FULL"},
		{FromDate: "2024-02-01", ToDate: "2024-01-01"},
	} {
		_, err := ParseFilters(f)
		require.ErrorIs(t, err, ErrInvalidFilter, "%+v", f)
	}
}

func TestHistoryPagination(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	var b strings.Builder
	b.WriteString("product_id;product_name;quantity;zone;date\n")
	for i := 0; i < 45; i++ {
		b.WriteString("TEL-1;Thing;30;A;2024-01-")
		b.WriteString(time.Date(2024, 1, 1+i%28, 0, 0, 0, 0, time.UTC).Format("02"))
		b.WriteString("\n")
	}
	_, err := svc.Import(ctx, "bulk.csv", strings.NewReader(b.String()))
	require.NoError(t, err)

	page, err := svc.History(ctx, models.HistoryFilters{Page: 2})
	require.NoError(t, err)
	require.EqualValues(t, 45, page.Total)
	require.Len(t, page.Items, 5)
	require.Equal(t, models.Pagination{Page: 2, Limit: 20, TotalPages: 3}, page.Pagination)
}

func TestExportWorkbook(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.Import(ctx, "inventory.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)

	buf, err := svc.Export(ctx, models.HistoryFilters{})
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	rows, err := wb.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, exportHeadings, rows[0])
}
