package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fabworks-backend/internal/db"
	"fabworks-backend/internal/model"
	"fabworks-backend/internal/upload"
)

// newTestStore opens an isolated in-memory database, migrated and seeded with
// the order counter.
func newTestStore(t *testing.T) Store {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Migrate(gdb))
	require.NoError(t, gdb.Create(&model.Counter{Name: model.CounterOrders, Value: 0}).Error)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return NewGormStore(gdb)
}

func seedPrintService(t *testing.T, s Store) *model.Service {
	t.Helper()
	svc := &model.Service{
		Name:     "FDM Printing",
		Category: model.Category3DPrinting,
		Material: "PLA+",
		Price:    12.50,
		Unit:     "per part",
		Active:   true,
	}
	require.NoError(t, s.CreateService(context.Background(), svc))
	return svc
}

func sampleFiles(n int) []upload.StoredFile {
	files := make([]upload.StoredFile, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, upload.StoredFile{
			Filename:     "files-100-" + string(rune('a'+i)) + ".stl",
			OriginalName: "bracket-" + string(rune('a'+i)) + ".stl",
			Path:         "uploads/files-100-" + string(rune('a'+i)) + ".stl",
			Size:         2048,
			MimeType:     "model/stl",
		})
	}
	return files
}

func seedQuotation(t *testing.T, s Store, name string) *model.Quotation {
	t.Helper()
	q, err := s.CreateQuotation(context.Background(), CreateQuotationParams{
		CustomerName:  name,
		CustomerEmail: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		ServiceType:   model.Category3DPrinting,
		Material:      "PLA+",
		Quantity:      2,
	}, sampleFiles(1))
	require.NoError(t, err)
	return q
}
