package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesSchema(t *testing.T) {
	db := openTestDB(t)

	// Все таблицы схемы существуют и пусты.
	for _, table := range []string{"product_guide", "available_stock", "remains", "submissions", "payment", "moved_data"} {
		records, err := db.Query(context.Background(), table, nil)
		require.NoError(t, err, "table %s", table)
		require.Empty(t, records, "table %s", table)
	}
}

func TestInsertBatchAndQuery(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	rows := []map[string]any{
		{"id": "1", "product": "Насіння П1 2025", "line_of_business": "Насіння", "active_substance": "-"},
		{"id": "2", "product": "Гербіцид П2 2025", "line_of_business": "ЗЗР", "active_substance": "гліфосат"},
	}
	require.NoError(t, db.InsertBatch(ctx, "product_guide", rows))

	records, err := db.Query(ctx, "product_guide", map[string]any{"product": "Гербіцид П2 2025"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "2", records[0]["id"])
	require.Equal(t, "гліфосат", records[0]["active_substance"])

	all, err := db.Query(ctx, "product_guide", nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestDeleteAll(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	rows := []map[string]any{
		{"id": "1", "product": "А", "line_of_business": "", "active_substance": ""},
		{"id": "2", "product": "Б", "line_of_business": "", "active_substance": ""},
	}
	require.NoError(t, db.InsertBatch(ctx, "product_guide", rows))

	removed, err := db.DeleteAll(ctx, "product_guide")
	require.NoError(t, err)
	require.EqualValues(t, 2, removed)

	records, err := db.Query(ctx, "product_guide", nil)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestInsertBatchQuotedKeywordColumn(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	// Колонка "order" в журнале перемещений совпадает с ключевым словом SQL.
	rows := []map[string]any{
		{
			"id": "1", "order": "З-001", "date": "2025-03-15",
			"line_of_business": "Насіння", "product": "Насіння кукурудзи",
			"qt_order": "100", "qt_moved": "80.5",
			"party_sign": "П1", "period": "березень", "contract": "Д-1",
		},
	}
	require.NoError(t, db.InsertBatch(ctx, "moved_data", rows))

	records, err := db.Query(ctx, "moved_data", map[string]any{"order": "З-001"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "80.5", records[0]["qt_moved"])
}

func TestInsertBatchUnknownTable(t *testing.T) {
	db := openTestDB(t)

	err := db.InsertBatch(context.Background(), "no_such_table", []map[string]any{{"id": "1"}})

	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
	require.Equal(t, "no_such_table", writeErr.Table)
}

func TestInsertBatchEmptyRows(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.InsertBatch(context.Background(), "payment", nil))
}

func TestDeleteAllUnknownTable(t *testing.T) {
	db := openTestDB(t)

	_, err := db.DeleteAll(context.Background(), "no_such_table")

	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
}

func TestOpenIdempotentSchema(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/agribot.db"

	db1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db1.InsertBatch(context.Background(), "product_guide", []map[string]any{
		{"id": "1", "product": "А", "line_of_business": "", "active_substance": ""},
	}))
	require.NoError(t, db1.Close())

	// Повторное открытие не пересоздаёт таблицы и не трогает данные.
	db2, err := Open(path)
	require.NoError(t, err)
	defer db2.Close()

	records, err := db2.Query(context.Background(), "product_guide", nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
}
