package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
)

// fakeStorage записывает вызовы загрузчика и умеет отказывать на заданном
// по счёту чанке.
type fakeStorage struct {
	calls      []string
	chunkSizes []int

	failDelete   bool
	failAtInsert int // 1-based; 0 — не отказывать
	inserts      int
}

func (f *fakeStorage) DeleteAll(_ context.Context, table string) (int64, error) {
	f.calls = append(f.calls, "delete:"+table)
	if f.failDelete {
		return 0, &WriteError{Table: table, Err: errors.New("disk full")}
	}
	return 3, nil
}

func (f *fakeStorage) InsertBatch(_ context.Context, table string, rows []map[string]any) error {
	f.inserts++
	f.calls = append(f.calls, "insert:"+table)
	f.chunkSizes = append(f.chunkSizes, len(rows))
	if f.failAtInsert > 0 && f.inserts == f.failAtInsert {
		return &WriteError{Table: table, Err: errors.New("constraint violation")}
	}
	return nil
}

func (f *fakeStorage) Query(_ context.Context, _ string, _ map[string]any) ([]map[string]any, error) {
	return nil, nil
}

func fakeRows(n int) []map[string]any {
	gofakeit.Seed(0)
	rows := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, map[string]any{
			"id":      fmt.Sprintf("id-%d", i),
			"product": gofakeit.ProductName(),
			"weight":  gofakeit.Number(1, 1000),
		})
	}
	return rows
}

func TestReplaceDeletesBeforeInsert(t *testing.T) {
	storage := &fakeStorage{}
	loader := NewBatchLoader(storage, 10, nil)

	inserted, err := loader.Replace(context.Background(), "product_guide", fakeRows(4))
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if inserted != 4 {
		t.Errorf("inserted = %d, want 4", inserted)
	}
	if len(storage.calls) != 2 || storage.calls[0] != "delete:product_guide" || storage.calls[1] != "insert:product_guide" {
		t.Errorf("calls = %v, want delete then insert", storage.calls)
	}
}

func TestReplaceChunksRows(t *testing.T) {
	storage := &fakeStorage{}
	loader := NewBatchLoader(storage, 3, nil)

	inserted, err := loader.Replace(context.Background(), "remains", fakeRows(7))
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if inserted != 7 {
		t.Errorf("inserted = %d, want 7", inserted)
	}
	want := []int{3, 3, 1}
	if len(storage.chunkSizes) != len(want) {
		t.Fatalf("chunk sizes = %v, want %v", storage.chunkSizes, want)
	}
	for i, size := range want {
		if storage.chunkSizes[i] != size {
			t.Errorf("chunk %d size = %d, want %d", i, storage.chunkSizes[i], size)
		}
	}
}

func TestReplaceStopsAfterFailedChunk(t *testing.T) {
	storage := &fakeStorage{failAtInsert: 2}
	loader := NewBatchLoader(storage, 3, nil)

	inserted, err := loader.Replace(context.Background(), "remains", fakeRows(9))

	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("Replace() error = %v, want WriteError", err)
	}
	if writeErr.Table != "remains" {
		t.Errorf("WriteError.Table = %q, want remains", writeErr.Table)
	}
	// Первый чанк закоммичен, второй отказал, третий не выполнялся.
	if inserted != 3 {
		t.Errorf("inserted = %d, want 3", inserted)
	}
	if storage.inserts != 2 {
		t.Errorf("insert calls = %d, want 2 (remaining chunks skipped)", storage.inserts)
	}
}

func TestReplaceDeleteFailure(t *testing.T) {
	storage := &fakeStorage{failDelete: true}
	loader := NewBatchLoader(storage, 3, nil)

	inserted, err := loader.Replace(context.Background(), "payment", fakeRows(2))
	if err == nil {
		t.Fatal("Replace() error = nil, want WriteError")
	}
	if inserted != 0 {
		t.Errorf("inserted = %d, want 0", inserted)
	}
	if storage.inserts != 0 {
		t.Errorf("insert calls = %d, want 0 after failed delete", storage.inserts)
	}
}

func TestReplaceEmptyRows(t *testing.T) {
	storage := &fakeStorage{}
	loader := NewBatchLoader(storage, 3, nil)

	inserted, err := loader.Replace(context.Background(), "moved_data", nil)
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if inserted != 0 {
		t.Errorf("inserted = %d, want 0", inserted)
	}
	// Таблица всё равно очищается: пустая выгрузка замещает прежние данные.
	if len(storage.calls) != 1 || storage.calls[0] != "delete:moved_data" {
		t.Errorf("calls = %v, want single delete", storage.calls)
	}
}

func TestNewBatchLoaderDefaultChunkSize(t *testing.T) {
	storage := &fakeStorage{}
	loader := NewBatchLoader(storage, 0, nil)
	if loader.chunkSize != DefaultChunkSize {
		t.Errorf("chunkSize = %d, want %d", loader.chunkSize, DefaultChunkSize)
	}
}
