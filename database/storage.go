package database

import (
	"context"
	"fmt"
)

// Storage — абстракция хранилища, которую потребляют загрузчик и
// обработчики запросов. Движок хранения за ней может быть любым.
type Storage interface {
	// DeleteAll удаляет все записи таблицы и возвращает их количество.
	DeleteAll(ctx context.Context, table string) (int64, error)

	// InsertBatch вставляет пачку записей в таблицу, сохраняя порядок.
	InsertBatch(ctx context.Context, table string, rows []map[string]any) error

	// Query возвращает записи таблицы, совпадающие по всем парам
	// колонка=значение предиката.
	Query(ctx context.Context, table string, where map[string]any) ([]map[string]any, error)
}

// WriteError сигнализирует об отказе хранилища при удалении или вставке.
// Оставшиеся чанки загрузки таблицы после него не выполняются; уже
// закоммиченные чанки остаются — для низкочастотной пакетной загрузки
// это принятая неконсистентность.
type WriteError struct {
	Table string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write to %s failed: %v", e.Table, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
