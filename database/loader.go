package database

import (
	"context"
	"log/slog"
)

// DefaultChunkSize — размер чанка вставки по умолчанию.
const DefaultChunkSize = 1000

// BatchLoader полностью замещает содержимое таблиц: сначала delete-all,
// затем вставка чанками фиксированного размера с сохранением порядка.
// Это не upsert и не транзакция на всю таблицу: параллельный читатель может
// увидеть пустую таблицу в середине загрузки, а отказ между чанками
// оставляет таблицу заполненной частично.
type BatchLoader struct {
	storage   Storage
	chunkSize int
	logger    *slog.Logger
}

// NewBatchLoader создаёт загрузчик. Неположительный размер чанка заменяется
// значением по умолчанию.
func NewBatchLoader(storage Storage, chunkSize int, logger *slog.Logger) *BatchLoader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchLoader{storage: storage, chunkSize: chunkSize, logger: logger}
}

// Replace замещает содержимое таблицы переданными записями и возвращает
// количество вставленных. При отказе посреди последовательности чанков уже
// закоммиченные чанки остаются в таблице, и их количество тоже возвращается.
func (l *BatchLoader) Replace(ctx context.Context, table string, rows []map[string]any) (int, error) {
	removed, err := l.storage.DeleteAll(ctx, table)
	if err != nil {
		return 0, err
	}
	l.logger.Info("table cleared", "table", table, "removed", removed)

	inserted := 0
	totalChunks := (len(rows) + l.chunkSize - 1) / l.chunkSize
	for i := 0; i < len(rows); i += l.chunkSize {
		end := i + l.chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[i:end]
		if err := l.storage.InsertBatch(ctx, table, chunk); err != nil {
			return inserted, err
		}
		inserted += len(chunk)
		l.logger.Info("chunk inserted",
			"table", table,
			"chunk", i/l.chunkSize+1,
			"chunks", totalChunks,
			"records", len(chunk),
		)
	}

	l.logger.Info("table loaded", "table", table, "records", inserted)
	return inserted, nil
}
