package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"agribot/catalog"
	"agribot/database"
	"agribot/extractors"
	"agribot/metrics"
	"agribot/processing"
)

// Имена документов в итоговой сводке и имена целевых таблиц.
const (
	DocStock       = "stock"
	DocRemains     = "remains"
	DocSubmissions = "submissions"
	DocPayments    = "payments"
	DocMovements   = "movement-log"

	tableProductGuide = "product_guide"
	tableStock        = "available_stock"
	tableRemains      = "remains"
	tableSubmissions  = "submissions"
	tablePayment      = "payment"
	tableMovedData    = "moved_data"
)

// documentOrder — порядок документов в сводке.
var documentOrder = []string{DocStock, DocRemains, DocSubmissions, DocPayments, DocMovements}

// Files — пять загруженных выгрузок одного запуска.
type Files struct {
	Stock       []byte
	Remains     []byte
	Submissions []byte
	Payments    []byte
	Movements   []byte
}

// DocumentResult — итог обработки одного документа. Ошибка одного документа
// не прерывает обработку остальных.
type DocumentResult struct {
	Document   string
	Normalized int
	Linked     int
	Unmatched  []string
	Loaded     int
	Err        error
}

// Ok сообщает, что документ обработан и загружен без ошибок.
func (r *DocumentResult) Ok() bool {
	return r.Err == nil
}

// Summary — сводка одного запуска по всем пяти документам.
type Summary struct {
	Documents     map[string]*DocumentResult
	CatalogSize   int
	CatalogLoaded int
	CatalogErr    error
	Started       time.Time
	Finished      time.Time
}

// Ok сообщает, что все документы и справочник загружены без ошибок.
func (s *Summary) Ok() bool {
	if s.CatalogErr != nil {
		return false
	}
	for _, r := range s.Documents {
		if !r.Ok() {
			return false
		}
	}
	return true
}

// Failed возвращает имена документов, завершившихся ошибкой.
func (s *Summary) Failed() []string {
	var failed []string
	for _, doc := range documentOrder {
		if r, ok := s.Documents[doc]; ok && !r.Ok() {
			failed = append(failed, doc)
		}
	}
	return failed
}

// Message формирует текст уведомления об итоге запуска.
func (s *Summary) Message() string {
	if s.Ok() {
		return fmt.Sprintf("Дані в боті оновлені.\nІ вони актуальні станом на… %s",
			s.Finished.Format("02-01-2006 15:04:05"))
	}
	if s.CatalogErr != nil {
		return fmt.Sprintf("Оновлення даних не виконано: довідник продуктів не завантажено (%v)", s.CatalogErr)
	}
	return fmt.Sprintf("Оновлення даних виконано частково. Помилки: %s", strings.Join(s.Failed(), ", "))
}

// Pipeline выполняет один пакетный прогон: извлечение, нормализацию,
// сборку справочника, линковку и полное замещение таблиц. Прогон линейный;
// взаимное исключение запусков обеспечивает вызывающая сторона.
type Pipeline struct {
	loader  *database.BatchLoader
	filter  processing.RemainsFilter
	logger  *slog.Logger
	metrics *metrics.Registry
}

// Options — настройки пайплайна.
type Options struct {
	ChunkSize int
	Filter    processing.RemainsFilter
	Logger    *slog.Logger
	Metrics   *metrics.Registry
}

// New создаёт пайплайн поверх переданного хранилища.
func New(storage database.Storage, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		loader:  database.NewBatchLoader(storage, opts.ChunkSize, logger),
		filter:  opts.Filter,
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// Run обрабатывает пять выгрузок одного запуска. Ошибки отдельных документов
// собираются в сводке; ошибкой вызова является только отказ загрузки
// справочника, без которого связанные таблицы теряют смысл.
func (p *Pipeline) Run(ctx context.Context, files Files) (*Summary, error) {
	summary := &Summary{
		Documents: make(map[string]*DocumentResult, len(documentOrder)),
		Started:   time.Now(),
	}
	for _, doc := range documentOrder {
		summary.Documents[doc] = &DocumentResult{Document: doc}
	}
	defer func() {
		summary.Finished = time.Now()
		if p.metrics != nil {
			p.metrics.RunDuration.Observe(summary.Finished.Sub(summary.Started).Seconds())
			status := "success"
			if !summary.Ok() {
				status = "failure"
			}
			p.metrics.RunsTotal.WithLabelValues(status).Inc()
		}
	}()

	// Этап 1: извлечение и нормализация каждого документа независимо.
	stock := normalizeDocument(summary.Documents[DocStock], files.Stock, "", processing.NormalizeStock)
	remains := normalizeDocument(summary.Documents[DocRemains], files.Remains, "", func(t processing.RawTable) ([]processing.Remains, error) {
		return processing.NormalizeRemains(t, p.filter)
	})
	submissions := normalizeDocument(summary.Documents[DocSubmissions], files.Submissions, "", processing.NormalizeSubmissions)
	payments := normalizeDocument(summary.Documents[DocPayments], files.Payments, "", processing.NormalizePayments)
	movements := normalizeDocument(summary.Documents[DocMovements], files.Movements, processing.MovementSheet, processing.NormalizeMovements)

	for _, doc := range documentOrder {
		r := summary.Documents[doc]
		if r.Err != nil {
			p.logger.Error("document normalization failed", "document", doc, "error", r.Err)
		} else {
			p.logger.Info("document normalized", "document", doc, "records", r.Normalized)
		}
	}

	// Этап 2: справочник продуктов собирается только из успешно
	// нормализованных источников и пересоздаётся целиком.
	cat := catalog.Build(stock, submissions, remains)
	summary.CatalogSize = cat.Len()

	loaded, err := p.loader.Replace(ctx, tableProductGuide, catalogRows(cat))
	summary.CatalogLoaded = loaded
	if err != nil {
		summary.CatalogErr = err
		return summary, fmt.Errorf("product guide load failed: %w", err)
	}
	if p.metrics != nil {
		p.metrics.RowsLoaded.WithLabelValues(tableProductGuide).Add(float64(loaded))
	}

	// Этап 3: линковка и загрузка связанных таблиц, затем таблиц без
	// продуктового ключа. Порядок таблиц повторяет порядок исходного
	// загрузчика.
	loadLinked(ctx, p, summary.Documents[DocRemains], tableRemains, cat, remains, remainsRows)
	loadLinked(ctx, p, summary.Documents[DocStock], tableStock, cat, stock, stockRows)
	loadLinked(ctx, p, summary.Documents[DocSubmissions], tableSubmissions, cat, submissions, submissionRows)
	loadPlain(ctx, p, summary.Documents[DocPayments], tablePayment, paymentRows(payments))
	loadPlain(ctx, p, summary.Documents[DocMovements], tableMovedData, movementRows(movements))

	return summary, nil
}

// normalizeDocument извлекает таблицу из байтов (с выбором листа, если он
// задан) и нормализует её. Ошибка записывается в результат документа и
// возвращает пустой набор, чтобы остальные документы обрабатывались дальше.
func normalizeDocument[T any](result *DocumentResult, content []byte, sheet string, normalize func(processing.RawTable) ([]T, error)) []T {
	var (
		table processing.RawTable
		err   error
	)
	if sheet == "" {
		table, err = extractors.ReadWorkbook(content)
	} else {
		table, err = extractors.ReadWorkbookSheet(content, sheet)
	}
	if err != nil {
		result.Err = err
		return nil
	}

	records, err := normalize(table)
	if err != nil {
		result.Err = err
		return nil
	}
	result.Normalized = len(records)
	return records
}

// loadLinked связывает записи документа со справочником и замещает целевую
// таблицу. Несвязанные описатели фиксируются в сводке и метриках.
func loadLinked[T catalog.ProductRecord](ctx context.Context, p *Pipeline, result *DocumentResult, table string, cat *catalog.Catalog, records []T, toRows func([]catalog.Linked[T]) []map[string]any) {
	if result.Err != nil {
		return
	}

	linked, unmatched := catalog.Link(cat, records)
	result.Linked = len(linked)
	result.Unmatched = unmatched
	if len(unmatched) > 0 {
		p.logger.Warn("descriptors without catalog match dropped",
			"document", result.Document,
			"descriptors", len(unmatched),
			"records", len(records)-len(linked),
		)
	}
	if p.metrics != nil {
		p.metrics.UnmatchedDescriptors.WithLabelValues(result.Document).Add(float64(len(records) - len(linked)))
	}

	loadPlain(ctx, p, result, table, toRows(linked))
}

// loadPlain замещает содержимое целевой таблицы записями документа.
func loadPlain(ctx context.Context, p *Pipeline, result *DocumentResult, table string, rows []map[string]any) {
	if result.Err != nil {
		return
	}

	loaded, err := p.loader.Replace(ctx, table, rows)
	result.Loaded = loaded
	if err != nil {
		result.Err = err
		return
	}
	if p.metrics != nil {
		p.metrics.RowsLoaded.WithLabelValues(table).Add(float64(loaded))
	}
}
