package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"agribot/notify"
	"agribot/pipeline"
)

// ErrRunInProgress возвращается, когда запуск загрузки уже выполняется.
var ErrRunInProgress = errors.New("ETL run already in progress")

// Runner — исполнитель одного пакетного прогона.
type Runner interface {
	Run(ctx context.Context, files pipeline.Files) (*pipeline.Summary, error)
}

// ETLService владеет однослотовой блокировкой запусков: delete-all и
// вставка чанками не изолированы, поэтому два одновременных прогона
// могут переплести удаления и вставки разных таблиц и разорвать
// перекрёстные ссылки.
type ETLService struct {
	runner   Runner
	notifier notify.Notifier
	timeout  time.Duration
	logger   *slog.Logger

	mu sync.Mutex
}

// NewETLService создаёт сервис запуска загрузок.
func NewETLService(runner Runner, notifier notify.Notifier, timeout time.Duration, logger *slog.Logger) *ETLService {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 15 * time.Minute
	}
	return &ETLService{
		runner:   runner,
		notifier: notifier,
		timeout:  timeout,
		logger:   logger,
	}
}

// StartRun запускает прогон в фоне. Если другой прогон ещё идёт,
// возвращается ErrRunInProgress, и файлы не обрабатываются.
func (s *ETLService) StartRun(files pipeline.Files) error {
	if !s.mu.TryLock() {
		return ErrRunInProgress
	}

	go func() {
		defer s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		s.execute(ctx, files)
	}()
	return nil
}

// RunSync выполняет прогон синхронно (для консольного загрузчика).
func (s *ETLService) RunSync(ctx context.Context, files pipeline.Files) (*pipeline.Summary, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()

	return s.execute(ctx, files)
}

func (s *ETLService) execute(ctx context.Context, files pipeline.Files) (*pipeline.Summary, error) {
	summary, err := s.runner.Run(ctx, files)
	if err != nil {
		s.logger.Error("ETL run failed", "error", err)
	}
	if summary == nil {
		return nil, err
	}

	for _, doc := range summary.Failed() {
		s.logger.Error("document failed", "document", doc, "error", summary.Documents[doc].Err)
	}

	if s.notifier != nil {
		if nerr := s.notifier.Notify(ctx, summary.Message()); nerr != nil {
			s.logger.Error("notification failed", "error", nerr)
		}
	}
	return summary, err
}
