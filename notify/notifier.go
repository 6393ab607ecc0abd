package notify

import (
	"context"
	"log/slog"
)

// Notifier получает итоговое сообщение о завершении загрузки. Доставка
// (Telegram и т.п.) живёт за пределами этого репозитория; здесь только шов
// и реализация, пишущая в журнал.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// LogNotifier пишет уведомления в структурированный журнал.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier создаёт уведомитель поверх журнала.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify пишет сообщение в журнал.
func (n *LogNotifier) Notify(_ context.Context, message string) error {
	n.logger.Info("notification", "message", message)
	return nil
}
