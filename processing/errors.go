package processing

import "fmt"

// SchemaMismatchError сигнализирует о структурном изменении формата выгрузки:
// после отбрасывания служебных колонок их количество не совпало с канонным
// списком имён. Ошибка фатальна для этого документа, но не для остальных
// документов того же запуска.
type SchemaMismatchError struct {
	Document string
	Expected int
	Actual   int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch in %s: expected %d columns, got %d", e.Document, e.Expected, e.Actual)
}
