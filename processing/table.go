package processing

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// RawTable представляет лист Excel после извлечения: строка заголовков
// и строки данных под ней. Таблица потребляется ровно одним нормализатором
// и после этого не переиспользуется.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Width возвращает количество колонок таблицы (по строке заголовков).
func (t RawTable) Width() int {
	return len(t.Header)
}

// prepare выполняет общий для всех документов структурный этап:
// отбрасывает служебные строки сверху, итоговую строку снизу (если источник
// её дописывает), удаляет пустые колонки по позициям и проверяет, что
// оставшееся количество колонок точно совпадает с канонным списком имён.
// Возвращаемые строки выровнены по канонному порядку колонок.
func prepare(t RawTable, doc string, skipRows int, dropTail bool, dropCols []int, want int) ([][]string, error) {
	dropped := make(map[int]bool, len(dropCols))
	for _, c := range dropCols {
		dropped[c] = true
	}

	width := t.Width() - len(dropCols)
	if width != want {
		return nil, &SchemaMismatchError{Document: doc, Expected: want, Actual: width}
	}

	rows := t.Rows
	if skipRows > len(rows) {
		skipRows = len(rows)
	}
	rows = rows[skipRows:]
	if dropTail && len(rows) > 0 {
		rows = rows[:len(rows)-1]
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		projected := make([]string, 0, want)
		for col := 0; col < t.Width(); col++ {
			if dropped[col] {
				continue
			}
			if col < len(row) {
				projected = append(projected, row[col])
			} else {
				// excelize обрезает пустые ячейки в конце строки
				projected = append(projected, "")
			}
		}
		out = append(out, projected)
	}
	return out, nil
}

// toFloat приводит значение ячейки к числу. Нечитаемые и пустые значения
// превращаются в 0 — битые ячейки в выгрузках встречаются постоянно и не
// должны останавливать загрузку.
func toFloat(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0
	}
	// Локальные форматы: запятая как десятичный разделитель,
	// пробелы и неразрывные пробелы как разделители тысяч.
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// numericText приводит ячейку к числу и возвращает его строковое
// представление. Используется для колонок, которые источник заполняет
// числами, но схема хранит как текст (weight, quantity_per_pallet).
func numericText(cell string) string {
	return strconv.FormatFloat(toFloat(cell), 'f', -1, 64)
}

// trimRight срезает хвостовые пробельные символы (аналог rstrip).
func trimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// productKey собирает описатель продукта: три подполя с отрезанными
// хвостовыми пробелами, соединённые одиночными пробелами. Это ключ
// соединения со справочником продуктов.
func productKey(nomenclature, partySign, buyingSeason string) string {
	return trimRight(nomenclature) + " " + trimRight(partySign) + " " + trimRight(buyingSeason)
}

// sliceRunes возвращает подстроку [from:to) в символах, а не в байтах.
// Выгрузки содержат кириллицу, поэтому срез по байтам исказил бы код.
func sliceRunes(s string, from, to int) string {
	r := []rune(s)
	if from >= len(r) {
		return ""
	}
	if to > len(r) {
		to = len(r)
	}
	return string(r[from:to])
}

// isEmptyRow проверяет, что все ячейки строки пустые.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseDate разбирает дату из ячейки Excel. Значение может прийти как
// серийный номер Excel или как отформатированная строка. При неудаче
// возвращается нулевое время.
func parseDate(cell string) time.Time {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}
	}

	if num, err := strconv.ParseFloat(s, 64); err == nil {
		// Серийная дата Excel: дни от 1900-01-01 (с учётом известного сдвига)
		excelEpoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
		return excelEpoch.AddDate(0, 0, int(num))
	}

	formats := []string{
		"2006-01-02",
		"02.01.2006",
		"02/01/2006",
		"2006/01/02",
		"01-02-06",
		"2006-01-02 15:04:05",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
