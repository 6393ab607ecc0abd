package extractors

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"agribot/processing"
)

// ErrUnreadableWorkbook возвращается, когда байты не являются корректной
// книгой Excel или запрошенный лист в ней отсутствует.
var ErrUnreadableWorkbook = errors.New("unreadable workbook")

// ReadWorkbook читает книгу из байтов и возвращает таблицу первого листа.
func ReadWorkbook(content []byte) (processing.RawTable, error) {
	f, err := openWorkbook(content)
	if err != nil {
		return processing.RawTable{}, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return processing.RawTable{}, fmt.Errorf("%w: no sheets in workbook", ErrUnreadableWorkbook)
	}
	return readTable(f, sheet)
}

// ReadWorkbookSheet читает книгу из байтов и возвращает таблицу листа
// с заданным именем.
func ReadWorkbookSheet(content []byte, sheet string) (processing.RawTable, error) {
	f, err := openWorkbook(content)
	if err != nil {
		return processing.RawTable{}, err
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return processing.RawTable{}, fmt.Errorf("%w: sheet %q not found", ErrUnreadableWorkbook, sheet)
	}
	return readTable(f, sheet)
}

// ReadWorkbookSheetIndex читает книгу из байтов и возвращает таблицу листа
// по его позиции в книге.
func ReadWorkbookSheetIndex(content []byte, index int) (processing.RawTable, error) {
	f, err := openWorkbook(content)
	if err != nil {
		return processing.RawTable{}, err
	}
	defer f.Close()

	sheet := f.GetSheetName(index)
	if sheet == "" {
		return processing.RawTable{}, fmt.Errorf("%w: sheet #%d not found", ErrUnreadableWorkbook, index)
	}
	return readTable(f, sheet)
}

func openWorkbook(content []byte) (*excelize.File, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	return f, nil
}

// readTable забирает все строки листа: первая строка становится заголовком,
// остальные — данными. excelize обрезает пустые ячейки в конце строк,
// поэтому заголовок выравнивается по самой широкой строке листа.
func readTable(f *excelize.File, sheet string) (processing.RawTable, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return processing.RawTable{}, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	if len(rows) == 0 {
		return processing.RawTable{}, nil
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	header := make([]string, width)
	copy(header, rows[0])

	return processing.RawTable{Header: header, Rows: rows[1:]}, nil
}
