package processing

import (
	"strings"
	"time"
)

// MovementEntry — строка журнала "Заказано/Перемещено". Журнал не содержит
// служебной шапки и итоговой строки и не связывается со справочником
// продуктов.
type MovementEntry struct {
	Order          string
	Date           time.Time
	LineOfBusiness string
	Product        string
	QtOrder        float64
	QtMoved        float64
	PartySign      string
	Period         string
	Contract       string
}

var movementColumns = []string{
	"order", "date", "line_of_business", "product", "qt_order",
	"qt_moved", "party_sign", "period", "contract",
}

// MovementSheet — имя листа с данными в книге журнала перемещений.
const MovementSheet = "Данные"

const movementDoc = "movement-log"

// NormalizeMovements превращает сырой журнал перемещений в типизированные
// записи. Полностью пустые строки пропускаются.
func NormalizeMovements(t RawTable) ([]MovementEntry, error) {
	rows, err := prepare(t, movementDoc, 0, false, nil, len(movementColumns))
	if err != nil {
		return nil, err
	}

	out := make([]MovementEntry, 0, len(rows))
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		out = append(out, MovementEntry{
			Order:          strings.TrimSpace(row[0]),
			Date:           parseDate(row[1]),
			LineOfBusiness: strings.TrimSpace(row[2]),
			Product:        strings.TrimSpace(row[3]),
			QtOrder:        toFloat(row[4]),
			QtMoved:        toFloat(row[5]),
			PartySign:      strings.TrimSpace(row[6]),
			Period:         strings.TrimSpace(row[7]),
			Contract:       strings.TrimSpace(row[8]),
		})
	}
	return out, nil
}
