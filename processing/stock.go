package processing

// Stock — строка выгрузки "Доступность товара подразделения".
type Stock struct {
	Nomenclature    string
	PartySign       string
	BuyingSeason    string
	Division        string
	LineOfBusiness  string
	ActiveSubstance string
	Available       float64
	Product         string
}

// Descriptor возвращает описатель продукта для соединения со справочником.
func (s Stock) Descriptor() string {
	return trimRight(s.Product)
}

// Канонный порядок колонок файла доступности после удаления пустых.
var stockColumns = []string{
	"nomenclature", "party_sign", "buying_season", "division",
	"line_of_business", "active_substance", "available",
}

const (
	stockSkipRows = 7
	stockDoc      = "stock"
)

// Пустые колонки в исходной выгрузке (позиции в сыром листе).
var stockDropCols = []int{1, 2, 4}

// NormalizeStock превращает сырой лист доступности в типизированные записи.
func NormalizeStock(t RawTable) ([]Stock, error) {
	rows, err := prepare(t, stockDoc, stockSkipRows, true, stockDropCols, len(stockColumns))
	if err != nil {
		return nil, err
	}

	out := make([]Stock, 0, len(rows))
	for _, row := range rows {
		s := Stock{
			Nomenclature:    row[0],
			PartySign:       row[1],
			BuyingSeason:    row[2],
			Division:        row[3],
			LineOfBusiness:  row[4],
			ActiveSubstance: row[5],
			Available:       toFloat(row[6]),
		}
		s.Product = productKey(s.Nomenclature, s.PartySign, s.BuyingSeason)
		out = append(out, s)
	}
	return out, nil
}
