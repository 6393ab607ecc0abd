package processing

// Remains — строка выгрузки остатков по складам.
type Remains struct {
	LineOfBusiness       string
	Warehouse            string
	ParentElement        string
	Nomenclature         string
	PartySign            string
	BuyingSeason         string
	NomenclatureSeries   string
	MTN                  string
	OriginCountry        string
	Germination          string
	CropYear             string
	QuantityPerPallet    string
	ActiveSubstance      string
	Certificate          string
	CertificateStartDate string
	CertificateEndDate   string
	Buh                  float64
	Skl                  float64
	Weight               string
	Product              string
}

// Descriptor возвращает описатель продукта для соединения со справочником.
func (r Remains) Descriptor() string {
	return trimRight(r.Product)
}

var remainsColumns = []string{
	"line_of_business", "warehouse", "parent_element", "nomenclature",
	"party_sign", "buying_season", "nomenclature_series", "mtn",
	"origin_country", "germination", "crop_year", "quantity_per_pallet",
	"active_substance", "certificate", "certificate_start_date",
	"certificate_end_date", "buh", "skl", "weight",
}

const (
	remainsSkipRows = 5
	remainsDoc      = "remains"
)

// Позиции 1, 2 и 4 — пустые колонки; позиция 22 — служебная колонка
// "хранение", которую источник дописывает последней и которая в схему
// не попадает.
var remainsDropCols = []int{1, 2, 4, 22}

// RemainsFilter — допустимые значения направления бизнеса и склада.
// Записи вне этих списков отбрасываются; это политика фильтрации,
// а не ошибка.
type RemainsFilter struct {
	LineOfBusiness []string
	Warehouse      []string
}

func memberSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// NormalizeRemains превращает сырой лист остатков в типизированные записи,
// оставляя только строки из разрешённых направлений и складов.
func NormalizeRemains(t RawTable, filter RemainsFilter) ([]Remains, error) {
	rows, err := prepare(t, remainsDoc, remainsSkipRows, true, remainsDropCols, len(remainsColumns))
	if err != nil {
		return nil, err
	}

	validLine := memberSet(filter.LineOfBusiness)
	validWarehouse := memberSet(filter.Warehouse)

	out := make([]Remains, 0, len(rows))
	for _, row := range rows {
		r := Remains{
			LineOfBusiness:       row[0],
			Warehouse:            row[1],
			ParentElement:        row[2],
			Nomenclature:         row[3],
			PartySign:            row[4],
			BuyingSeason:         row[5],
			NomenclatureSeries:   row[6],
			MTN:                  row[7],
			OriginCountry:        row[8],
			Germination:          row[9],
			CropYear:             row[10],
			QuantityPerPallet:    numericText(row[11]),
			ActiveSubstance:      row[12],
			Certificate:          row[13],
			CertificateStartDate: row[14],
			CertificateEndDate:   row[15],
			Buh:                  toFloat(row[16]),
			Skl:                  toFloat(row[17]),
			Weight:               numericText(row[18]),
		}
		r.Product = productKey(r.Nomenclature, r.PartySign, r.BuyingSeason)

		if !validLine[r.LineOfBusiness] || !validWarehouse[r.Warehouse] {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
