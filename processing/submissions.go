package processing

// Submission — строка выгрузки заявок на отгрузку.
type Submission struct {
	Division           string
	Manager            string
	CompanyGroup       string
	Client             string
	ContractSupplement string
	ParentElement      string
	Manufacturer       string
	ActiveIngredient   string
	Nomenclature       string
	PartySign          string
	BuyingSeason       string
	LineOfBusiness     string
	Period             string
	ShippingWarehouse  string
	DocumentStatus     string
	DeliveryStatus     string
	ShippingAddress    string
	Transport          string
	Plan               float64
	Fact               float64
	Different          float64
	Product            string
}

// Descriptor возвращает описатель продукта для соединения со справочником.
func (s Submission) Descriptor() string {
	return trimRight(s.Product)
}

var submissionColumns = []string{
	"division", "manager", "company_group", "client", "contract_supplement",
	"parent_element", "manufacturer", "active_ingredient", "nomenclature",
	"party_sign", "buying_season", "line_of_business", "period",
	"shipping_warehouse", "document_status", "delivery_status",
	"shipping_address", "transport", "plan", "fact", "different",
}

const (
	submissionSkipRows = 8
	submissionDoc      = "submissions"

	// Фраза источника "закупка текущего сезона" — синоним отсутствующей
	// партии; заменяется одиночным пробелом до сборки описателя.
	currentSeasonPurchase = "Закупівля поточного сезону"

	// contract_supplement содержит код фиксированной ширины, встроенный
	// в свободный текст: символы 23..34 исходной строки.
	contractCodeStart = 23
	contractCodeEnd   = 34
)

var submissionDropCols = []int{1, 2, 6}

// NormalizeSubmissions превращает сырой лист заявок в типизированные записи.
func NormalizeSubmissions(t RawTable) ([]Submission, error) {
	rows, err := prepare(t, submissionDoc, submissionSkipRows, true, submissionDropCols, len(submissionColumns))
	if err != nil {
		return nil, err
	}

	out := make([]Submission, 0, len(rows))
	for _, row := range rows {
		s := Submission{
			Division:           row[0],
			Manager:            row[1],
			CompanyGroup:       row[2],
			Client:             row[3],
			ContractSupplement: sliceRunes(row[4], contractCodeStart, contractCodeEnd),
			ParentElement:      row[5],
			Manufacturer:       row[6],
			ActiveIngredient:   row[7],
			Nomenclature:       row[8],
			PartySign:          row[9],
			BuyingSeason:       row[10],
			LineOfBusiness:     row[11],
			Period:             row[12],
			ShippingWarehouse:  row[13],
			DocumentStatus:     row[14],
			DeliveryStatus:     row[15],
			ShippingAddress:    row[16],
			Transport:          row[17],
			Plan:               toFloat(row[18]),
			Fact:               toFloat(row[19]),
			Different:          toFloat(row[20]),
		}
		if s.PartySign == currentSeasonPurchase {
			s.PartySign = " "
		}
		s.Product = productKey(s.Nomenclature, s.PartySign, s.BuyingSeason)
		out = append(out, s)
	}
	return out, nil
}
