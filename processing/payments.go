package processing

// Payment — строка выгрузки оплат по договорам. Не связывается со
// справочником продуктов: ключом служит contract_supplement.
type Payment struct {
	ContractSupplement        string
	ContractType              string
	PrepaymentAmount          float64
	AmountOfCredit            float64
	PrepaymentPercentage      float64
	LoanPercentage            float64
	PlannedAmount             float64
	PlannedAmountExcludingVAT float64
	ActualSaleAmount          float64
	ActualPaymentAmount       float64
}

var paymentColumns = []string{
	"contract_supplement", "contract_type", "prepayment_amount",
	"amount_of_credit", "prepayment_percentage", "loan_percentage",
	"planned_amount", "planned_amount_excluding_vat", "actual_sale_amount",
	"actual_payment_amount",
}

const (
	paymentSkipRows = 10
	paymentDoc      = "payments"
)

var paymentDropCols = []int{1, 2, 7}

// NormalizePayments превращает сырой лист оплат в типизированные записи.
func NormalizePayments(t RawTable) ([]Payment, error) {
	rows, err := prepare(t, paymentDoc, paymentSkipRows, true, paymentDropCols, len(paymentColumns))
	if err != nil {
		return nil, err
	}

	out := make([]Payment, 0, len(rows))
	for _, row := range rows {
		out = append(out, Payment{
			ContractSupplement:        row[0],
			ContractType:              row[1],
			PrepaymentAmount:          toFloat(row[2]),
			AmountOfCredit:            toFloat(row[3]),
			PrepaymentPercentage:      toFloat(row[4]),
			LoanPercentage:            toFloat(row[5]),
			PlannedAmount:             toFloat(row[6]),
			PlannedAmountExcludingVAT: toFloat(row[7]),
			ActualSaleAmount:          toFloat(row[8]),
			ActualPaymentAmount:       toFloat(row[9]),
		})
	}
	return out, nil
}
