package pipeline

import (
	"strconv"

	"github.com/google/uuid"

	"agribot/catalog"
	"agribot/processing"
)

// Преобразование типизированных записей в строки для хранилища.
// Каждая строка получает свежий идентификатор: таблицы замещаются целиком,
// и прежние идентификаторы не переживают запуск.

func catalogRows(c *catalog.Catalog) []map[string]any {
	rows := make([]map[string]any, 0, len(c.Entries))
	for _, e := range c.Entries {
		rows = append(rows, map[string]any{
			"id":               e.ID,
			"product":          e.Product,
			"line_of_business": e.LineOfBusiness,
			"active_substance": e.ActiveSubstance,
		})
	}
	return rows
}

func stockRows(linked []catalog.Linked[processing.Stock]) []map[string]any {
	rows := make([]map[string]any, 0, len(linked))
	for _, l := range linked {
		s := l.Record
		rows = append(rows, map[string]any{
			"id":               uuid.New().String(),
			"nomenclature":     s.Nomenclature,
			"party_sign":       s.PartySign,
			"buying_season":    s.BuyingSeason,
			"division":         s.Division,
			"line_of_business": s.LineOfBusiness,
			"available":        s.Available,
			"product":          l.ProductID,
		})
	}
	return rows
}

func remainsRows(linked []catalog.Linked[processing.Remains]) []map[string]any {
	rows := make([]map[string]any, 0, len(linked))
	for _, l := range linked {
		r := l.Record
		rows = append(rows, map[string]any{
			"id":                     uuid.New().String(),
			"line_of_business":       r.LineOfBusiness,
			"warehouse":              r.Warehouse,
			"parent_element":         r.ParentElement,
			"nomenclature":           r.Nomenclature,
			"party_sign":             r.PartySign,
			"buying_season":          r.BuyingSeason,
			"nomenclature_series":    r.NomenclatureSeries,
			"mtn":                    r.MTN,
			"origin_country":         r.OriginCountry,
			"germination":            r.Germination,
			"crop_year":              r.CropYear,
			"quantity_per_pallet":    r.QuantityPerPallet,
			"active_substance":       r.ActiveSubstance,
			"certificate":            r.Certificate,
			"certificate_start_date": r.CertificateStartDate,
			"certificate_end_date":   r.CertificateEndDate,
			"buh":                    r.Buh,
			"skl":                    r.Skl,
			"weight":                 r.Weight,
			"product":                l.ProductID,
		})
	}
	return rows
}

func submissionRows(linked []catalog.Linked[processing.Submission]) []map[string]any {
	rows := make([]map[string]any, 0, len(linked))
	for _, l := range linked {
		s := l.Record
		rows = append(rows, map[string]any{
			"id":                  uuid.New().String(),
			"division":            s.Division,
			"manager":             s.Manager,
			"company_group":       s.CompanyGroup,
			"client":              s.Client,
			"contract_supplement": s.ContractSupplement,
			"parent_element":      s.ParentElement,
			"manufacturer":        s.Manufacturer,
			"active_ingredient":   s.ActiveIngredient,
			"nomenclature":        s.Nomenclature,
			"party_sign":          s.PartySign,
			"buying_season":       s.BuyingSeason,
			"line_of_business":    s.LineOfBusiness,
			"period":              s.Period,
			"shipping_warehouse":  s.ShippingWarehouse,
			"document_status":     s.DocumentStatus,
			"delivery_status":     s.DeliveryStatus,
			"shipping_address":    s.ShippingAddress,
			"transport":           s.Transport,
			"plan":                s.Plan,
			"fact":                s.Fact,
			"different":           s.Different,
			"product":             l.ProductID,
		})
	}
	return rows
}

func paymentRows(payments []processing.Payment) []map[string]any {
	rows := make([]map[string]any, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, map[string]any{
			"id":                           uuid.New().String(),
			"contract_supplement":          p.ContractSupplement,
			"contract_type":                p.ContractType,
			"prepayment_amount":            p.PrepaymentAmount,
			"amount_of_credit":             p.AmountOfCredit,
			"prepayment_percentage":        p.PrepaymentPercentage,
			"loan_percentage":              p.LoanPercentage,
			"planned_amount":               p.PlannedAmount,
			"planned_amount_excluding_vat": p.PlannedAmountExcludingVAT,
			"actual_sale_amount":           p.ActualSaleAmount,
			"actual_payment_amount":        p.ActualPaymentAmount,
		})
	}
	return rows
}

// formatQuantity приводит количество к текстовому виду: схема хранит
// qt_order и qt_moved как текст.
func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func movementRows(movements []processing.MovementEntry) []map[string]any {
	rows := make([]map[string]any, 0, len(movements))
	for _, m := range movements {
		var date any
		if !m.Date.IsZero() {
			date = m.Date.Format("2006-01-02")
		}
		rows = append(rows, map[string]any{
			"id":               uuid.New().String(),
			"order":            m.Order,
			"date":             date,
			"line_of_business": m.LineOfBusiness,
			"product":          m.Product,
			"qt_order":         formatQuantity(m.QtOrder),
			"qt_moved":         formatQuantity(m.QtMoved),
			"party_sign":       m.PartySign,
			"period":           m.Period,
			"contract":         m.Contract,
		})
	}
	return rows
}
