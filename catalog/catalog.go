package catalog

import (
	"github.com/google/uuid"

	"agribot/processing"
)

// Entry — запись справочника продуктов. Справочник пересобирается с нуля
// при каждом запуске загрузки; записи никогда не обновляются на месте.
type Entry struct {
	ID              string
	Product         string
	LineOfBusiness  string
	ActiveSubstance string
}

// Catalog — дедуплицированный справочник продуктов, собранный из трёх
// источников. После сборки используется только на чтение.
type Catalog struct {
	Entries []Entry

	byProduct map[string]string
}

// Build собирает справочник из нормализованных записей доступности, заявок
// и остатков — именно в этом порядке. При совпадении описателей выигрывает
// первое вхождение, поэтому метаданные доступности имеют приоритет над
// заявками, а заявки — над остатками. У заявок поле действующего вещества
// называется active_ingredient и приводится к active_substance.
func Build(stock []processing.Stock, submissions []processing.Submission, remains []processing.Remains) *Catalog {
	c := &Catalog{byProduct: make(map[string]string)}

	for _, s := range stock {
		c.add(s.Descriptor(), s.LineOfBusiness, s.ActiveSubstance)
	}
	for _, s := range submissions {
		c.add(s.Descriptor(), s.LineOfBusiness, s.ActiveIngredient)
	}
	for _, r := range remains {
		c.add(r.Descriptor(), r.LineOfBusiness, r.ActiveSubstance)
	}
	return c
}

func (c *Catalog) add(product, lineOfBusiness, activeSubstance string) {
	if _, seen := c.byProduct[product]; seen {
		return
	}
	id := uuid.New().String()
	c.byProduct[product] = id
	c.Entries = append(c.Entries, Entry{
		ID:              id,
		Product:         product,
		LineOfBusiness:  lineOfBusiness,
		ActiveSubstance: activeSubstance,
	})
}

// Lookup возвращает идентификатор записи по описателю продукта.
func (c *Catalog) Lookup(descriptor string) (string, bool) {
	id, ok := c.byProduct[descriptor]
	return id, ok
}

// Len возвращает количество записей справочника.
func (c *Catalog) Len() int {
	return len(c.Entries)
}
