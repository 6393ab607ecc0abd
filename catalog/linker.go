package catalog

// ProductRecord — запись документа, несущая производный описатель продукта.
type ProductRecord interface {
	Descriptor() string
}

// Linked — запись документа, в которой текстовый описатель продукта заменён
// идентификатором записи справочника (внешним ключом).
type Linked[T ProductRecord] struct {
	Record    T
	ProductID string
}

// Link соединяет записи документа со справочником по точному равенству
// описателей (inner join). Записи без совпадения в выдачу не попадают;
// их описатели возвращаются вторым значением для диагностики — продакшен
// по ним ничего не делает, но счётчик должен быть виден.
func Link[T ProductRecord](c *Catalog, records []T) ([]Linked[T], []string) {
	linked := make([]Linked[T], 0, len(records))
	var unmatched []string
	seen := make(map[string]bool)

	for _, rec := range records {
		descriptor := rec.Descriptor()
		id, ok := c.Lookup(descriptor)
		if !ok {
			if !seen[descriptor] {
				seen[descriptor] = true
				unmatched = append(unmatched, descriptor)
			}
			continue
		}
		linked = append(linked, Linked[T]{Record: rec, ProductID: id})
	}
	return linked, unmatched
}
