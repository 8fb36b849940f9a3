package packing

import "sort"

// Categorizer groups resolved item labels into display categories.
//
// Categorization is keyword-substring matching on localized labels, kept
// byte-for-byte compatible with the historical output. It is deliberately
// isolated behind this type so a key-based category mapping could replace it
// without touching rule logic.
type Categorizer struct {
	catalog *Catalog
}

func NewCategorizer(catalog *Catalog) *Categorizer {
	return &Categorizer{catalog: catalog}
}

// Categorize resolves each item key to its localized label, unions in the
// universal baseline, and groups labels into the fixed category order.
// Within a category labels are deduplicated and sorted; the flat list is the
// concatenation in category order, so the two views always agree.
func (c *Categorizer) Categorize(set ItemSet, lang string) (map[string][]string, []string) {
	labels := make(map[string]bool)
	for key := range set {
		labels[c.catalog.ItemLabel(key, lang)] = true
	}
	for _, key := range BaselineKeys {
		labels[c.catalog.ItemLabel(key, lang)] = true
	}

	byCategory := make(map[string][]string)
	for label := range labels {
		name := c.catalog.CategoryFor(label, lang)
		byCategory[name] = append(byCategory[name], label)
	}

	names := c.catalog.CategoryNames(lang)
	var flat []string
	for _, name := range names {
		items := byCategory[name]
		sort.Strings(items)
		if items == nil {
			// Empty categories still appear, matching the stored shape.
			items = []string{}
		}
		byCategory[name] = items
		flat = append(flat, items...)
	}
	return byCategory, flat
}
