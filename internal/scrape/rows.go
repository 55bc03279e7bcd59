// Package scrape turns pre-extracted registry-page content (table rows plus
// flattened page text) into the same structured payload the OCR path
// produces. Scraped data carries no geometry, so the clusterer is bypassed;
// confidence is fixed at 1.0 because the source is authoritative. The HTTP
// fetch and HTML parsing live in the out-of-scope scraping collaborator.
package scrape

import (
	"regexp"
	"strconv"
	"strings"
)

// Row is one table row from the scraped receipt page, header rows included.
type Row []string

// Page is the scraping collaborator's hand-off: tables plus the flattened
// text of the page for regex fallbacks.
type Page struct {
	Rows []Row
	Text string
}

// item is an intermediate (name, quantity, price) triple before enrichment.
type item struct {
	name     string
	quantity int
	price    int64
}

var (
	cellPriceRe = regexp.MustCompile(`(\d+[.,]\d+)`)
	cellQtyRe   = regexp.MustCompile(`^(\d+)$`)
	// "Product Name 2 x 50.00" with the multiplication sign in either script
	textItemQtyRe = regexp.MustCompile(`(.+?)\s+(\d+)\s*[xх×]\s*(\d+[.,]\d+)`)
	// "Product Name 100.00 [грн|₴|UAH]"
	textItemRe = regexp.MustCompile(`(.+?)\s+(\d+[.,]\d+)\s*(?:грн|₴|UAH)?`)
)

// lineItems extracts raw triples, preferring table rows and falling back to
// per-line regex patterns over the page text.
func lineItems(page Page) []item {
	var items []item
	for _, table := range groupTables(page.Rows) {
		if len(table) < 2 {
			continue
		}
		for _, row := range table[1:] {
			if it, ok := parseItemRow(row); ok {
				items = append(items, it)
			}
		}
	}
	if len(items) > 0 {
		return items
	}

	for _, line := range strings.Split(page.Text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 5 {
			continue
		}
		if m := textItemQtyRe.FindStringSubmatch(line); m != nil {
			qty, err := strconv.Atoi(m[2])
			if err != nil || qty < 1 {
				qty = 1
			}
			items = append(items, item{
				name:     strings.TrimSpace(m[1]),
				quantity: qty,
				price:    toMinorUnits(m[3]),
			})
			continue
		}
		if m := textItemRe.FindStringSubmatch(line); m != nil {
			items = append(items, item{
				name:     strings.TrimSpace(m[1]),
				quantity: 1,
				price:    toMinorUnits(m[2]),
			})
		}
	}
	return items
}

// parseItemRow sniffs cell roles: the first non-numeric cell is the name,
// the first decimal is the price, a bare integer is the quantity.
func parseItemRow(cells Row) (item, bool) {
	if len(cells) < 2 {
		return item{}, false
	}
	name := ""
	quantity := 1
	var price *int64

	for _, text := range cells {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		priceMatch := cellPriceRe.FindStringSubmatch(text)
		qtyMatch := cellQtyRe.FindStringSubmatch(text)
		switch {
		case name == "" && priceMatch == nil && qtyMatch == nil:
			name = text
		case priceMatch != nil && price == nil:
			v := toMinorUnits(priceMatch[1])
			price = &v
		case qtyMatch != nil && quantity == 1:
			if q, err := strconv.Atoi(qtyMatch[1]); err == nil && q >= 1 {
				quantity = q
			}
		}
	}
	if name == "" || price == nil {
		return item{}, false
	}
	return item{name: name, quantity: quantity, price: *price}, true
}

// groupTables treats consecutive rows of equal width as one table. The
// scraping collaborator flattens nested tables, so width changes mark
// boundaries.
func groupTables(rows []Row) [][]Row {
	var tables [][]Row
	var current []Row
	width := -1
	for _, row := range rows {
		if width >= 0 && len(row) != width {
			if len(current) > 0 {
				tables = append(tables, current)
			}
			current = nil
		}
		width = len(row)
		current = append(current, row)
	}
	if len(current) > 0 {
		tables = append(tables, current)
	}
	return tables
}
