package amazon

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/v0xg/claimgen/internal/domain"
)

var orderIDPattern = regexp.MustCompile(`orderID=([0-9-]+)`)

// Detail page landmarks
const (
	itemSelector     = ".a-fixed-left-grid-col.yohtmlc-item"
	titleSelector    = ".a-row .a-link-normal"
	priceSelector    = ".a-row .a-size-small.a-color-price"
	quantitySelector = ".item-view-qty"
	dateSelector     = ".order-date-invoice-item"
	nextPageSelector = "ul.a-pagination li.a-last:not(.a-disabled)"
)

func parseDocument(doc string) (*goquery.Document, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromNode(root), nil
}

// text returns the text content of sel with whitespace runs collapsed
func text(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// ParseOrderIDs returns the order ids referenced by order links, in page
// order, possibly with repeats
func ParseOrderIDs(doc string) ([]string, error) {
	d, err := parseDocument(doc)
	if err != nil {
		return nil, err
	}
	var ids []string
	d.Find(orderLinkSelector).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if m := orderIDPattern.FindStringSubmatch(href); m != nil {
			ids = append(ids, m[1])
		}
	})
	return ids, nil
}

// HasNextPage reports whether the pagination control has an enabled "next" entry
func HasNextPage(doc string) (bool, error) {
	d, err := parseDocument(doc)
	if err != nil {
		return false, err
	}
	return d.Find(nextPageSelector).Length() > 0, nil
}

// ParseLineItems extracts the items of an order detail page, shipment by
// shipment. The order date is page level and shared by every item.
func ParseLineItems(orderID, doc string) ([]domain.LineItem, error) {
	d, err := parseDocument(doc)
	if err != nil {
		return nil, err
	}

	date := "N/A"
	if sel := d.Find(dateSelector).First(); sel.Length() > 0 {
		date = strings.TrimSpace(strings.TrimPrefix(text(sel), "Ordered on "))
	}

	var items []domain.LineItem
	d.Find(shipmentSelector).Each(func(_ int, shipment *goquery.Selection) {
		shipment.Find(itemSelector).Each(func(_ int, item *goquery.Selection) {
			title := "N/A"
			if sel := item.Find(titleSelector).First(); sel.Length() > 0 {
				title = text(sel)
			}
			price := 0.0
			if sel := item.Find(priceSelector).First(); sel.Length() > 0 {
				price = parsePrice(text(sel))
			}
			quantity := 1
			if sel := item.Find(quantitySelector).First(); sel.Length() > 0 {
				quantity = parseQuantity(text(sel))
			}
			items = append(items, domain.NewLineItem(orderID, title, date, price, quantity))
		})
	})
	return items, nil
}

// parsePrice reads "$1,234.56" as 1234.56; anything unreadable is 0
func parsePrice(s string) float64 {
	s = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// parseQuantity reads the leading integer of s; anything unreadable is 1
func parseQuantity(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	q, err := strconv.Atoi(s[:end])
	if err != nil || q < 1 {
		return 1
	}
	return q
}
