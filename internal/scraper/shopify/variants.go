package shopify

import (
	"fmt"
	"strings"

	"StockWatch/internal/models"
	"StockWatch/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// ExtractVariants pulls color/size availability out of a rendered product
// page. Embedded storefront JSON is the reliable source; the visible option
// widgets are only a fallback for themes that keep variant data out of the
// markup.
func ExtractVariants(html string) ([]models.Variant, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse product html: %w", err)
	}
	if variants := variantsFromEmbeddedJSON(doc); len(variants) > 0 {
		return variants, nil
	}
	return variantsFromDOM(doc), nil
}

// variantsFromEmbeddedJSON scans <script type="application/json"> blobs for a
// variants array. Shopify and most headless themes embed one, though its
// nesting differs per theme, so the lookup probes one level deep as well.
func variantsFromEmbeddedJSON(doc *goquery.Document) []models.Variant {
	var variants []models.Variant
	doc.Find(`script[type="application/json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		blob := strings.TrimSpace(sel.Text())
		if blob == "" || !strings.Contains(blob, `"variant`) {
			return true
		}
		arr := findVariantsArray(gjson.Parse(blob))
		if !arr.Exists() {
			return true
		}
		arr.ForEach(func(_, v gjson.Result) bool {
			variants = append(variants, variantFromJSON(v))
			return true
		})
		return len(variants) == 0
	})
	return variants
}

func findVariantsArray(root gjson.Result) gjson.Result {
	var found gjson.Result
	switch {
	case root.IsObject():
		if v := root.Get("variants"); v.IsArray() {
			return v
		}
		root.ForEach(func(_, v gjson.Result) bool {
			if v.IsObject() {
				if inner := v.Get("variants"); inner.IsArray() {
					found = inner
					return false
				}
			}
			return true
		})
	case root.IsArray():
		root.ForEach(func(_, item gjson.Result) bool {
			if item.IsObject() {
				if inner := item.Get("variants"); inner.IsArray() {
					found = inner
					return false
				}
			}
			return true
		})
	}
	return found
}

func variantFromJSON(v gjson.Result) models.Variant {
	size := v.Get("option1").String()
	if size == "" {
		size = v.Get("size").String()
	}
	color := v.Get("option2").String()
	if color == "" {
		color = v.Get("color").String()
	}
	if color == "" {
		if opts := v.Get("options"); opts.IsArray() {
			arr := opts.Array()
			switch {
			case len(arr) >= 2:
				color, size = arr[0].String(), arr[1].String()
			case len(arr) == 1:
				size = arr[0].String()
			}
		}
	}

	available := v.Get("is_in_stock").Bool()
	if a := v.Get("available"); a.Exists() {
		available = a.Bool()
	}

	return models.Variant{
		Color:     utils.NormalizeSpace(color),
		Size:      utils.NormalizeSpace(size),
		Available: available,
	}
}

// sizeTokens covers the usual apparel ladder for the last-resort guess over
// bare buttons.
var sizeTokens = map[string]bool{
	"XXS": true, "XS": true, "S": true, "M": true, "L": true,
	"XL": true, "XXL": true, "2XL": true, "3XL": true,
}

type sizeOption struct {
	label     string
	available bool
}

// variantsFromDOM infers availability from the option widgets: one variant
// per color/size pair, a size counting as unavailable when its control is
// disabled.
func variantsFromDOM(doc *goquery.Document) []models.Variant {
	colors := collectColors(doc)
	if len(colors) == 0 {
		colors = []string{""}
	}
	sizes := collectSizes(doc)
	if len(sizes) == 0 {
		sizes = []sizeOption{{label: "", available: true}}
	}

	var variants []models.Variant
	for _, color := range colors {
		for _, size := range sizes {
			variants = append(variants, models.Variant{
				Color:     color,
				Size:      size.label,
				Available: size.available,
			})
		}
	}
	return variants
}

var colorGroupSelectors = []string{
	`[data-option-name="Color"]`,
	`[aria-label*="Color"]`,
	`[aria-label*="color"]`,
}

func collectColors(doc *goquery.Document) []string {
	var colors []string
	for _, groupSel := range colorGroupSelectors {
		doc.Find(groupSel).Find(`button, [role="radio"]`).Each(func(_ int, el *goquery.Selection) {
			label, ok := el.Attr("aria-label")
			if !ok || label == "" {
				label = el.Text()
			}
			if label = utils.NormalizeSpace(label); label != "" {
				colors = append(colors, label)
			}
		})
		if len(colors) > 0 {
			return utils.SortedUnique(colors)
		}
	}

	// Some themes render colors as swatch images only.
	doc.Find(`img[alt*="color"], img[alt*="Color"], [data-swatch]`).Each(func(_ int, el *goquery.Selection) {
		if alt := utils.NormalizeSpace(el.AttrOr("alt", "")); alt != "" {
			colors = append(colors, alt)
		}
	})
	return utils.SortedUnique(colors)
}

var sizeGroupSelectors = []string{
	`[data-option-name="Size"]`,
	`[aria-label*="Size"]`,
	`[aria-label*="size"]`,
}

func collectSizes(doc *goquery.Document) []sizeOption {
	var sizes []sizeOption
	for _, groupSel := range sizeGroupSelectors {
		doc.Find(groupSel).Find(`button, [role="radio"], input[type="radio"]`).Each(func(_ int, el *goquery.Selection) {
			label, ok := el.Attr("aria-label")
			if !ok || label == "" {
				label = el.AttrOr("value", "")
			}
			if label == "" {
				label = el.Text()
			}
			if label = utils.NormalizeSpace(label); label != "" {
				sizes = append(sizes, sizeOption{label: label, available: !isDisabled(el)})
			}
		})
		if len(sizes) > 0 {
			return sizes
		}
	}

	// Last resort: any button whose text looks like a size.
	doc.Find(`button, [role="radio"]`).Each(func(_ int, el *goquery.Selection) {
		text := utils.NormalizeSpace(el.Text())
		if sizeTokens[text] {
			sizes = append(sizes, sizeOption{label: text, available: !isDisabled(el)})
		}
	})
	return sizes
}

func isDisabled(el *goquery.Selection) bool {
	if _, ok := el.Attr("disabled"); ok {
		return true
	}
	aria := el.AttrOr("aria-disabled", "")
	return aria == "true" || aria == "True"
}
