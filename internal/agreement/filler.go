package agreement

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/shaymaabd/AMPA/internal/domain"
	"github.com/shaymaabd/AMPA/internal/domain/entity"
	"github.com/shaymaabd/AMPA/internal/platform/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	dateLayout = "2006-01-02"

	placeholderDate            = "[DATE]"
	placeholderSupplierName    = "[SUPPLIER NAME]"
	placeholderSupplierAddress = "[SUPPLIER ADDRESS]"
	placeholderCustomerName    = "[CUSTOMER NAME]"
	placeholderCustomerAddress = "[CUSTOMER ADDRESS]"

	labelSingle = "Agreed Price"
	labelMulti  = "Total Agreed Price"

	listItemClass = "MsoNormal"
	listItemStyle = "mso-margin-top-alt:auto;mso-margin-bottom-alt:auto;mso-list:l4 level1 lfo3;tab-stops:list 36.0pt"
	listSpanStyle = `font-size:12.0pt;font-family:"Calibri",sans-serif;mso-fareast-font-family:"MS PGothic"`
	priceStyle    = "font-size: 18pt; font-weight: bold; text-align: center; color: #000000; margin: 20px 0;"

	StepItems     = "item-list"
	StepPrice     = "price"
	StepSignature = "signature"
)

// SupplierLocations are the sample addresses used for the supplier party.
var SupplierLocations = []string{
	"United States, New York",
	"United Kingdom, London",
	"Japan, Tokyo",
	"Germany, Berlin",
	"France, Paris",
	"Canada, Toronto",
	"Australia, Sydney",
	"Singapore",
	"South Korea, Seoul",
	"Netherlands, Amsterdam",
}

type Picker interface {
	Intn(n int) int
}

type Options struct {
	CustomerName    string
	CustomerAddress string
	Representative  string
	Rate            decimal.Decimal
	Now             func() time.Time
	Rand            Picker
}

type Filler struct {
	opts Options
	log  logger.Logger
	mu   sync.Mutex
}

type Result struct {
	HTML            string
	Total           decimal.Decimal
	Label           string
	Date            string
	SupplierAddress string
	Skipped         []string
}

func NewFiller(opts Options, log logger.Logger) *Filler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Rate.IsZero() {
		opts.Rate = decimal.RequireFromString("3.65")
	}
	return &Filler{opts: opts, log: log}
}

// Fill substitutes placeholders and rebuilds the item list, total and
// signature block for one seller. Missing template sections are skipped and
// listed in Result.Skipped.
func (f *Filler) Fill(content, seller string, entries []entity.CartEntry) (*Result, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse agreement template: %w", err)
	}

	res := &Result{
		Date:            f.opts.Now().Format(dateLayout),
		SupplierAddress: f.pickLocation(),
		Label:           labelSingle,
	}
	if len(entries) > 1 {
		res.Label = labelMulti
	}
	res.Total = f.total(entries)

	f.log.Infof("Filling agreement for seller %s with %d items", seller, len(entries))

	replacer := strings.NewReplacer(
		placeholderDate, res.Date,
		placeholderSupplierName, seller,
		placeholderSupplierAddress, res.SupplierAddress,
		placeholderCustomerName, f.opts.CustomerName,
		placeholderCustomerAddress, f.opts.CustomerAddress,
	)
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.TextNode && strings.Contains(n.Data, "[") {
			n.Data = replacer.Replace(n.Data)
		}
		return true
	})

	steps := []struct {
		name string
		run  func() error
	}{
		{StepItems, func() error { return f.rebuildItems(doc, entries) }},
		{StepPrice, func() error { return f.insertTotal(doc, res) }},
		{StepSignature, func() error { return f.fillSignatures(doc, seller, res.Date) }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			f.log.Warnf("Agreement step %s skipped: %v", step.name, err)
			res.Skipped = append(res.Skipped, step.name)
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("failed to render agreement html: %w", err)
	}
	res.HTML = buf.String()
	f.log.Infof("Agreement filled for seller %s: %s AED %s", seller, res.Label, res.Total.StringFixed(2))
	return res, nil
}

func (f *Filler) pickLocation() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return SupplierLocations[f.opts.Rand.Intn(len(SupplierLocations))]
}

func (f *Filler) total(entries []entity.CartEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if v, ok := e.Converted(f.opts.Rate); ok {
			total = total.Add(v)
		}
	}
	return total
}

// ItemLine is the agreement text for one cart entry.
func (f *Filler) ItemLine(e entity.CartEntry) string {
	title := e.Title
	if title == "" {
		title = "Unknown Product"
	}
	condition := e.ConditionText
	if condition == "" {
		condition = "Not specified"
	}
	price := "N/A"
	if v, ok := e.Converted(f.opts.Rate); ok {
		price = v.StringFixed(2)
	}
	return fmt.Sprintf("%s - %s - AED %s", title, condition, price)
}

func (f *Filler) rebuildItems(doc *html.Node, entries []entity.CartEntry) error {
	list := findFirst(doc, func(n *html.Node) bool { return isElement(n, atom.Ol) })
	if list == nil {
		return fmt.Errorf("%w: no ordered list", domain.ErrTemplateStructure)
	}

	for _, li := range findAll(list, func(n *html.Node) bool { return isElement(n, atom.Li) }) {
		if li.Parent != nil {
			li.Parent.RemoveChild(li)
		}
	}

	for _, e := range entries {
		span := newElement(atom.Span, html.Attribute{Key: "lang", Val: "EN-US"}, html.Attribute{Key: "style", Val: listSpanStyle})
		span.AppendChild(&html.Node{Type: html.TextNode, Data: f.ItemLine(e)})

		li := newElement(atom.Li, html.Attribute{Key: "class", Val: listItemClass}, html.Attribute{Key: "style", Val: listItemStyle})
		li.AppendChild(span)
		list.AppendChild(li)
	}
	return nil
}

func (f *Filler) insertTotal(doc *html.Node, res *Result) error {
	heading := findFirst(doc, func(n *html.Node) bool {
		return isElement(n, atom.Strong) && strings.Contains(textContent(n), "PRICE")
	})
	if heading == nil {
		return fmt.Errorf("%w: no PRICE heading", domain.ErrTemplateStructure)
	}
	section := ancestor(heading, atom.P)
	if section == nil {
		return fmt.Errorf("%w: PRICE heading outside a paragraph", domain.ErrTemplateStructure)
	}
	desc := nextSiblingElement(section, atom.P)
	if desc == nil {
		return fmt.Errorf("%w: no paragraph after PRICE heading", domain.ErrTemplateStructure)
	}

	display := newElement(atom.P, html.Attribute{Key: "style", Val: priceStyle})
	display.AppendChild(&html.Node{
		Type: html.TextNode,
		Data: fmt.Sprintf("%s: AED %s", res.Label, res.Total.StringFixed(2)),
	})
	desc.Parent.InsertBefore(display, desc.NextSibling)
	return nil
}

func (f *Filler) fillSignatures(doc *html.Node, seller, date string) error {
	filled := 0
	for _, td := range findAll(doc, func(n *html.Node) bool { return isElement(n, atom.Td) }) {
		text := textContent(td)
		var name string
		switch {
		case strings.Contains(text, "SUPPLIER"):
			name = seller
		case strings.Contains(text, "CUSTOMER"):
			name = f.opts.Representative
		default:
			continue
		}

		if u := findFirst(td, func(n *html.Node) bool { return isElement(n, atom.U) }); u != nil {
			setText(u, name)
		}
		for _, p := range findAll(td, func(n *html.Node) bool { return isElement(n, atom.P) }) {
			if strings.Contains(textContent(p), "Date") {
				setText(p, "Date: "+date)
			}
		}
		filled++
	}
	if filled == 0 {
		return fmt.Errorf("%w: no signature cells", domain.ErrTemplateStructure)
	}
	return nil
}
