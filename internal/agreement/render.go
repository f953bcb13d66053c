package agreement

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	pageMargin = 20.0
	lineHeight = 5.5
	fontFamily = "Helvetica"
)

type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
	blockListItem
	blockCell
	blockRowBreak
)

type block struct {
	kind   blockKind
	text   string
	level  int
	bold   bool
	center bool
	size   float64
}

var leafBlocks = map[atom.Atom]bool{
	atom.P: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Li: true, atom.Td: true, atom.Th: true,
	atom.Pre: true, atom.Blockquote: true,
}

var skipped = map[atom.Atom]bool{
	atom.Head: true, atom.Script: true, atom.Style: true, atom.Title: true,
}

// FileName is the download name for a seller's agreement.
func FileName(seller string) string {
	return fmt.Sprintf("Supply_Agreement_%s.pdf", seller)
}

// RenderPDF lays the filled agreement out as a simple flowing A4 document.
func RenderPDF(content, title string) ([]byte, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse agreement html: %w", err)
	}

	blocks := collectBlocks(doc)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("AMPA Procurement", true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, b := range blocks {
		if b.kind == blockRowBreak {
			pdf.Ln(2)
			continue
		}

		style := ""
		if b.bold {
			style = "B"
		}
		size := 11.0
		if b.size > 0 {
			size = b.size
		}
		align := "L"
		if b.center {
			align = "C"
		}

		text := b.text
		switch b.kind {
		case blockHeading:
			style = "B"
			size = headingSize(b.level)
		case blockListItem:
			pdf.SetX(pageMargin + 6)
		}

		pdf.SetFont(fontFamily, style, size)
		pdf.MultiCell(0, lineHeight*size/11, tr(text), "", align, false)
		pdf.Ln(1.5)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to lay out agreement pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write agreement pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func headingSize(level int) float64 {
	switch level {
	case 1:
		return 18
	case 2:
		return 15
	case 3:
		return 13
	default:
		return 12
	}
}

func collectBlocks(root *html.Node) []block {
	var blocks []block
	counters := map[*html.Node]int{}

	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && skipped[n.DataAtom] {
			return
		}
		if n.Type == html.TextNode {
			if text := normalizeSpace(n.Data); text != "" && n.Parent != nil && !leafBlocks[n.Parent.DataAtom] {
				blocks = append(blocks, block{kind: blockParagraph, text: text})
			}
			return
		}
		if n.Type == html.ElementNode && leafBlocks[n.DataAtom] && !containsLeafBlock(n) {
			if b, ok := toBlock(n, counters); ok {
				blocks = append(blocks, b)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
		if isElement(n, atom.Tr) {
			blocks = append(blocks, block{kind: blockRowBreak})
		}
	}
	visit(root)
	return blocks
}

func toBlock(n *html.Node, counters map[*html.Node]int) (block, bool) {
	text := normalizeSpace(textContent(n))
	if text == "" {
		return block{}, false
	}
	style := strings.ToLower(attr(n, "style"))
	b := block{
		kind:   blockParagraph,
		text:   text,
		bold:   onlyBoldText(n) || strings.Contains(style, "font-weight: bold") || strings.Contains(style, "font-weight:bold"),
		center: strings.Contains(style, "text-align: center") || strings.Contains(style, "text-align:center") || attr(n, "align") == "center",
		size:   fontSizeFromStyle(style),
	}

	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		b.kind = blockHeading
		b.level = int(n.Data[1] - '0')
	case atom.Li:
		b.kind = blockListItem
		if list := n.Parent; list != nil && isElement(list, atom.Ol) {
			counters[list]++
			b.text = strconv.Itoa(counters[list]) + ". " + text
		} else {
			b.text = "• " + text
		}
	case atom.Td, atom.Th:
		b.kind = blockCell
	}
	return b, true
}

func containsLeafBlock(n *html.Node) bool {
	return findFirst(n, func(c *html.Node) bool {
		return c.Type == html.ElementNode && leafBlocks[c.DataAtom]
	}) != nil
}

// onlyBoldText reports whether every non-blank text node under n sits inside
// a strong or b element.
func onlyBoldText(n *html.Node) bool {
	sawText := false
	allBold := true
	walk(n, func(c *html.Node) bool {
		if !allBold {
			return false
		}
		if c.Type == html.ElementNode && (c.DataAtom == atom.Strong || c.DataAtom == atom.B) {
			if normalizeSpace(textContent(c)) != "" {
				sawText = true
			}
			return false
		}
		if c.Type == html.TextNode && normalizeSpace(c.Data) != "" {
			allBold = false
		}
		return true
	})
	return sawText && allBold
}

func fontSizeFromStyle(style string) float64 {
	idx := strings.Index(style, "font-size:")
	if idx < 0 {
		return 0
	}
	rest := strings.TrimSpace(style[idx+len("font-size:"):])
	end := strings.IndexAny(rest, ";\"")
	if end >= 0 {
		rest = rest[:end]
	}
	rest = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest), "pt"))
	size, err := strconv.ParseFloat(rest, 64)
	if err != nil || size < 6 || size > 32 {
		return 0
	}
	return size
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
