package estimator

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// assessmentsTableClass marks the results table in the estimator's response.
const assessmentsTableClass = "tax-assessments"

// Fixed row positions of the assessment values inside the results table.
const (
	rowTax          = 1
	rowServiceFee   = 3
	rowSubtotalFees = 5
	rowTotalCost    = 6
)

// parseEstimate walks the response document for the assessments table and
// reads the amount column of the four fixed result rows.
func parseEstimate(r io.Reader) (*Estimate, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	table := findTable(doc)
	if table == nil {
		return nil, fmt.Errorf("%w: assessments table not found", ErrBadResponse)
	}
	rows := collectRows(table)
	if len(rows) <= rowTotalCost {
		return nil, fmt.Errorf("%w: %d result rows, want at least %d", ErrBadResponse, len(rows), rowTotalCost+1)
	}

	estimate := &Estimate{
		Tax:          cellText(rows[rowTax], 1),
		ServiceFee:   cellText(rows[rowServiceFee], 1),
		SubtotalFees: cellText(rows[rowSubtotalFees], 1),
		TotalCost:    cellText(rows[rowTotalCost], 1),
	}
	if estimate.Tax == "" || estimate.ServiceFee == "" || estimate.SubtotalFees == "" || estimate.TotalCost == "" {
		return nil, fmt.Errorf("%w: blank assessment cell", ErrBadResponse)
	}
	return estimate, nil
}

func findTable(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "table" {
		for _, attr := range n.Attr {
			if attr.Key == "class" && strings.Contains(attr.Val, assessmentsTableClass) {
				return n
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if table := findTable(child); table != nil {
			return table
		}
	}
	return nil
}

func collectRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			rows = append(rows, n)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(table)
	return rows
}

// cellText returns the trimmed text of the row's nth td cell.
func cellText(row *html.Node, index int) string {
	seen := 0
	for child := row.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode || child.Data != "td" {
			continue
		}
		if seen == index {
			return strings.TrimSpace(nodeText(child))
		}
		seen++
	}
	return ""
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(nodeText(child))
	}
	return b.String()
}
