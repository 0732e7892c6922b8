package carriers

import (
	"context"
	"fmt"
	"path/filepath"
)

// PageSource fetches individual document pages on demand. Page indexes are
// zero-based.
type PageSource interface {
	PageCount() int
	Page(ctx context.Context, index int) ([]string, error)
}

// Document is a submitted transaction document rendered as ordered pages of
// normalized text blocks. The leading pages are captured eagerly; deeper
// pages, when a carrier needs them, come through the page source.
type Document struct {
	Path  string
	Pages [][]string

	source PageSource
}

// NewDocument wraps captured pages. At least one non-empty page is required;
// source may be nil when every page was captured eagerly.
func NewDocument(path string, pages [][]string, source PageSource) (*Document, error) {
	if len(pages) == 0 || len(pages[0]) == 0 {
		return nil, &DocError{Err: ErrDocParse, Path: path, Reason: "no text content on first page"}
	}
	return &Document{Path: path, Pages: pages, source: source}, nil
}

// PageCount reports the full page count of the underlying document, captured
// or not.
func (d *Document) PageCount() int {
	if d.source != nil {
		return d.source.PageCount()
	}
	return len(d.Pages)
}

// Page returns the blocks of the page at index, fetching through the source
// when the page was not captured eagerly.
func (d *Document) Page(ctx context.Context, index int) ([]string, error) {
	if index >= 0 && index < len(d.Pages) {
		return d.Pages[index], nil
	}
	if d.source == nil {
		return nil, &DocError{Err: ErrDocParse, Path: d.Path, Reason: fmt.Sprintf("page %d not captured", index+1)}
	}
	return d.source.Page(ctx, index)
}

// FileName is the document's base name.
func (d *Document) FileName() string { return filepath.Base(d.Path) }
