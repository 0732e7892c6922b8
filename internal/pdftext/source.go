// Package pdftext captures a PDF's pages as ordered, normalized text blocks
// by shelling out to poppler's pdftotext.
package pdftext

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/quickdraw/surpluslines/internal/carriers"
)

// ErrPDFToolNotFound indicates pdftotext is not installed or not on PATH.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// eagerPages is how many leading pages are captured up front. Carriers that
// need deeper pages fetch them through the document's page source.
const eagerPages = 3

// Source extracts page text blocks from PDF files.
type Source struct {
	binary string
	logger *slog.Logger
}

func New(binary string, logger *slog.Logger) *Source {
	if binary == "" {
		binary = "pdftotext"
	}
	return &Source{binary: binary, logger: logger.With("component", "pdftext")}
}

// Capture reads the leading pages of the PDF at path eagerly and wires the
// remainder for on-demand fetch.
func (s *Source) Capture(ctx context.Context, path string) (*carriers.Document, error) {
	if _, err := exec.LookPath(s.binary); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFToolNotFound, err)
	}
	count, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: page count of %s: %v", carriers.ErrDocParse, path, err)
	}

	pages := make([][]string, 0, min(count, eagerPages))
	for i := range min(count, eagerPages) {
		blocks, err := s.page(ctx, path, i)
		if err != nil {
			return nil, err
		}
		pages = append(pages, blocks)
	}
	s.logger.Debug("document captured", "path", path, "pages", count, "eager", len(pages))
	return carriers.NewDocument(path, pages, &pageSource{source: s, path: path, count: count})
}

func (s *Source) page(ctx context.Context, path string, index int) ([]string, error) {
	n := strconv.Itoa(index + 1)
	out, err := exec.CommandContext(ctx, s.binary,
		"-layout", "-enc", "UTF-8", "-eol", "unix", "-f", n, "-l", n, path, "-").Output()
	if err != nil {
		return nil, fmt.Errorf("%w: pdftotext page %s of %s: %v", carriers.ErrDocParse, n, path, err)
	}
	return Blocks(string(out)), nil
}

// Blocks splits page text into normalized blocks: paragraphs separated by
// blank lines, curly apostrophes straightened, inner line breaks and layout
// padding collapsed to single spaces.
func Blocks(text string) []string {
	text = strings.ReplaceAll(text, "’", "'")
	text = strings.ReplaceAll(text, "\f", "")

	var blocks []string
	for _, raw := range strings.Split(text, "\n\n") {
		block := strings.Join(strings.Fields(raw), " ")
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

type pageSource struct {
	source *Source
	path   string
	count  int
}

func (p *pageSource) PageCount() int { return p.count }

func (p *pageSource) Page(ctx context.Context, index int) ([]string, error) {
	if index < 0 || index >= p.count {
		return nil, fmt.Errorf("%w: page %d out of range (document has %d)", carriers.ErrDocParse, index+1, p.count)
	}
	return p.source.page(ctx, p.path, index)
}
