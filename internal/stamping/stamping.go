// Package stamping renders surplus lines stamp pages from a fillable form
// template and merges them into the source document.
package stamping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

var (
	// ErrRenderFailed indicates the stamp form could not be filled.
	ErrRenderFailed = errors.New("failed to render stamp")

	// ErrCombineFailed indicates the stamped artifact could not be assembled.
	ErrCombineFailed = errors.New("failed to combine stamps into document")
)

// stampedSuffix is appended to the source document's stem for the final
// artifact name.
const stampedSuffix = "__stamped.pdf"

// Form carries the values written into one stamp page's form fields.
type Form struct {
	Tax                  string
	ServiceFee           string
	SubtotalFees         string
	TotalCost            string
	InsuredName          string
	PolicyNumber         string
	Premium              string
	PolicyFee            string
	EffectiveFrom        string
	EffectiveTo          string
	ProducerName         string
	ProducerAddress      string
	ProducerCityStateZip string
}

// fields maps form values onto the widget names in the stamp template.
func (f Form) fields() map[string]string {
	return map[string]string{
		"tax":                      f.Tax,
		"service_fee":              f.ServiceFee,
		"subtotal_fees":            f.SubtotalFees,
		"total_cost":               f.TotalCost,
		"insured_name":             f.InsuredName,
		"policy_num":               f.PolicyNumber,
		"premium":                  f.Premium,
		"policy_fee":               f.PolicyFee,
		"eff_from":                 f.EffectiveFrom,
		"eff_to":                   f.EffectiveTo,
		"producing_agent_name":     f.ProducerName,
		"producing_agent_address1": f.ProducerAddress,
		"producing_agent_address2": f.ProducerCityStateZip,
	}
}

// Assembler produces stamp pages and the final stamped artifact.
type Assembler interface {
	RenderStamp(ctx context.Context, form Form, seq int) (string, error)
	Combine(ctx context.Context, sourcePath string, stamps []string, insertIndex int) (string, error)
}

// PDFAssembler fills the stamp form template and assembles artifacts with
// pdfcpu.
type PDFAssembler struct {
	templatePath string
	outputDir    string
	logger       *slog.Logger
}

func NewPDFAssembler(templatePath, outputDir string, logger *slog.Logger) *PDFAssembler {
	return &PDFAssembler{
		templatePath: templatePath,
		outputDir:    outputDir,
		logger:       logger.With("component", "stamping"),
	}
}

// RenderStamp fills the stamp template with the form values into a uniquely
// named temp PDF. Unique names keep concurrent runs from colliding on their
// intermediate artifacts.
func (a *PDFAssembler) RenderStamp(ctx context.Context, form Form, seq int) (string, error) {
	id := uuid.NewString()
	jsonPath := filepath.Join(os.TempDir(), fmt.Sprintf("stamp_%s_%d.json", id, seq))
	stampPath := filepath.Join(os.TempDir(), fmt.Sprintf("stamp_%s_%d.pdf", id, seq))

	payload, err := formJSON(form.fields())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	if err := os.WriteFile(jsonPath, payload, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	defer os.Remove(jsonPath)

	if err := api.FillFormFile(a.templatePath, jsonPath, stampPath, nil); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	a.logger.Debug("stamp rendered", "seq", seq, "path", stampPath)
	return stampPath, nil
}

// Combine merges the stamp pages into the source document after insertIndex
// pages and writes the result to the output directory, replacing any earlier
// artifact for the same source. Temp stamps are removed on success.
func (a *PDFAssembler) Combine(ctx context.Context, sourcePath string, stamps []string, insertIndex int) (string, error) {
	count, err := api.PageCountFile(sourcePath)
	if err != nil {
		return "", fmt.Errorf("%w: page count: %v", ErrCombineFailed, err)
	}
	if insertIndex < 0 {
		insertIndex = 0
	}
	if insertIndex > count {
		insertIndex = count
	}

	work, err := os.MkdirTemp("", "surplus-combine-")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCombineFailed, err)
	}
	defer os.RemoveAll(work)

	var parts []string
	if insertIndex > 0 {
		front := filepath.Join(work, "front.pdf")
		if err := api.TrimFile(sourcePath, front, []string{fmt.Sprintf("1-%d", insertIndex)}, nil); err != nil {
			return "", fmt.Errorf("%w: trim front: %v", ErrCombineFailed, err)
		}
		parts = append(parts, front)
	}
	parts = append(parts, stamps...)
	if insertIndex < count {
		back := filepath.Join(work, "back.pdf")
		if err := api.TrimFile(sourcePath, back, []string{fmt.Sprintf("%d-%d", insertIndex+1, count)}, nil); err != nil {
			return "", fmt.Errorf("%w: trim back: %v", ErrCombineFailed, err)
		}
		parts = append(parts, back)
	}

	outPath := StampedPath(a.outputDir, sourcePath)
	if _, err := os.Stat(outPath); err == nil {
		if err := os.Remove(outPath); err != nil {
			return "", fmt.Errorf("%w: replace existing artifact: %v", ErrCombineFailed, err)
		}
	}
	if err := api.MergeCreateFile(parts, outPath, false, nil); err != nil {
		return "", fmt.Errorf("%w: merge: %v", ErrCombineFailed, err)
	}

	for _, stamp := range stamps {
		if err := os.Remove(stamp); err != nil {
			a.logger.Warn("temp stamp not removed", "path", stamp, "error", err)
		}
	}
	a.logger.Debug("artifact assembled", "path", outPath, "stamps", len(stamps), "insert_after_page", insertIndex)
	return outPath, nil
}

// StampedPath names the final artifact for a source document:
// <outputDir>/<stem>__stamped.pdf.
func StampedPath(outputDir, sourcePath string) string {
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+stampedSuffix)
}

// formJSON builds the pdfcpu form-fill payload for the template's text
// fields. Keys are emitted in sorted order so payloads are reproducible.
func formJSON(fields map[string]string) ([]byte, error) {
	type textField struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	type form struct {
		TextField []textField `json:"textfield"`
	}
	type payload struct {
		Forms []form `json:"forms"`
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var f form
	for _, name := range names {
		f.TextField = append(f.TextField, textField{Name: name, Value: fields[name]})
	}
	return json.Marshal(payload{Forms: []form{f}})
}
