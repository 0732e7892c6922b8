// Package pipeline orchestrates a stamping run from dropped document to
// stamped artifact: validation, carrier classification, field extraction, tax
// estimation per premium, stamp rendering and final assembly.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/quickdraw/surpluslines/internal/carriers"
	"github.com/quickdraw/surpluslines/internal/config"
	"github.com/quickdraw/surpluslines/internal/estimator"
	"github.com/quickdraw/surpluslines/internal/stamping"
	"github.com/quickdraw/surpluslines/internal/transactions"
	"github.com/quickdraw/surpluslines/pkg/formatting"
)

// Decision is the operator's answer to a recoverable extraction failure.
type Decision int

const (
	DecisionCancel Decision = iota
	DecisionRetry
)

// Decider resolves recoverable failures mid-run.
type Decider interface {
	Decide(ctx context.Context, err error) Decision
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(ctx context.Context, err error) Decision

func (f DeciderFunc) Decide(ctx context.Context, err error) Decision { return f(ctx, err) }

// CancelAlways is the Decider for unattended runs: every recoverable failure
// withdraws the document.
var CancelAlways = DeciderFunc(func(context.Context, error) Decision { return DecisionCancel })

// TextSource captures a document's pages as normalized text blocks.
type TextSource interface {
	Capture(ctx context.Context, path string) (*carriers.Document, error)
}

// Status classifies the terminal outcome of a run.
type Status string

const (
	StatusStamped       Status = "stamped"
	StatusNotApplicable Status = "not_applicable"
)

// Outcome reports a completed run.
type Outcome struct {
	Status       Status
	ArtifactPath string
	Record       carriers.Record
}

// Options wires a pipeline's collaborators.
type Options struct {
	OutputDir string
	Producer  config.Producer
	Source    TextSource
	Estimator estimator.Client
	Assembler stamping.Assembler
	Decider   Decider
	Logger    *slog.Logger
}

// Pipeline drives documents through the full stamping run.
type Pipeline struct {
	outputDir string
	producer  config.Producer
	source    TextSource
	estimator estimator.Client
	assembler stamping.Assembler
	decider   Decider
	logger    *slog.Logger
}

func New(opts Options) *Pipeline {
	if opts.Decider == nil {
		opts.Decider = CancelAlways
	}
	return &Pipeline{
		outputDir: opts.OutputDir,
		producer:  opts.Producer,
		source:    opts.Source,
		estimator: opts.Estimator,
		// Final merges share the output directory, so they are serialized.
		assembler: &serialAssembler{inner: opts.Assembler},
		decider:   opts.Decider,
		logger:    opts.Logger.With("component", "pipeline"),
	}
}

// Process runs one document to a terminal outcome. Recoverable extraction
// failures are put to the decider; a retry restarts the run from the top on
// the same input, a cancel withdraws the document.
func (p *Pipeline) Process(ctx context.Context, docPath string) (Outcome, error) {
	m := newMachine(p.logger.With("document", filepath.Base(docPath)))
	for {
		outcome, err := p.run(ctx, m, docPath)
		if err == nil {
			return outcome, nil
		}
		if !carriers.Recoverable(err) {
			return Outcome{}, err
		}

		p.logger.Warn("run failed, awaiting operator decision", "document", docPath, "error", err)
		if p.decider.Decide(ctx, err) != DecisionRetry {
			p.logger.Info("document withdrawn", "document", docPath)
			return Outcome{}, fmt.Errorf("%w: %w", ErrWithdrawn, err)
		}
		p.logger.Info("retrying run", "document", docPath)
		if terr := m.to(StateIdle); terr != nil {
			return Outcome{}, terr
		}
	}
}

func (p *Pipeline) run(ctx context.Context, m *machine, docPath string) (Outcome, error) {
	if err := m.to(StateValidating); err != nil {
		return Outcome{}, err
	}
	if p.outputDir == "" {
		_ = m.to(StateError)
		return Outcome{}, ErrOutputDirNotSet
	}
	if info, err := os.Stat(docPath); err != nil || info.IsDir() {
		_ = m.to(StateError)
		return Outcome{}, fmt.Errorf("%w: %s", ErrInvalidPath, docPath)
	}

	if err := m.to(StateClassifying); err != nil {
		return Outcome{}, err
	}
	doc, err := p.source.Capture(ctx, docPath)
	if err != nil {
		_ = m.to(StateError)
		return Outcome{}, err
	}
	extractor, err := carriers.Classify(p.logger, doc)
	if err != nil {
		_ = m.to(StateError)
		return Outcome{}, err
	}

	if err := m.to(StateExtracting); err != nil {
		return Outcome{}, err
	}
	record, err := carriers.Extract(ctx, p.logger, extractor, doc)
	if err != nil {
		_ = m.to(StateError)
		return Outcome{}, err
	}

	if err := m.to(StateStampCheck); err != nil {
		return Outcome{}, err
	}
	if !extractor.NeedsStamp(doc, record) {
		if err := m.to(StateNotApplicable); err != nil {
			return Outcome{}, err
		}
		p.logger.Info("surplus lines not applicable, no stamp produced",
			"document", docPath, "carrier", record.Carrier, "subtype", record.Subtype)
		return Outcome{Status: StatusNotApplicable, Record: record}, nil
	}

	if err := m.to(StateBuildingPayloads); err != nil {
		return Outcome{}, err
	}
	payloads, err := transactions.Build(record)
	if err != nil {
		return Outcome{}, err
	}

	stamps := make([]string, 0, len(payloads))
	for seq, payload := range payloads {
		if err := m.to(StateSubmitting); err != nil {
			return Outcome{}, err
		}
		estimate, err := p.estimator.Submit(ctx, payload)
		if err != nil {
			return Outcome{}, err
		}
		if err := m.to(StateCollecting); err != nil {
			return Outcome{}, err
		}

		if err := m.to(StateFormatting); err != nil {
			return Outcome{}, err
		}
		form, err := p.buildForm(record, payload, estimate)
		if err != nil {
			return Outcome{}, err
		}

		if err := m.to(StateFilling); err != nil {
			return Outcome{}, err
		}
		stamp, err := p.assembler.RenderStamp(ctx, form, seq+1)
		if err != nil {
			return Outcome{}, err
		}
		stamps = append(stamps, stamp)
	}

	if err := m.to(StateCombining); err != nil {
		return Outcome{}, err
	}
	artifact, err := p.assembler.Combine(ctx, docPath, stamps, record.InsertIndex)
	if err != nil {
		return Outcome{}, err
	}
	if err := m.to(StateDone); err != nil {
		return Outcome{}, err
	}
	p.logger.Info("document stamped", "document", docPath, "artifact", artifact, "stamps", len(stamps))
	return Outcome{Status: StatusStamped, ArtifactPath: artifact, Record: record}, nil
}

// buildForm normalizes the scraped assessment amounts and lays out one
// stamp's form values.
func (p *Pipeline) buildForm(record carriers.Record, payload transactions.Payload, estimate *estimator.Estimate) (stamping.Form, error) {
	tax, err := formatting.NormalizeCurrency(estimate.Tax)
	if err != nil {
		return stamping.Form{}, fmt.Errorf("tax amount: %w", err)
	}
	serviceFee, err := formatting.NormalizeCurrency(estimate.ServiceFee)
	if err != nil {
		return stamping.Form{}, fmt.Errorf("service fee: %w", err)
	}
	subtotalFees, err := formatting.NormalizeCurrency(estimate.SubtotalFees)
	if err != nil {
		return stamping.Form{}, fmt.Errorf("subtotal fees: %w", err)
	}
	totalCost, err := formatting.NormalizeCurrency(estimate.TotalCost)
	if err != nil {
		return stamping.Form{}, fmt.Errorf("total cost: %w", err)
	}

	return stamping.Form{
		Tax:                  tax,
		ServiceFee:           serviceFee,
		SubtotalFees:         subtotalFees,
		TotalCost:            totalCost,
		InsuredName:          record.Client,
		PolicyNumber:         payload.PolicyNumber,
		Premium:              formatting.Currency(payload.Premium),
		PolicyFee:            formatting.Currency(payload.PolicyFee),
		EffectiveFrom:        record.Effective.Format(formatting.DateLayout),
		EffectiveTo:          record.Expiration.Format(formatting.DateLayout),
		ProducerName:         p.producer.AgentName,
		ProducerAddress:      p.producer.Address,
		ProducerCityStateZip: p.producer.CityStateZip,
	}, nil
}
