// Package estimator submits transaction payloads to the external surplus
// lines tax estimator and scrapes the computed assessment amounts from its
// response.
package estimator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/quickdraw/surpluslines/internal/transactions"
)

var (
	// ErrSubmitFailed indicates the estimator rejected or never received the
	// submission.
	ErrSubmitFailed = errors.New("estimator submission failed")

	// ErrBadResponse indicates the response page did not carry the expected
	// assessment values.
	ErrBadResponse = errors.New("estimator response missing assessment values")
)

// Form field identifiers the estimator expects.
const (
	fieldPolicyEffective      = "PolicyEffectiveDate"
	fieldTransactionEffective = "TransactionEffectiveDate"
	fieldCoverageCode         = "CoverageCode"
	fieldTransactionType      = "TransactionType"
	fieldTaxStatus            = "TaxStatus"
	fieldPremium              = "Premium"
	fieldPolicyFee            = "PolicyFee"
)

// Estimate holds the assessment amounts scraped from one estimator response,
// as printed (currency markers and parenthesized negatives included).
type Estimate struct {
	Tax          string
	ServiceFee   string
	SubtotalFees string
	TotalCost    string
}

// Client performs one estimator round trip per payload.
type Client interface {
	Submit(ctx context.Context, payload transactions.Payload) (*Estimate, error)
}

// HTTPClient is the production Client. Every submission opens a fresh
// session; the estimator keeps per-session state that must not leak between
// payloads.
type HTTPClient struct {
	url     string
	limiter *rate.Limiter
	timeout time.Duration
	logger  *slog.Logger
}

func NewHTTPClient(estimatorURL string, requestsPerMinute int, timeout time.Duration, logger *slog.Logger) *HTTPClient {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	return &HTTPClient{
		url:     estimatorURL,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
		timeout: timeout,
		logger:  logger.With("component", "estimator"),
	}
}

func (c *HTTPClient) Submit(ctx context.Context, payload transactions.Payload) (*Estimate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set(fieldPolicyEffective, payload.Effective)
	form.Set(fieldTransactionEffective, payload.Effective)
	form.Set(fieldCoverageCode, payload.CoverageCode)
	form.Set(fieldTransactionType, payload.TransactionCode)
	form.Set(fieldTaxStatus, payload.TaxStatus)
	form.Set(fieldPremium, strconv.FormatFloat(payload.Premium, 'f', 2, 64))
	form.Set(fieldPolicyFee, strconv.FormatFloat(payload.PolicyFee, 'f', 2, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	session := &http.Client{Jar: jar, Timeout: c.timeout}

	resp, err := session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %s", ErrSubmitFailed, resp.Status)
	}

	estimate, err := parseEstimate(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("estimate collected",
		"policy", payload.PolicyNumber,
		"premium", payload.Premium,
		"total_cost", estimate.TotalCost)
	return estimate, nil
}
