// Package scan ties the ingestion adapter, body normalizer, order filter,
// and amount extraction engine into one per-vendor pipeline.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rupeeflow/rupeeflow/internal/filter"
	"github.com/rupeeflow/rupeeflow/internal/imap"
	"github.com/rupeeflow/rupeeflow/internal/model"
	"github.com/rupeeflow/rupeeflow/internal/normalize"
	"github.com/rupeeflow/rupeeflow/internal/service"
	"github.com/rupeeflow/rupeeflow/internal/vendor"
)

// Query selects what to scan. Since is inclusive, Before exclusive; both
// zero means all messages.
type Query struct {
	Since   time.Time
	Before  time.Time
	Folder  string
	Vendors []string
}

// Scanner runs the fetch → normalize → filter → extract pipeline for a
// set of tracked vendors.
type Scanner struct {
	source    service.MailSource
	extractor service.Extractor
	filter    *filter.Filter
	vendors   vendor.Map
	logger    *slog.Logger

	// Progress, if set, is called once per scanned sender address.
	Progress func()
}

// NewScanner wires the pipeline stages together.
func NewScanner(source service.MailSource, extractor service.Extractor, f *filter.Filter, vendors vendor.Map, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		source:    source,
		extractor: extractor,
		filter:    f,
		vendors:   vendors,
		logger:    logger,
	}
}

// CheckLogin verifies mailbox credentials without fetching anything, so
// commands can fail fast on bad configuration instead of reporting an
// empty month.
func (s *Scanner) CheckLogin(ctx context.Context) error {
	return s.source.CheckLogin(ctx)
}

// AddressCount returns how many sender addresses a query will visit.
func (s *Scanner) AddressCount(query Query) int {
	count := 0
	for _, label := range query.Vendors {
		count += len(s.vendors.Addresses(label))
	}
	return count
}

// Scan fetches and processes messages for every tracked vendor. A failed
// fetch for one address is logged and skipped; Scan fails only when every
// address fetch failed, so callers can tell "no orders this period" from
// "could not reach the mailbox". A poisoned message never aborts the rest
// of the batch.
func (s *Scanner) Scan(ctx context.Context, query Query) ([]model.OrderRecord, error) {
	var (
		orders    []model.OrderRecord
		attempted int
		failed    int
		lastErr   error
	)

	for _, label := range query.Vendors {
		addresses := s.vendors.Addresses(label)
		if len(addresses) == 0 {
			s.logger.Warn("unknown vendor, skipping", "vendor", label)
			continue
		}

		for _, address := range addresses {
			attempted++
			messages, err := s.source.Fetch(ctx, imap.FetchQuery{
				Sender: address,
				Since:  query.Since,
				Before: query.Before,
				Folder: query.Folder,
			})
			if err != nil {
				failed++
				lastErr = err
				s.logger.Warn("fetch failed", "vendor", label, "address", address, "err", err)
			} else {
				for _, msg := range messages {
					if order, ok := s.processMessage(msg, label); ok {
						orders = append(orders, order)
					}
				}
			}
			if s.Progress != nil {
				s.Progress()
			}
		}
	}

	if attempted > 0 && failed == attempted {
		return nil, fmt.Errorf("all %d mailbox fetches failed: %w", attempted, lastErr)
	}

	return orders, nil
}

// processMessage runs one message through the inner pipeline stages. Every
// failure mode is a skip, never an error.
func (s *Scanner) processMessage(msg model.RawMessage, label string) (model.OrderRecord, bool) {
	body := normalize.Body(msg.Raw)
	if body == "" {
		s.logger.Debug("empty body after normalization", "subject", msg.Subject)
		return model.OrderRecord{}, false
	}

	if s.filter.ShouldSkip(msg.Subject, body) {
		s.logger.Debug("excluded by order filter", "subject", msg.Subject)
		return model.OrderRecord{}, false
	}

	amount, ok := s.extractor.Extract(body, msg.Sender)
	if !ok {
		s.logger.Debug("no amount found", "subject", msg.Subject, "sender", msg.Sender)
		return model.OrderRecord{}, false
	}

	return model.OrderRecord{
		Date:    msg.Date,
		RawDate: msg.RawDate,
		Subject: msg.Subject,
		Sender:  msg.Sender,
		Vendor:  label,
		Amount:  amount,
	}, true
}
