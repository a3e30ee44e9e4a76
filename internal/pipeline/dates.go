package pipeline

import (
	"time"

	"github.com/jerusan/FinSight/internal/domain"
	"github.com/rs/zerolog"
)

// dateLayouts are the textual date forms banks commonly print. Tried in
// order; the first match wins.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 06",
}

// normalizeStatementDates rewrites the statement's date labels into ISO
// YYYY-MM-DD where they can be parsed. Failures are non-fatal: the label is
// left exactly as extracted and a warning is logged. The reconciliation
// engine treats dates as opaque, so nothing downstream depends on this
// succeeding.
func normalizeStatementDates(stmt *domain.BankStatement, log zerolog.Logger) {
	if iso, ok := normalizeDate(stmt.PeriodStart); ok {
		stmt.PeriodStart = iso
	} else if stmt.PeriodStart != "" {
		log.Warn().Str("period_start", stmt.PeriodStart).Msg("Failed to normalize period start date")
	}

	if iso, ok := normalizeDate(stmt.PeriodEnd); ok {
		stmt.PeriodEnd = iso
	} else if stmt.PeriodEnd != "" {
		log.Warn().Str("period_end", stmt.PeriodEnd).Msg("Failed to normalize period end date")
	}

	for i := range stmt.Transactions {
		tx := &stmt.Transactions[i]
		if iso, ok := normalizeDate(tx.Date); ok {
			tx.Date = iso
		} else if tx.Date != "" {
			log.Warn().Int("index", i).Str("date", tx.Date).Msg("Failed to normalize transaction date")
		}
	}
}

// normalizeDate parses a date label against the known layouts and returns it
// in ISO form. ok is false when no layout matches.
func normalizeDate(label string) (string, bool) {
	if label == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
