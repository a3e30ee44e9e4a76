package pipeline

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/jerusan/FinSight/internal/domain"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"2024-01-15", "2024-01-15", true},
		{"15/01/2024", "2024-01-15", true},
		{"15-01-2024", "2024-01-15", true},
		{"15 Jan 2024", "2024-01-15", true},
		{"5 Jan 2024", "2024-01-05", true},
		{"Jan 5, 2024", "2024-01-05", true},
		{"January 5, 2024", "2024-01-05", true},
		{"15 Jan 24", "2024-01-15", true},
		{"not a date", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := normalizeDate(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("normalizeDate(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalizeStatementDates_FailureIsNonFatal(t *testing.T) {
	stmt := &domain.BankStatement{
		PeriodStart: "15/01/2024",
		PeriodEnd:   "sometime in winter",
		Transactions: []domain.Transaction{
			{Date: "16 Jan 2024", Description: "parsed"},
			{Date: "??", Description: "left alone"},
		},
	}

	normalizeStatementDates(stmt, zerolog.Nop())

	if stmt.PeriodStart != "2024-01-15" {
		t.Errorf("PeriodStart = %q, want 2024-01-15", stmt.PeriodStart)
	}
	// Unparseable labels are preserved exactly as extracted.
	if stmt.PeriodEnd != "sometime in winter" {
		t.Errorf("PeriodEnd = %q, want original label preserved", stmt.PeriodEnd)
	}
	if stmt.Transactions[0].Date != "2024-01-16" {
		t.Errorf("tx0 date = %q, want 2024-01-16", stmt.Transactions[0].Date)
	}
	if stmt.Transactions[1].Date != "??" {
		t.Errorf("tx1 date = %q, want original label preserved", stmt.Transactions[1].Date)
	}
}
