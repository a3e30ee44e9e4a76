package analysis

import (
	"encoding/json"
	"testing"

	"github.com/jerusan/FinSight/internal/domain"
)

func TestCleanAnalysisJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", `{"risk_flags": {}}`, `{"risk_flags": {}}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"prose around object", "Sure! {\"a\": 1} Let me know.", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanAnalysisJSON(tt.raw); got != tt.want {
				t.Errorf("cleanAnalysisJSON(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// The prompt schema and domain.AnalysisResult must describe the same JSON.
// This guards against the two drifting apart when one of them changes.
func TestAnalysisResultRoundTrip(t *testing.T) {
	raw := `{
		"income_analysis": {
			"total_money_in": 3200.50,
			"average_monthly_income": 1600.25,
			"income_sources": [{"description_pattern": "ACME PAYROLL", "occurrences": 2, "average_amount": 1600.25}]
		},
		"spending_behavior": {
			"total_money_out": 2100.00,
			"average_monthly_expenses": 1050.00,
			"top_spending_categories": [{"category": "Groceries", "total_spent": 400.00}],
			"high_ticket_transactions": {"threshold": 500.00, "count": 1}
		},
		"balance_trends": {
			"opening_balance": 1000.00,
			"closing_balance": 2100.50,
			"average_monthly_balance": 1550.25,
			"minimum_balance": 850.00,
			"overdraft_occurred": false
		},
		"cash_flow_stability": {
			"net_cash_flow": 1100.50,
			"positive_cash_flow": true,
			"monthly_variability": {"income_std_dev": 0.0, "expenses_std_dev": 120.50},
			"irregular_activity": []
		},
		"loan_affordability_indicators": {
			"estimated_disposable_income": 550.25,
			"months_of_expense_coverage": 2.0,
			"savings_behavior": "consistent"
		},
		"risk_flags": {
			"frequent_low_balance": false,
			"suspicious_transaction_patterns": [],
			"use_of_credit": {"present": false}
		}
	}`

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if result.IncomeAnalysis.TotalMoneyIn != 3200.50 {
		t.Errorf("TotalMoneyIn = %v, want 3200.50", result.IncomeAnalysis.TotalMoneyIn)
	}
	if !result.CashFlowStability.PositiveCashFlow {
		t.Error("PositiveCashFlow = false, want true")
	}
	if result.RiskFlags.UseOfCredit.Present {
		t.Error("UseOfCredit.Present = true, want false")
	}
}
