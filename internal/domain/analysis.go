package domain

// Types for the financial-health analysis produced by the model from a
// finalized statement. The structure is part of the response contract with
// the dashboard, so field names are fixed.

type IncomeSource struct {
	DescriptionPattern string  `json:"description_pattern"`
	Occurrences        int     `json:"occurrences"`
	AverageAmount      float64 `json:"average_amount"`
}

type TopSpendingCategory struct {
	Category   string  `json:"category"`
	TotalSpent float64 `json:"total_spent"`
}

type HighTicketTransactions struct {
	Threshold float64 `json:"threshold"`
	Count     int     `json:"count"`
}

type IncomeAnalysis struct {
	TotalMoneyIn         float64        `json:"total_money_in"`
	AverageMonthlyIncome float64        `json:"average_monthly_income"`
	IncomeSources        []IncomeSource `json:"income_sources"`
}

type SpendingBehavior struct {
	TotalMoneyOut          float64                `json:"total_money_out"`
	AverageMonthlyExpenses float64                `json:"average_monthly_expenses"`
	TopSpendingCategories  []TopSpendingCategory  `json:"top_spending_categories"`
	HighTicketTransactions HighTicketTransactions `json:"high_ticket_transactions"`
}

type BalanceTrends struct {
	OpeningBalance        float64 `json:"opening_balance"`
	ClosingBalance        float64 `json:"closing_balance"`
	AverageMonthlyBalance float64 `json:"average_monthly_balance"`
	MinimumBalance        float64 `json:"minimum_balance"`
	OverdraftOccurred     bool    `json:"overdraft_occurred"`
}

type MonthlyVariability struct {
	IncomeStdDev   float64 `json:"income_std_dev"`
	ExpensesStdDev float64 `json:"expenses_std_dev"`
}

type IrregularActivity struct {
	Type    string `json:"type"`
	Month   string `json:"month"`
	Details string `json:"details"`
}

type CashFlowStability struct {
	NetCashFlow        float64             `json:"net_cash_flow"`
	PositiveCashFlow   bool                `json:"positive_cash_flow"`
	MonthlyVariability MonthlyVariability  `json:"monthly_variability"`
	IrregularActivity  []IrregularActivity `json:"irregular_activity"`
}

type LoanAffordabilityIndicators struct {
	EstimatedDisposableIncome float64 `json:"estimated_disposable_income"`
	MonthsOfExpenseCoverage   float64 `json:"months_of_expense_coverage"`
	SavingsBehavior           string  `json:"savings_behavior"`
}

type SuspiciousTransactionPattern struct {
	Pattern     string `json:"pattern"`
	Occurrences int    `json:"occurrences"`
	FlaggedAs   string `json:"flagged_as"`
}

type UseOfCredit struct {
	Present bool `json:"present"`
}

type RiskFlags struct {
	FrequentLowBalance            bool                           `json:"frequent_low_balance"`
	SuspiciousTransactionPatterns []SuspiciousTransactionPattern `json:"suspicious_transaction_patterns"`
	UseOfCredit                   UseOfCredit                    `json:"use_of_credit"`
}

type AnalysisResult struct {
	IncomeAnalysis              IncomeAnalysis              `json:"income_analysis"`
	SpendingBehavior            SpendingBehavior            `json:"spending_behavior"`
	BalanceTrends               BalanceTrends               `json:"balance_trends"`
	CashFlowStability           CashFlowStability           `json:"cash_flow_stability"`
	LoanAffordabilityIndicators LoanAffordabilityIndicators `json:"loan_affordability_indicators"`
	RiskFlags                   RiskFlags                   `json:"risk_flags"`
}

// ChatRequest is a follow-up question asked against an extracted statement.
type ChatRequest struct {
	Question string `json:"question"`
}

// ChatResponse is the model's answer to a ChatRequest.
type ChatResponse struct {
	Answer string `json:"answer"`
}
