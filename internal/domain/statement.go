package domain

// Transaction represents one statement line as extracted from the source PDF.
// Credit and Debit are normalized at the extraction boundary: a missing or
// null value becomes 0, never an error. Balance is the running balance the
// statement itself reports after this transaction; the reconciliation engine
// checks other values against it rather than recomputing it unbounded.
type Transaction struct {
	Date        string  `json:"date"` // opaque label, best-effort ISO normalized
	Description string  `json:"description"`
	Credit      float64 `json:"credit"` // money in, >= 0
	Debit       float64 `json:"debit"`  // money out, >= 0
	Balance     float64 `json:"balance"`
}

// BankStatement is the canonical statement record produced by the extraction
// adapter. It is a value object: constructed once, consumed read-only. Any
// field may be missing from extraction output, so monetary anchors and the
// currency are pointers.
type BankStatement struct {
	Filename       string        `json:"filename"`
	AccountNumber  string        `json:"account_number"`
	PeriodStart    string        `json:"period_start"`
	PeriodEnd      string        `json:"period_end"`
	OpeningBalance *float64      `json:"opening_balance"`
	ClosingBalance *float64      `json:"closing_balance"`
	MoneyIn        *float64      `json:"money_in"`
	MoneyOut       *float64      `json:"money_out"`
	Currency       *string       `json:"currency"`
	Transactions   []Transaction `json:"transactions"`
}

// FlaggedTransaction describes exactly one point where the running balance
// could not be reconciled. Index is the position of the failing transaction,
// or len(Transactions) when the closing-balance check itself failed; in that
// case Transaction, PreviousBalance and CurrentBalance are nil.
type FlaggedTransaction struct {
	Index           int          `json:"index"`
	Issue           string       `json:"issue"`
	Transaction     *Transaction `json:"transaction,omitempty"`
	PreviousBalance *float64     `json:"previous_balance,omitempty"`
	CurrentBalance  *float64     `json:"current_balance,omitempty"`
}

// AnalysisResponse is the upload result handed back to the HTTP layer: the
// extracted statement plus every reconciliation discrepancy found in it.
type AnalysisResponse struct {
	Summary BankStatement        `json:"summary"`
	Flagged []FlaggedTransaction `json:"flagged"`
}

// FinalizedStatementRequest carries a user-reviewed statement back for the
// financial-health analysis step.
type FinalizedStatementRequest struct {
	Summary               BankStatement `json:"summary"`
	FinalizedTransactions []Transaction `json:"finalizedTransactions"`
}
