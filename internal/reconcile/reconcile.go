// Package reconcile verifies the internal arithmetic consistency of an
// extracted bank statement: every reported running balance must equal the
// previous balance plus that row's credit minus its debit, and the final
// balance must match the statement's closing balance.
package reconcile

import (
	"fmt"
	"math"

	"github.com/jerusan/FinSight/internal/domain"
)

// BalanceTolerance is the absolute tolerance for balance equality checks.
// Upstream extraction and source-document rounding introduce sub-cent noise,
// so exact float equality would flag clean statements. Contract value, not
// configurable.
const BalanceTolerance = 0.01

// FlagInconsistencies walks the statement's transaction ledger in order and
// returns one FlaggedTransaction for every point where the reported running
// balance cannot be reconciled, plus at most one final entry (with index ==
// len(transactions)) when the closing balance does not match.
//
// If either anchor (opening or closing balance) is missing there is no
// baseline to reconcile against and the result is empty; that is policy, not
// an error. The function is pure: it never fails and mutates nothing.
//
// Each row is checked against its immediate predecessor's *reported* balance,
// not the computed one, so a single bad row produces exactly one flag instead
// of cascading mismatches down the rest of the ledger.
func FlagInconsistencies(stmt domain.BankStatement) []domain.FlaggedTransaction {
	flagged := []domain.FlaggedTransaction{}

	if stmt.OpeningBalance == nil || stmt.ClosingBalance == nil {
		return flagged
	}

	prevBalance := *stmt.OpeningBalance

	for i, tx := range stmt.Transactions {
		netChange := tx.Credit - tx.Debit
		expectedBalance := prevBalance + netChange

		if !closeEnough(expectedBalance, tx.Balance) {
			txCopy := tx
			prevCopy := prevBalance
			currCopy := tx.Balance
			flagged = append(flagged, domain.FlaggedTransaction{
				Index: i,
				Issue: fmt.Sprintf(
					"Expected balance after credit %.2f and debit %.2f: %.2f, found: %.2f",
					tx.Credit, tx.Debit, expectedBalance, tx.Balance),
				Transaction:     &txCopy,
				PreviousBalance: &prevCopy,
				CurrentBalance:  &currCopy,
			})
		}

		prevBalance = tx.Balance
	}

	if !closeEnough(prevBalance, *stmt.ClosingBalance) {
		flagged = append(flagged, domain.FlaggedTransaction{
			Index: len(stmt.Transactions),
			Issue: fmt.Sprintf("Expected closing balance: %.2f, found: %.2f",
				*stmt.ClosingBalance, prevBalance),
		})
	}

	return flagged
}

// closeEnough reports whether a and b are equal within BalanceTolerance.
// The boundary is inclusive: a difference of exactly 0.01 still passes.
func closeEnough(a, b float64) bool {
	return math.Abs(a-b) <= BalanceTolerance
}
