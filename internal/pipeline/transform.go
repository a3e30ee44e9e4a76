package pipeline

import (
	"fmt"
	"strings"

	"github.com/jerusan/FinSight/internal/domain"
)

// transformModelOutputToStatement converts raw model output into a canonical
// BankStatement. Missing credit/debit values are normalized to 0 here, once,
// at the boundary; the reconciliation engine never sees nulls for them.
// Monetary anchors (opening/closing balance) and totals stay nullable.
func transformModelOutputToStatement(rawOutput map[string]interface{}) (*domain.BankStatement, error) {
	accountNumber, err := getStringField(rawOutput, "account_number", false)
	if err != nil {
		return nil, fmt.Errorf("transformModelOutputToStatement: %w", err)
	}
	periodStart, err := getStringField(rawOutput, "period_start", false)
	if err != nil {
		return nil, fmt.Errorf("transformModelOutputToStatement: %w", err)
	}
	periodEnd, err := getStringField(rawOutput, "period_end", false)
	if err != nil {
		return nil, fmt.Errorf("transformModelOutputToStatement: %w", err)
	}

	openingBalance, err := getOptionalFloat64Field(rawOutput, "opening_balance")
	if err != nil {
		return nil, fmt.Errorf("transformModelOutputToStatement: %w", err)
	}
	closingBalance, err := getOptionalFloat64Field(rawOutput, "closing_balance")
	if err != nil {
		return nil, fmt.Errorf("transformModelOutputToStatement: %w", err)
	}
	moneyIn, err := getOptionalFloat64Field(rawOutput, "money_in")
	if err != nil {
		return nil, fmt.Errorf("transformModelOutputToStatement: %w", err)
	}
	moneyOut, err := getOptionalFloat64Field(rawOutput, "money_out")
	if err != nil {
		return nil, fmt.Errorf("transformModelOutputToStatement: %w", err)
	}
	currency, err := getOptionalStringField(rawOutput, "currency")
	if err != nil {
		return nil, fmt.Errorf("transformModelOutputToStatement: %w", err)
	}

	stmt := &domain.BankStatement{
		AccountNumber:  accountNumber,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		OpeningBalance: openingBalance,
		ClosingBalance: closingBalance,
		MoneyIn:        moneyIn,
		MoneyOut:       moneyOut,
		Currency:       currency,
		Transactions:   []domain.Transaction{},
	}

	txAny, ok := rawOutput["transactions"]
	if !ok || txAny == nil {
		// No transactions key at all: treat as an empty ledger rather than a
		// failure; the reconciliation engine handles empty sequences.
		return stmt, nil
	}

	txSlice, ok := txAny.([]interface{})
	if !ok {
		return nil, fmt.Errorf("transformModelOutputToStatement: 'transactions' is %T, want []interface{}", txAny)
	}

	stmt.Transactions = make([]domain.Transaction, 0, len(txSlice))

	for i, item := range txSlice {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("transformModelOutputToStatement: element %d is %T, want map[string]interface{}", i, item)
		}

		date, err := getStringField(obj, "date", false)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		desc, err := getStringField(obj, "description", false)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}

		// Credit and debit are independently optional: null or absent means 0.
		credit, err := getOptionalFloat64Field(obj, "credit")
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		debit, err := getOptionalFloat64Field(obj, "debit")
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}

		balance, err := getFloat64Field(obj, "balance", true)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}

		tx := domain.Transaction{
			Date:        date,
			Description: desc,
			Balance:     balance,
		}
		if credit != nil {
			tx.Credit = *credit
		}
		if debit != nil {
			tx.Debit = *debit
		}

		stmt.Transactions = append(stmt.Transactions, tx)
	}

	return stmt, nil
}

func getStringField(m map[string]interface{}, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("missing required field %q", key)
		}
		return "", nil
	}
	switch val := v.(type) {
	case string:
		if required && strings.TrimSpace(val) == "" {
			return "", fmt.Errorf("required field %q is empty", key)
		}
		return val, nil
	default:
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
}

func getOptionalStringField(m map[string]interface{}, key string) (*string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil, nil
		}
		return &s, nil
	default:
		return nil, fmt.Errorf("field %q has type %T, want string or null", key, v)
	}
}

func getFloat64Field(m map[string]interface{}, key string, required bool) (float64, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return 0, fmt.Errorf("missing required field %q", key)
		}
		return 0, nil
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int: // unlikely from encoding/json, but harmless to support
		return float64(val), nil
	default:
		return 0, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}

func getOptionalFloat64Field(m map[string]interface{}, key string) (*float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch val := v.(type) {
	case float64:
		f := val
		return &f, nil
	case int:
		f := float64(val)
		return &f, nil
	default:
		return nil, fmt.Errorf("field %q has type %T, want number or null", key, v)
	}
}
