package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stewardbooks/fund_accounting_app/internal/apperrors"
	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
)

// Tolerance is the cent-level slack allowed when comparing money totals.
var Tolerance = decimal.NewFromFloat(0.01)

// LineAmounts is the minimal debit/credit shape shared by ledger lines and
// recurring template lines.
type LineAmounts struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// ComputeTotals sums the debit and credit sides of a set of lines.
func ComputeTotals(lines []LineAmounts) (totalDebits, totalCredits decimal.Decimal) {
	totalDebits = decimal.Zero
	totalCredits = decimal.Zero
	for _, l := range lines {
		totalDebits = totalDebits.Add(l.Debit)
		totalCredits = totalCredits.Add(l.Credit)
	}
	return totalDebits, totalCredits
}

// ValidateLines enforces the per-line invariant: exactly one of debit/credit
// is positive, never both, never neither, and neither side is negative.
func ValidateLines(lines []LineAmounts) error {
	for i, l := range lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, i+1)
		}
		hasDebit := l.Debit.IsPositive()
		hasCredit := l.Credit.IsPositive()
		if hasDebit == hasCredit {
			return fmt.Errorf("%w: line %d must have exactly one of debit or credit", apperrors.ErrValidation, i+1)
		}
	}
	return nil
}

// ValidateBalanced checks that a proposed set of lines sums debits == credits
// within Tolerance. The error names both totals and the delta so the caller
// can report them verbatim; totals are never silently coerced.
func ValidateBalanced(lines []LineAmounts) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: an entry must have at least two lines", apperrors.ErrValidation)
	}
	if err := ValidateLines(lines); err != nil {
		return err
	}
	totalDebits, totalCredits := ComputeTotals(lines)
	delta := totalDebits.Sub(totalCredits)
	if delta.Abs().GreaterThanOrEqual(Tolerance) {
		return fmt.Errorf("%w: entry is out of balance: debits %s, credits %s, difference %s",
			apperrors.ErrValidation, totalDebits.StringFixed(2), totalCredits.StringFixed(2), delta.StringFixed(2))
	}
	return nil
}

// LedgerLineAmounts projects ledger lines onto the LineAmounts shape.
func LedgerLineAmounts(lines []domain.LedgerLine) []LineAmounts {
	out := make([]LineAmounts, len(lines))
	for i, l := range lines {
		out[i] = LineAmounts{Debit: l.Debit, Credit: l.Credit}
	}
	return out
}

// TemplateLineAmounts projects recurring template lines onto LineAmounts.
func TemplateLineAmounts(lines []domain.RecurringTemplateLine) []LineAmounts {
	out := make([]LineAmounts, len(lines))
	for i, l := range lines {
		out[i] = LineAmounts{Debit: l.Debit, Credit: l.Credit}
	}
	return out
}

// ClearedBalance computes the reconciliation balance of a set of lines for
// one account: debit - credit for Asset accounts, credit - debit for
// Liability accounts. The result is rounded to two decimals.
func ClearedBalance(lines []domain.LedgerLine, accountType domain.AccountType) (decimal.Decimal, error) {
	balance := decimal.Zero
	switch accountType {
	case domain.Asset:
		for _, l := range lines {
			balance = balance.Add(l.Debit).Sub(l.Credit)
		}
	case domain.Liability:
		for _, l := range lines {
			balance = balance.Add(l.Credit).Sub(l.Debit)
		}
	default:
		return decimal.Zero, fmt.Errorf("%w: account type %s cannot be reconciled", apperrors.ErrValidation, accountType)
	}
	return balance.Round(2), nil
}

// SignedBalance computes the conventional signed balance of an account from
// its debit/credit totals: debits increase Asset/Expense accounts, credits
// increase Liability/Equity/Income accounts.
func SignedBalance(accountType domain.AccountType, totalDebits, totalCredits decimal.Decimal) decimal.Decimal {
	switch accountType {
	case domain.Asset, domain.Expense:
		return totalDebits.Sub(totalCredits)
	default:
		return totalCredits.Sub(totalDebits)
	}
}
