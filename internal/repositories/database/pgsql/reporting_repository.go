package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/stewardbooks/fund_accounting_app/internal/core/ports/repositories"
	"github.com/stewardbooks/fund_accounting_app/internal/utils/accounting"
)

type ReportingRepository struct {
	pool *pgxpool.Pool
}

// newReportingRepository creates a new repository for report aggregations.
func newReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepositoryFacade {
	return &ReportingRepository{pool: pool}
}

var _ portsrepo.ReportingRepositoryFacade = (*ReportingRepository)(nil)

// AccountBalances computes per-account debit/credit totals as of a date,
// voided entries excluded. Accounts with no activity report zero totals.
func (r *ReportingRepository) AccountBalances(ctx context.Context, asOf time.Time) ([]domain.AccountBalance, error) {
	query := `
		SELECT a.account_id, a.account_number, a.name, a.account_type,
		       COALESCE(SUM(l.debit), 0) AS total_debits,
		       COALESCE(SUM(l.credit), 0) AS total_credits
		FROM accounts a
		LEFT JOIN ledger_lines l ON l.account_id = a.account_id
		LEFT JOIN journal_entries e ON e.entry_id = l.entry_id AND e.is_voided = FALSE AND e.entry_date <= $1
		WHERE a.is_active = TRUE
		GROUP BY a.account_id, a.account_number, a.name, a.account_type
		ORDER BY a.account_number;
	`
	rows, err := r.pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query account balances: %w", err)
	}
	defer rows.Close()

	balances := []domain.AccountBalance{}
	for rows.Next() {
		var b domain.AccountBalance
		if err := rows.Scan(&b.AccountID, &b.AccountNumber, &b.AccountName, &b.AccountType, &b.TotalDebits, &b.TotalCredits); err != nil {
			return nil, fmt.Errorf("failed to scan account balance row: %w", err)
		}
		b.Balance = accounting.SignedBalance(b.AccountType, b.TotalDebits, b.TotalCredits)
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account balance rows: %w", err)
	}

	return balances, nil
}

// FundBalances computes per-fund net positions as of a date. A fund's net
// assets equal its asset activity minus its liability activity, which is
// SUM(debit - credit) over lines posted to ASSET and LIABILITY accounts.
func (r *ReportingRepository) FundBalances(ctx context.Context, asOf time.Time) ([]domain.FundBalance, error) {
	query := `
		SELECT f.fund_id, f.name, f.is_restricted,
		       COALESCE(SUM(CASE WHEN a.account_type IN ('ASSET', 'LIABILITY') THEN l.debit - l.credit ELSE 0 END), 0) AS balance
		FROM funds f
		LEFT JOIN ledger_lines l ON l.fund_id = f.fund_id
		LEFT JOIN accounts a ON a.account_id = l.account_id
		LEFT JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE f.is_active = TRUE
		  AND (e.entry_id IS NULL OR (e.is_voided = FALSE AND e.entry_date <= $1))
		GROUP BY f.fund_id, f.name, f.is_restricted
		ORDER BY f.name;
	`
	rows, err := r.pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund balances: %w", err)
	}
	defer rows.Close()

	balances := []domain.FundBalance{}
	for rows.Next() {
		var b domain.FundBalance
		if err := rows.Scan(&b.FundID, &b.FundName, &b.IsRestricted, &b.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan fund balance row: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund balance rows: %w", err)
	}

	return balances, nil
}

// DonorGivingSummaries aggregates contributions per donor over a period.
// A donation's amount is the income credited by the donor's entries.
func (r *ReportingRepository) DonorGivingSummaries(ctx context.Context, from, to time.Time) ([]domain.DonorGivingSummary, error) {
	query := `
		SELECT d.donor_id, d.name,
		       COUNT(DISTINCT e.entry_id) AS entry_count,
		       COALESCE(SUM(l.credit), 0) AS total_given
		FROM donors d
		JOIN journal_entries e ON e.donor_id = d.donor_id AND e.is_voided = FALSE
		JOIN ledger_lines l ON l.entry_id = e.entry_id
		JOIN accounts a ON a.account_id = l.account_id AND a.account_type = 'INCOME'
		WHERE e.entry_date >= $1 AND e.entry_date <= $2
		GROUP BY d.donor_id, d.name
		ORDER BY d.name;
	`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query giving summaries: %w", err)
	}
	defer rows.Close()

	summaries := []domain.DonorGivingSummary{}
	for rows.Next() {
		s := domain.DonorGivingSummary{PeriodStart: from, PeriodEnd: to}
		if err := rows.Scan(&s.DonorID, &s.DonorName, &s.EntryCount, &s.TotalGiven); err != nil {
			return nil, fmt.Errorf("failed to scan giving summary row: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating giving summary rows: %w", err)
	}

	return summaries, nil
}

// ActualsByFundAccount sums signed activity per fund and account for one
// fiscal year: credits minus debits for INCOME accounts, debits minus credits
// for EXPENSE accounts.
func (r *ReportingRepository) ActualsByFundAccount(ctx context.Context, fiscalYear int) (map[string]decimal.Decimal, error) {
	query := `
		SELECT l.fund_id, l.account_id,
		       SUM(CASE WHEN a.account_type = 'INCOME' THEN l.credit - l.debit ELSE l.debit - l.credit END) AS actual
		FROM ledger_lines l
		JOIN accounts a ON a.account_id = l.account_id AND a.account_type IN ('INCOME', 'EXPENSE')
		JOIN journal_entries e ON e.entry_id = l.entry_id AND e.is_voided = FALSE
		WHERE EXTRACT(YEAR FROM e.entry_date) = $1
		GROUP BY l.fund_id, l.account_id;
	`
	rows, err := r.pool.Query(ctx, query, fiscalYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query actuals for %d: %w", fiscalYear, err)
	}
	defer rows.Close()

	actuals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var fundID, accountID string
		var actual decimal.Decimal
		if err := rows.Scan(&fundID, &accountID, &actual); err != nil {
			return nil, fmt.Errorf("failed to scan actuals row: %w", err)
		}
		actuals[portsrepo.FundAccountKey(fundID, accountID)] = actual
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actuals rows: %w", err)
	}

	return actuals, nil
}
