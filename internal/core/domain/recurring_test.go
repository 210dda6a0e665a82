package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stewardbooks/fund_accounting_app/internal/core/domain"
)

func TestFrequency_IsValid(t *testing.T) {
	valid := []domain.Frequency{
		domain.Weekly, domain.Biweekly, domain.Monthly,
		domain.Quarterly, domain.Semiannually, domain.Yearly,
	}
	for _, f := range valid {
		assert.True(t, f.IsValid(), "%s should be valid", f)
	}

	assert.False(t, domain.Frequency("DAILY").IsValid())
	assert.False(t, domain.Frequency("").IsValid())
	assert.False(t, domain.Frequency("monthly").IsValid())
}

func TestFrequency_NextAfter(t *testing.T) {
	tests := []struct {
		name      string
		frequency domain.Frequency
		prev      time.Time
		want      time.Time
	}{
		{
			name:      "weekly adds seven days",
			frequency: domain.Weekly,
			prev:      time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
			want:      time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "biweekly adds fourteen days",
			frequency: domain.Biweekly,
			prev:      time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
			want:      time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "monthly keeps the day of month",
			frequency: domain.Monthly,
			prev:      time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
			want:      time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "monthly from January 31 normalizes into March",
			frequency: domain.Monthly,
			prev:      time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			want:      time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "quarterly adds three months",
			frequency: domain.Quarterly,
			prev:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			want:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "semiannually adds six months",
			frequency: domain.Semiannually,
			prev:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			want:      time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "yearly adds one year",
			frequency: domain.Yearly,
			prev:      time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
			want:      time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "unknown frequency returns prev unchanged",
			frequency: domain.Frequency("DAILY"),
			prev:      time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
			want:      time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.frequency.NextAfter(tt.prev)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Stepping from the scheduled date rather than the processing date keeps a
// delayed run from shifting the whole schedule.
func TestFrequency_NextAfterNoDrift(t *testing.T) {
	anchor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	next := anchor
	for i := 0; i < 12; i++ {
		next = domain.Monthly.NextAfter(next)
	}
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), next)
}
