package dashboard

import (
	"context"
	"time"

	"dongs-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service computes the dashboard aggregates for one organization.
type Service struct {
	DB *gorm.DB
}

// Stats is the dashboard payload.
type Stats struct {
	TotalDonations      int64                    `json:"total_donations"`
	TotalMonetaryValue  decimal.Decimal          `json:"total_monetary_value"`
	TotalBeneficiaries  int64                    `json:"total_beneficiaries"`
	ActiveBeneficiaries int64                    `json:"active_beneficiaries"`
	TotalDistributions  int64                    `json:"total_distributions"`
	PeopleHelped        int64                    `json:"people_helped"`
	DonationsByType     map[string]int64         `json:"donations_by_type"`
	DonationsByStatus   map[string]int64         `json:"donations_by_status"`
	MonthlySeries       []MonthlyActivity        `json:"monthly_series"`
}

// MonthlyActivity is one month of donation/distribution counts, keyed YYYY-MM.
type MonthlyActivity struct {
	Month         string `json:"month"`
	Donations     int64  `json:"donations"`
	Distributions int64  `json:"distributions"`
}

type bucketRow struct {
	Key   string
	Count int64
}

// Stats gathers counts, sums and the last-12-months activity series.
func (s *Service) Stats(ctx context.Context, orgID uuid.UUID) (*Stats, error) {
	out := &Stats{
		TotalMonetaryValue: decimal.Zero,
		DonationsByType:    map[string]int64{},
		DonationsByStatus:  map[string]int64{},
	}
	db := s.DB.WithContext(ctx)

	if err := db.Model(&domain.Donation{}).Where("organization_id = ?", orgID).Count(&out.TotalDonations).Error; err != nil {
		return nil, err
	}

	var totalValue decimal.NullDecimal
	if err := db.Model(&domain.Donation{}).
		Select("SUM(value)").
		Where("organization_id = ? AND donation_type = ?", orgID, domain.DonationMonetary).
		Scan(&totalValue).Error; err != nil {
		return nil, err
	}
	if totalValue.Valid {
		out.TotalMonetaryValue = totalValue.Decimal
	}

	if err := db.Model(&domain.Beneficiary{}).Where("organization_id = ?", orgID).Count(&out.TotalBeneficiaries).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Beneficiary{}).
		Where("organization_id = ? AND status = ?", orgID, domain.BeneficiaryActive).
		Count(&out.ActiveBeneficiaries).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Distribution{}).Where("organization_id = ?", orgID).Count(&out.TotalDistributions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Distribution{}).
		Distinct("beneficiary_id").
		Where("organization_id = ?", orgID).
		Count(&out.PeopleHelped).Error; err != nil {
		return nil, err
	}

	var byType []bucketRow
	if err := db.Model(&domain.Donation{}).
		Select("donation_type AS key, COUNT(*) AS count").
		Where("organization_id = ?", orgID).
		Group("donation_type").
		Scan(&byType).Error; err != nil {
		return nil, err
	}
	for _, r := range byType {
		out.DonationsByType[r.Key] = r.Count
	}

	var byStatus []bucketRow
	if err := db.Model(&domain.Donation{}).
		Select("status AS key, COUNT(*) AS count").
		Where("organization_id = ?", orgID).
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, r := range byStatus {
		out.DonationsByStatus[r.Key] = r.Count
	}

	series, err := s.monthlySeries(ctx, orgID)
	if err != nil {
		return nil, err
	}
	out.MonthlySeries = series

	return out, nil
}

// monthlySeries buckets the last 12 months in Go rather than SQL so the same
// query works on Postgres and the in-memory test database.
func (s *Service) monthlySeries(ctx context.Context, orgID uuid.UUID) ([]MonthlyActivity, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)

	donations := map[string]int64{}
	var donationDates []time.Time
	if err := s.DB.WithContext(ctx).Model(&domain.Donation{}).
		Where("organization_id = ? AND donation_date >= ?", orgID, start).
		Pluck("donation_date", &donationDates).Error; err != nil {
		return nil, err
	}
	for _, d := range donationDates {
		donations[d.Format("2006-01")]++
	}

	distributions := map[string]int64{}
	var distributionDates []time.Time
	if err := s.DB.WithContext(ctx).Model(&domain.Distribution{}).
		Where("organization_id = ? AND distribution_date >= ?", orgID, start).
		Pluck("distribution_date", &distributionDates).Error; err != nil {
		return nil, err
	}
	for _, d := range distributionDates {
		distributions[d.Format("2006-01")]++
	}

	series := make([]MonthlyActivity, 0, 12)
	for i := 0; i < 12; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		series = append(series, MonthlyActivity{
			Month:         month,
			Donations:     donations[month],
			Distributions: distributions[month],
		})
	}
	return series, nil
}
