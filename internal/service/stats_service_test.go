package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"pixflow/internal/model"
)

func TestGrowthPercent(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		previous string
		expected float64
	}{
		{name: "growth", current: "30", previous: "5", expected: 500.0},
		{name: "decline", current: "5", previous: "10", expected: -50.0},
		{name: "previous zero current positive", current: "10", previous: "0", expected: 100.0},
		{name: "both zero", current: "0", previous: "0", expected: 0.0},
		{name: "rounded to one decimal", current: "10", previous: "3", expected: 233.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, _ := decimal.NewFromString(tt.current)
			previous, _ := decimal.NewFromString(tt.previous)
			assert.Equal(t, tt.expected, growthPercent(current, previous))
		})
	}
}

func TestSumValues(t *testing.T) {
	charges := []model.Charge{
		{Value: "10.50"},
		{Value: "not-a-number"},
		{Value: "4.50"},
	}
	// Unparsable rows are skipped, not fatal.
	assert.True(t, sumValues(charges).Equal(decimal.NewFromFloat(15.0)))
}

func TestStatsService_Stats(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	today := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	windowStart := today.AddDate(0, 0, -6)
	windowEnd := today.AddDate(0, 0, 1)

	todayCharges := []model.Charge{
		{ID: 1, UserID: 1, Value: "10", Status: model.ChargeStatusApproved, CreatedAt: now.Add(-time.Hour)},
		{ID: 2, UserID: 1, Value: "20", Status: model.ChargeStatusPaid, CreatedAt: now.Add(-2 * time.Hour)},
	}
	yesterdayCharges := []model.Charge{
		{ID: 3, UserID: 1, Value: "5", Status: model.ChargeStatusPaid, CreatedAt: yesterday.Add(10 * time.Hour)},
	}
	windowCharges := append(append([]model.Charge{}, todayCharges...), yesterdayCharges...)

	mockChargeRepo := new(MockChargeRepository)
	mockChargeRepo.On("ListByOwnerStatusInRange", mock.Anything, uint(1), revenueStatuses, windowStart, windowEnd).Return(windowCharges, nil)
	mockChargeRepo.On("ListByOwnerStatusInRange", mock.Anything, uint(1), revenueStatuses, today, windowEnd).Return(todayCharges, nil)
	mockChargeRepo.On("ListByOwnerStatusInRange", mock.Anything, uint(1), revenueStatuses, yesterday, today).Return(yesterdayCharges, nil)

	service := NewStatsService(mockChargeRepo, nilCache)
	stats, err := service.Stats(context.Background(), 1, now)

	assert.NoError(t, err)
	assert.NotNil(t, stats)

	assert.Len(t, stats.RevenueByDay, 7)
	assert.Equal(t, "2025-03-09", stats.RevenueByDay[0].Date)
	assert.Equal(t, "2025-03-15", stats.RevenueByDay[6].Date)
	assert.Equal(t, "Sat", stats.RevenueByDay[6].DayName)
	assert.Equal(t, 30.0, stats.RevenueByDay[6].Revenue)
	assert.Equal(t, 5.0, stats.RevenueByDay[5].Revenue)
	assert.Equal(t, 0.0, stats.RevenueByDay[0].Revenue)

	assert.Equal(t, 35.0, stats.Total7Days)
	assert.Equal(t, 3, stats.Count7Days)
	assert.Equal(t, 11.67, stats.AverageTicket)

	assert.Equal(t, 30.0, stats.Today.Revenue)
	assert.Equal(t, 2, stats.Today.SalesCount)
	assert.Equal(t, 500.0, stats.Today.RevenueGrowthPercent)
	assert.Equal(t, 100.0, stats.Today.SalesGrowthPercent)

	assert.Equal(t, 5.0, stats.Yesterday.Revenue)
	assert.Equal(t, 1, stats.Yesterday.SalesCount)

	mockChargeRepo.AssertExpectations(t)
}

func TestStatsService_StatsEmptyWindow(t *testing.T) {
	now := time.Date(2025, 3, 15, 23, 59, 0, 0, time.UTC)

	mockChargeRepo := new(MockChargeRepository)
	mockChargeRepo.On("ListByOwnerStatusInRange", mock.Anything, uint(1), revenueStatuses, mock.Anything, mock.Anything).Return([]model.Charge{}, nil)

	service := NewStatsService(mockChargeRepo, nilCache)
	stats, err := service.Stats(context.Background(), 1, now)

	assert.NoError(t, err)
	assert.Equal(t, 0.0, stats.Total7Days)
	assert.Equal(t, 0, stats.Count7Days)
	// No division by zero on an empty ledger.
	assert.Equal(t, 0.0, stats.AverageTicket)
	assert.Equal(t, 0.0, stats.Today.RevenueGrowthPercent)
	assert.Equal(t, 0.0, stats.Today.SalesGrowthPercent)
}

func TestStatsService_ReportToday(t *testing.T) {
	now := time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC)
	today := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	approvedOnly := []model.ChargeStatus{model.ChargeStatusApproved}
	mockChargeRepo := new(MockChargeRepository)
	mockChargeRepo.On("ListByOwnerStatusInRange", mock.Anything, uint(1), approvedOnly, today, today.AddDate(0, 0, 1)).Return([]model.Charge{
		{ID: 1, Value: "100.25", Status: model.ChargeStatusApproved},
		{ID: 2, Value: "50", Status: model.ChargeStatusApproved},
	}, nil)

	service := NewStatsService(mockChargeRepo, nilCache)
	report, err := service.ReportToday(context.Background(), 1, now)

	assert.NoError(t, err)
	assert.Equal(t, 150.25, report.Total)
	assert.Equal(t, 2, report.Count)
	assert.Equal(t, "2025-03-15", report.Date)

	mockChargeRepo.AssertExpectations(t)
}
