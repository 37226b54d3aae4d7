package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pixflow/internal/cache"
	"pixflow/internal/model"
	"pixflow/internal/repository"
)

const (
	statsWindowDays = 7
	statsCacheTTL   = time.Minute
	statsDateLayout = "2006-01-02"
)

// revenueStatuses are the statuses the dashboard counts as revenue. The
// narrower report-today endpoint counts only approved.
var revenueStatuses = []model.ChargeStatus{model.ChargeStatusApproved, model.ChargeStatusPaid}

// DayRevenue is one dashboard bar: a calendar day and its summed revenue.
type DayRevenue struct {
	Date    string  `json:"date"`
	DayName string  `json:"day_name"`
	Revenue float64 `json:"revenue"`
}

// TodaySummary carries today's totals plus day-over-day growth.
type TodaySummary struct {
	Revenue              float64 `json:"revenue"`
	SalesCount           int     `json:"sales_count"`
	RevenueGrowthPercent float64 `json:"revenue_growth_percent"`
	SalesGrowthPercent   float64 `json:"sales_growth_percent"`
}

// YesterdaySummary carries yesterday's totals.
type YesterdaySummary struct {
	Revenue    float64 `json:"revenue"`
	SalesCount int     `json:"sales_count"`
}

// DashboardStats is the full dashboard payload.
type DashboardStats struct {
	RevenueByDay  []DayRevenue     `json:"revenue_by_day"`
	Total7Days    float64          `json:"total_7days"`
	Count7Days    int              `json:"count_7days"`
	AverageTicket float64          `json:"average_ticket"`
	Today         TodaySummary     `json:"today"`
	Yesterday     YesterdaySummary `json:"yesterday"`
}

// TodayReport is the narrower approved-only report for the current day.
type TodayReport struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
	Date  string  `json:"date"`
}

// StatsService derives day-bucketed revenue statistics from the charge ledger.
type StatsService interface {
	Stats(ctx context.Context, ownerID uint, now time.Time) (*DashboardStats, error)
	ReportToday(ctx context.Context, ownerID uint, now time.Time) (*TodayReport, error)
}

type statsService struct {
	chargeRepo repository.ChargeRepository
	cache      *cache.Client
}

// NewStatsService creates a new stats service.
func NewStatsService(chargeRepo repository.ChargeRepository, cache *cache.Client) StatsService {
	return &statsService{chargeRepo: chargeRepo, cache: cache}
}

func statsCacheKey(ownerID uint) string {
	return fmt.Sprintf("dashboard:stats:%d", ownerID)
}

// truncateToUTCDay returns the UTC day boundary containing t.
func truncateToUTCDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// sumValues adds up the parseable charge values. Unparsable values are
// skipped: rows may predate create-time validation.
func sumValues(charges []model.Charge) decimal.Decimal {
	total := decimal.Zero
	for _, c := range charges {
		if v, err := decimal.NewFromString(c.Value); err == nil {
			total = total.Add(v)
		}
	}
	return total
}

// growthPercent computes day-over-day growth rounded to one decimal. By
// convention growth is 100% when previous is zero and current positive, and
// 0% when both are zero.
func growthPercent(current, previous decimal.Decimal) float64 {
	if previous.IsPositive() {
		return current.Sub(previous).
			Div(previous).
			Mul(decimal.NewFromInt(100)).
			Round(1).
			InexactFloat64()
	}
	if current.IsPositive() {
		return 100.0
	}
	return 0.0
}

// Stats builds the 7-day dashboard for the owner. The window is the seven
// UTC calendar days ending today, statuses approved and paid.
func (s *statsService) Stats(ctx context.Context, ownerID uint, now time.Time) (*DashboardStats, error) {
	key := statsCacheKey(ownerID)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached DashboardStats
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	today := truncateToUTCDay(now)
	windowStart := today.AddDate(0, 0, -(statsWindowDays - 1))
	windowEnd := today.AddDate(0, 0, 1)

	window, err := s.chargeRepo.ListByOwnerStatusInRange(ctx, ownerID, revenueStatuses, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("list window charges: %w", err)
	}

	buckets := make(map[string]decimal.Decimal, statsWindowDays)
	days := make([]time.Time, 0, statsWindowDays)
	for i := 0; i < statsWindowDays; i++ {
		day := today.AddDate(0, 0, -(statsWindowDays-1)+i)
		days = append(days, day)
		buckets[day.Format(statsDateLayout)] = decimal.Zero
	}

	for _, c := range window {
		dayKey := c.CreatedAt.UTC().Format(statsDateLayout)
		sum, ok := buckets[dayKey]
		if !ok {
			continue
		}
		if v, err := decimal.NewFromString(c.Value); err == nil {
			buckets[dayKey] = sum.Add(v)
		}
	}

	total := decimal.Zero
	revenueByDay := make([]DayRevenue, 0, statsWindowDays)
	for _, day := range days {
		sum := buckets[day.Format(statsDateLayout)]
		total = total.Add(sum)
		revenueByDay = append(revenueByDay, DayRevenue{
			Date:    day.Format(statsDateLayout),
			DayName: day.Format("Mon"),
			Revenue: sum.Round(2).InexactFloat64(),
		})
	}

	count := len(window)
	averageTicket := 0.0
	if count > 0 {
		averageTicket = total.DivRound(decimal.NewFromInt(int64(count)), 2).InexactFloat64()
	}

	todayCharges, err := s.chargeRepo.ListByOwnerStatusInRange(ctx, ownerID, revenueStatuses, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list today charges: %w", err)
	}
	yesterdayCharges, err := s.chargeRepo.ListByOwnerStatusInRange(ctx, ownerID, revenueStatuses, today.AddDate(0, 0, -1), today)
	if err != nil {
		return nil, fmt.Errorf("list yesterday charges: %w", err)
	}

	totalToday := sumValues(todayCharges)
	totalYesterday := sumValues(yesterdayCharges)
	countToday := decimal.NewFromInt(int64(len(todayCharges)))
	countYesterday := decimal.NewFromInt(int64(len(yesterdayCharges)))

	stats := &DashboardStats{
		RevenueByDay:  revenueByDay,
		Total7Days:    total.Round(2).InexactFloat64(),
		Count7Days:    count,
		AverageTicket: averageTicket,
		Today: TodaySummary{
			Revenue:              totalToday.Round(2).InexactFloat64(),
			SalesCount:           len(todayCharges),
			RevenueGrowthPercent: growthPercent(totalToday, totalYesterday),
			SalesGrowthPercent:   growthPercent(countToday, countYesterday),
		},
		Yesterday: YesterdaySummary{
			Revenue:    totalYesterday.Round(2).InexactFloat64(),
			SalesCount: len(yesterdayCharges),
		},
	}

	if payload, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, key, payload, statsCacheTTL)
	}

	return stats, nil
}

// ReportToday totals today's approved charges only.
func (s *statsService) ReportToday(ctx context.Context, ownerID uint, now time.Time) (*TodayReport, error) {
	today := truncateToUTCDay(now)

	charges, err := s.chargeRepo.ListByOwnerStatusInRange(
		ctx,
		ownerID,
		[]model.ChargeStatus{model.ChargeStatusApproved},
		today,
		today.AddDate(0, 0, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("list approved charges: %w", err)
	}

	return &TodayReport{
		Total: sumValues(charges).Round(2).InexactFloat64(),
		Count: len(charges),
		Date:  today.Format(statsDateLayout),
	}, nil
}
