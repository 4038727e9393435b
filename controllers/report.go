// controllers/report.go
package controllers

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"cutine-backend/models"
	"cutine-backend/store"
	"cutine-backend/utils"

	"github.com/gin-gonic/gin"
)

// ReportController handles all reporting functions
type ReportController struct {
	Records *store.RecordStore
	Now     func() time.Time
}

// AnalyticsSummary represents the spending and visit report
type AnalyticsSummary struct {
	CurrentMonthSpent   float64         `json:"currentMonthSpent"`
	MonthGrowth         float64         `json:"monthGrowth"`
	CurrentQuarterSpent float64         `json:"currentQuarterSpent"`
	QuarterGrowth       float64         `json:"quarterGrowth"`
	CurrentYearSpent    float64         `json:"currentYearSpent"`
	YearGrowth          float64         `json:"yearGrowth"`
	TopSalons           []SalonSummary  `json:"topSalons"`
	QuickStats          QuickStatistics `json:"quickStats"`
}

type SalonSummary struct {
	Name   string  `json:"name"`
	Visits int     `json:"visits"`
	Spent  float64 `json:"spent"`
}

type QuickStatistics struct {
	TotalCuts        int     `json:"totalCuts"`
	TotalSpent       float64 `json:"totalSpent"`
	PricedCuts       int     `json:"pricedCuts"`
	AvgCost          float64 `json:"avgCost"`
	AvgMonthlyVisits float64 `json:"avgMonthlyVisits"`
}

type datedRecord struct {
	models.CutRecord
	day time.Time
}

// GetReportAnalytics returns spending totals and salon statistics
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	now := time.Now()
	if rc.Now != nil {
		now = rc.Now()
	}
	records := rc.datedRecords()

	currentYear, currentMonth, _ := now.Date()
	firstOfMonth := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, time.UTC)
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)
	firstOfYear := time.Date(currentYear, 1, 1, 0, 0, 0, 0, time.UTC)
	lastOfYear := time.Date(currentYear, 12, 31, 0, 0, 0, 0, time.UTC)

	currentMonthSpent := rc.getSpent(records, firstOfMonth, lastOfMonth)
	lastMonthSpent := rc.getSpent(records, firstOfMonth.AddDate(0, -1, 0), firstOfMonth.AddDate(0, 0, -1))

	quarterStart := rc.getQuarterStart(firstOfMonth)
	currentQuarterSpent := rc.getSpent(records, quarterStart, rc.getQuarterEnd(quarterStart))
	lastQuarterStart := quarterStart.AddDate(0, -3, 0)
	lastQuarterSpent := rc.getSpent(records, lastQuarterStart, rc.getQuarterEnd(lastQuarterStart))

	currentYearSpent := rc.getSpent(records, firstOfYear, lastOfYear)
	lastYearSpent := rc.getSpent(records, firstOfYear.AddDate(-1, 0, 0), lastOfYear.AddDate(-1, 0, 0))

	summary := AnalyticsSummary{
		CurrentMonthSpent:   currentMonthSpent,
		MonthGrowth:         rc.calculateGrowthPercentage(currentMonthSpent, lastMonthSpent),
		CurrentQuarterSpent: currentQuarterSpent,
		QuarterGrowth:       rc.calculateGrowthPercentage(currentQuarterSpent, lastQuarterSpent),
		CurrentYearSpent:    currentYearSpent,
		YearGrowth:          rc.calculateGrowthPercentage(currentYearSpent, lastYearSpent),
		TopSalons:           rc.getTopSalons(records, 4),
		QuickStats:          rc.getQuickStatistics(records),
	}

	c.JSON(http.StatusOK, summary)
}

// Helper functions for reports

func (rc *ReportController) datedRecords() []datedRecord {
	summary := rc.Records.Summary()
	out := make([]datedRecord, 0, len(summary.Records))
	for _, r := range summary.Records {
		d, err := utils.ParseDate(r.Date)
		if err != nil {
			continue
		}
		out = append(out, datedRecord{CutRecord: r, day: d})
	}
	return out
}

// getSpent sums costs of records dated within [start, end].
func (rc *ReportController) getSpent(records []datedRecord, start, end time.Time) float64 {
	var total float64
	for _, r := range records {
		if r.Cost == nil || r.day.Before(start) || r.day.After(end) {
			continue
		}
		total += *r.Cost
	}
	return total
}

func (rc *ReportController) getQuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func (rc *ReportController) getQuarterEnd(date time.Time) time.Time {
	return rc.getQuarterStart(date).AddDate(0, 3, -1)
}

func (rc *ReportController) calculateGrowthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / previous) * 100
}

// getTopSalons ranks salons by visits, then by money spent.
func (rc *ReportController) getTopSalons(records []datedRecord, limit int) []SalonSummary {
	byName := map[string]*SalonSummary{}
	var order []string
	for _, r := range records {
		if r.SalonName == nil || strings.TrimSpace(*r.SalonName) == "" {
			continue
		}
		name := strings.TrimSpace(*r.SalonName)
		s, ok := byName[name]
		if !ok {
			s = &SalonSummary{Name: name}
			byName[name] = s
			order = append(order, name)
		}
		s.Visits++
		if r.Cost != nil {
			s.Spent += *r.Cost
		}
	}

	salons := make([]SalonSummary, 0, len(order))
	for _, name := range order {
		salons = append(salons, *byName[name])
	}
	sort.SliceStable(salons, func(i, j int) bool {
		if salons[i].Visits != salons[j].Visits {
			return salons[i].Visits > salons[j].Visits
		}
		return salons[i].Spent > salons[j].Spent
	})
	if len(salons) > limit {
		salons = salons[:limit]
	}
	return salons
}

func (rc *ReportController) getQuickStatistics(records []datedRecord) QuickStatistics {
	stats := QuickStatistics{TotalCuts: len(records)}
	months := map[string]int{}
	for _, r := range records {
		months[r.day.Format("2006-01")]++
		if r.Cost != nil {
			stats.PricedCuts++
			stats.TotalSpent += *r.Cost
		}
	}
	if stats.PricedCuts > 0 {
		stats.AvgCost = stats.TotalSpent / float64(stats.PricedCuts)
	}
	if len(months) > 0 {
		stats.AvgMonthlyVisits = float64(len(records)) / float64(len(months))
	}
	return stats
}
