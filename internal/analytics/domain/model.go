package domain

import (
	"errors"
	"sort"
	"time"
)

const (
	DefaultDays = 90
	dateLayout  = "2006-01-02"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrProjectNotFound = errors.New("project not found")
)

// View is one anonymous page view of a public project.
type View struct {
	ProjectID   string
	ProjectSlug string
	UserAgent   string
	Referer     string
	IPAddress   string
}

// ProjectRef is the slice of a project the report needs.
type ProjectRef struct {
	ID          string
	Name        string
	Slug        string
	ClientLabel string
}

// DailyCount is one row of the views-per-day aggregate. Date is YYYY-MM-DD in UTC.
type DailyCount struct {
	ProjectID string
	Date      string
	Views     int
}

type DayViews struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
}

type ProjectAnalytics struct {
	ProjectID   string     `json:"project_id"`
	ProjectName string     `json:"project_name"`
	ProjectSlug string     `json:"project_slug"`
	ClientLabel string     `json:"client_label"`
	Views       []DayViews `json:"views"`
	TotalViews  int        `json:"total_views"`
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

type Report struct {
	Projects  []ProjectAnalytics `json:"projects"`
	DateRange DateRange          `json:"date_range"`
}

// WindowStart is midnight UTC of the first day in a days-long window ending
// on the UTC date of now.
func WindowStart(now time.Time, days int) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))
}

// BuildReport zero-fills a per-day series for every project and orders the
// projects by total views, highest first. Projects with equal totals keep
// their input order.
func BuildReport(projects []ProjectRef, counts []DailyCount, days int, now time.Time) Report {
	start := WindowStart(now, days)

	dates := make([]string, days)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format(dateLayout)
	}

	byProject := make(map[string]map[string]int, len(projects))
	for _, c := range counts {
		m, ok := byProject[c.ProjectID]
		if !ok {
			m = make(map[string]int)
			byProject[c.ProjectID] = m
		}
		m[c.Date] += c.Views
	}

	out := make([]ProjectAnalytics, 0, len(projects))
	for _, p := range projects {
		series := make([]DayViews, days)
		total := 0
		for i, date := range dates {
			v := byProject[p.ID][date]
			series[i] = DayViews{Date: date, Views: v}
			total += v
		}
		out = append(out, ProjectAnalytics{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			ProjectSlug: p.Slug,
			ClientLabel: p.ClientLabel,
			Views:       series,
			TotalViews:  total,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalViews > out[j].TotalViews
	})

	return Report{
		Projects: out,
		DateRange: DateRange{
			Start: dates[0],
			End:   dates[days-1],
			Days:  days,
		},
	}
}
