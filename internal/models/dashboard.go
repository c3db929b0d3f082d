package models

// StatTotals aggregates a whole month of marks. Monthly percentages are
// normalized by student-days (students x calendar days) so the three rates
// can never sum past 100.
type StatTotals struct {
	TotalStudents int     `json:"totalStudents"`
	TotalSections int     `json:"totalSections"`
	TotalPresent  int     `json:"totalPresent"`
	TotalLate     int     `json:"totalLate"`
	TotalAbsent   int     `json:"totalAbsent"`
	PresentPct    float64 `json:"presentPct"`
	LatePct       float64 `json:"latePct"`
	AbsentPct     float64 `json:"absentPct"`
}

// DailyStat carries one calendar day of counts for charting. Percentages
// are relative to the (section-filtered) student count, full precision;
// rounding is the consumer's business.
type DailyStat struct {
	Date       string  `json:"date"`
	Present    int     `json:"present"`
	Late       int     `json:"late"`
	Absent     int     `json:"absent"`
	PresentPct float64 `json:"presentPct"`
	LatePct    float64 `json:"latePct"`
	AbsentPct  float64 `json:"absentPct"`
}

// StatsReport is the dashboard payload: month totals plus a per-day series
// covering every calendar day of the month, zero-filled where no marks exist.
type StatsReport struct {
	Stats       StatTotals  `json:"stats"`
	DailySeries []DailyStat `json:"dailySeries"`
}

// DayStatusCount is the raw per-day aggregation row produced by the stats
// repository; only days that actually have marks appear.
type DayStatusCount struct {
	Date    string `db:"date"`
	Present int    `db:"present_count"`
	Late    int    `db:"late_count"`
	Absent  int    `db:"absent_count"`
}
