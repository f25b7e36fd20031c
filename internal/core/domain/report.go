package domain

// DashboardSummary backs the ops dashboard header cards.
type DashboardSummary struct {
	TotalCustomers      int   `json:"total_customers"`
	TotalJobs           int   `json:"total_jobs"`
	ShipmentsInTransit  int   `json:"shipments_in_transit"`
	RecentRevenue30Days Money `json:"recent_revenue_30d"`
}

// ChartPoint is one day of the recent-orders chart.
type ChartPoint struct {
	Date      string `json:"date"`
	ShortDate string `json:"short_date"`
	Jobs      int    `json:"jobs"`
}

// OrderStats are a customer's order counters.
type OrderStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// DriverEarnings is the driver's pay overview.
type DriverEarnings struct {
	TotalEarnings     Money         `json:"total_earnings"`
	CompletedJobs     int           `json:"completed_jobs"`
	PendingPayment    Money         `json:"pending_payment"`
	ThisWeekEarnings  Money         `json:"this_week_earnings"`
	ThisMonthEarnings Money         `json:"this_month_earnings"`
	RecentJobs        []EarningItem `json:"recent_jobs"`
}

// EarningItem is the pay for one finished job. Status is paid or pending.
type EarningItem struct {
	JobNumber   int64  `json:"job_number"`
	Date        string `json:"date"`
	Amount      Money  `json:"amount"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// DriverStats are a driver's performance counters.
type DriverStats struct {
	TotalDeliveries  int         `json:"total_deliveries"`
	OnTimePercentage float64     `json:"on_time_percentage"`
	AverageRating    float64     `json:"average_rating"`
	TotalEarnings    Money       `json:"total_earnings"`
	ThisWeek         PeriodStats `json:"this_week"`
	ThisMonth        PeriodStats `json:"this_month"`
}

type PeriodStats struct {
	Deliveries int   `json:"deliveries"`
	Earnings   Money `json:"earnings"`
}
