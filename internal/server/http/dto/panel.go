package dto

// TableResponse is one entry of the occupancy projection.
type TableResponse struct {
	Number   string `json:"number"`
	Occupied bool   `json:"occupied"`
	OrderID  string `json:"order_id,omitempty"`
}

// StatsResponse is the panel dashboard summary.
type StatsResponse struct {
	ActiveOrders   int     `json:"active_orders"`
	PendingOrders  int     `json:"pending_orders"`
	TodayOrders    int     `json:"today_orders"`
	TodaySales     float64 `json:"today_sales"`
	OccupiedTables int     `json:"occupied_tables"`
	TableCount     int     `json:"table_count"`
}
