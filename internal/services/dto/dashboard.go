package dto

// DashboardRequest - фильтры дашборда. Диапазон учитывается, только если заданы обе даты
type DashboardRequest struct {
	StartDate  string   `form:"start_date" json:"start_date"`
	EndDate    string   `form:"end_date" json:"end_date"`
	Function   string   `form:"function" json:"function" validate:"omitempty,is-function"`
	Industries []string `form:"industry[]" json:"industries"`
}
