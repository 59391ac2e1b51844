// Package basemodels chứa các model dùng chung cho tầng service/handler.
package basemodels

// PaginateResult chứa kết quả phân trang
type PaginateResult[T any] struct {
	Items     []T   `json:"items"`     // Danh sách các bản ghi của trang hiện tại
	Page      int64 `json:"page"`      // Trang hiện tại (bắt đầu từ 1)
	Limit     int64 `json:"limit"`     // Số bản ghi mỗi trang
	ItemCount int64 `json:"itemCount"` // Số bản ghi thực tế của trang hiện tại
	Total     int64 `json:"total"`     // Tổng số bản ghi
	TotalPage int64 `json:"totalPage"` // Tổng số trang
}
