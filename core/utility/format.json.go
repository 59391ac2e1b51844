package utility

import "encoding/json"

// P2Int64 chuyển đổi giá trị đã parse bằng json.Decoder (UseNumber) thành int64.
// Trả về 0 nếu giá trị không phải json.Number hoặc không parse được.
func P2Int64(input interface{}) int64 {
	switch v := input.(type) {
	case json.Number:
		result, err := v.Int64()
		if err != nil {
			return 0
		}
		return result
	case string:
		number := json.Number(v)
		result, err := number.Int64()
		if err != nil {
			return 0
		}
		return result
	default:
		return 0
	}
}
