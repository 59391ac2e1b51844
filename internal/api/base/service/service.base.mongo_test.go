package basesvc

import "testing"

func TestToUpdateData_MapThuongWrapVaoSet(t *testing.T) {
	update, err := ToUpdateData(map[string]interface{}{"first_name": "Max"})
	if err != nil {
		t.Fatalf("ToUpdateData trả về lỗi: %v", err)
	}
	if update.Set == nil || update.Set["first_name"] != "Max" {
		t.Errorf("Map thường phải được wrap vào $set, got: %+v", update)
	}
	if update.Unset != nil || update.Push != nil {
		t.Errorf("Các operator khác phải để trống, got: %+v", update)
	}
}

func TestToUpdateData_GiuNguyenUpdateData(t *testing.T) {
	original := &UpdateData{Set: map[string]interface{}{"a": 1}}
	update, err := ToUpdateData(original)
	if err != nil {
		t.Fatalf("ToUpdateData trả về lỗi: %v", err)
	}
	if update != original {
		t.Error("UpdateData truyền vào phải được trả về nguyên vẹn")
	}

	byValue := UpdateData{Unset: map[string]interface{}{"b": ""}}
	update, err = ToUpdateData(byValue)
	if err != nil {
		t.Fatalf("ToUpdateData trả về lỗi: %v", err)
	}
	if update.Unset == nil || len(update.Unset) != 1 {
		t.Errorf("UpdateData theo giá trị phải được giữ nguyên, got: %+v", update)
	}
}

func TestToUpdateData_MapCoOperator(t *testing.T) {
	update, err := ToUpdateData(map[string]interface{}{
		"$set":   map[string]interface{}{"token": "abc"},
		"$unset": map[string]interface{}{"old_field": ""},
	})
	if err != nil {
		t.Fatalf("ToUpdateData trả về lỗi: %v", err)
	}
	if update.Set["token"] != "abc" {
		t.Errorf("$set phải được giữ, got: %+v", update.Set)
	}
	if _, ok := update.Unset["old_field"]; !ok {
		t.Errorf("$unset phải được giữ, got: %+v", update.Unset)
	}
}
