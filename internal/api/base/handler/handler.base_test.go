package basehdl

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testModel struct {
	Name string `json:"name"`
}

func newTestHandler() *BaseHandler[testModel, testModel, testModel] {
	return NewBaseHandler[testModel, testModel, testModel](nil)
}

func TestNormalizeFilter_ChuyenDoiObjectID(t *testing.T) {
	h := newTestHandler()
	oid := primitive.NewObjectID()

	filter := h.normalizeFilter(map[string]interface{}{
		"userId": oid.Hex(),
		"name":   oid.Hex(), // không phải ID field, giữ nguyên string
	})

	if got, ok := filter["userId"].(primitive.ObjectID); !ok || got != oid {
		t.Errorf("Trường kết thúc bằng Id phải được chuyển thành ObjectID, got: %v", filter["userId"])
	}
	if _, ok := filter["name"].(string); !ok {
		t.Errorf("Trường thường phải giữ nguyên string, got: %T", filter["name"])
	}
}

func TestNormalizeFilter_ExtendedJSON(t *testing.T) {
	h := newTestHandler()
	oid := primitive.NewObjectID()

	filter := h.normalizeFilter(map[string]interface{}{
		"ref": map[string]interface{}{"$oid": oid.Hex()},
	})
	if got, ok := filter["ref"].(primitive.ObjectID); !ok || got != oid {
		t.Errorf("Format {\"$oid\": ...} phải được chuyển thành ObjectID, got: %v", filter["ref"])
	}

	// $oid không hợp lệ thì giữ nguyên giá trị gốc
	filter = h.normalizeFilter(map[string]interface{}{
		"ref": map[string]interface{}{"$oid": "abc"},
	})
	if _, ok := filter["ref"].(map[string]interface{}); !ok {
		t.Errorf("$oid không hợp lệ phải giữ nguyên, got: %T", filter["ref"])
	}
}

func TestNormalizeFilter_InOperator(t *testing.T) {
	h := newTestHandler()
	oid1 := primitive.NewObjectID()
	oid2 := primitive.NewObjectID()

	filter := h.normalizeFilter(map[string]interface{}{
		"customerId": map[string]interface{}{
			"$in": []interface{}{oid1.Hex(), oid2.Hex(), "không-phải-oid"},
		},
	})

	inner, ok := filter["customerId"].(map[string]interface{})
	if !ok {
		t.Fatalf("Filter $in phải là map, got: %T", filter["customerId"])
	}
	arr, ok := inner["$in"].([]interface{})
	if !ok || len(arr) != 3 {
		t.Fatalf("$in phải là mảng 3 phần tử, got: %v", inner["$in"])
	}
	if got, ok := arr[0].(primitive.ObjectID); !ok || got != oid1 {
		t.Errorf("Phần tử ObjectID hex trong $in phải được chuyển đổi, got: %v", arr[0])
	}
	if _, ok := arr[2].(string); !ok {
		t.Errorf("Phần tử không phải hex trong $in phải giữ nguyên, got: %T", arr[2])
	}
}

func TestValidateFilter_TruongBiCam(t *testing.T) {
	h := newTestHandler()

	for _, field := range []string{"password", "token", "tokens", "secret"} {
		err := h.validateFilter(map[string]interface{}{field: "x"})
		if err == nil {
			t.Errorf("Filter theo trường '%s' phải bị từ chối", field)
		}
	}

	if err := h.validateFilter(map[string]interface{}{"email": "a@b.com"}); err != nil {
		t.Errorf("Filter theo trường thường phải hợp lệ, got: %v", err)
	}
}

func TestValidateFilter_ToanTu(t *testing.T) {
	h := newTestHandler()

	err := h.validateFilter(map[string]interface{}{
		"age": map[string]interface{}{"$where": "1==1"},
	})
	if err == nil {
		t.Error("Toán tử $where phải bị từ chối")
	}

	err = h.validateFilter(map[string]interface{}{
		"age": map[string]interface{}{"$gte": 18},
	})
	if err != nil {
		t.Errorf("Toán tử $gte phải được phép, got: %v", err)
	}
}

func TestValidateFilter_QuaNhieuTruong(t *testing.T) {
	h := newTestHandler()

	filter := make(map[string]interface{})
	for i := 0; i < 11; i++ {
		filter[string(rune('a'+i))] = i
	}
	if err := h.validateFilter(filter); err == nil {
		t.Error("Filter quá 10 trường phải bị từ chối")
	}
}

func TestTransformCreateInputToModel(t *testing.T) {
	h := newTestHandler()
	input := testModel{Name: "Max"}
	model, err := h.transformCreateInputToModel(&input)
	if err != nil {
		t.Fatalf("transformCreateInputToModel trả về lỗi: %v", err)
	}
	if model.Name != "Max" {
		t.Errorf("Model.Name = %s, muốn Max", model.Name)
	}
}
