package table

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// renames is the fixed ordered set of column renames applied after
// dots become underscores. The prefixes come from the upstream API's
// nested object names.
var renames = [][2]string{
	{"Driver_", "driver_"},
	{"Constructor_", "constructor_"},
	{"Circuit_", "circuit_"},
	{"Time_", "time_"},
	{"AverageSpeed_", "avgSpeed_"},
}

// FlattenName converts one nested column path into its flat form:
// "Driver.familyName" becomes "driver_familyName". The transform is
// idempotent.
func FlattenName(col string) string {
	col = strings.ReplaceAll(col, ".", "_")
	for _, r := range renames {
		col = strings.ReplaceAll(col, r[0], r[1])
	}
	return col
}

// Flatten returns a copy of t with every column name flattened. It is a
// rename-only transform: row content and order are untouched.
func Flatten(t *Table) *Table {
	out := New()
	for _, r := range t.Rows() {
		nr := NewRow()
		for _, col := range r.Columns() {
			v, _ := r.Get(col)
			nr.Set(FlattenName(col), v)
		}
		out.Append(nr)
	}
	return out
}

// Normalize converts one nested API item into a row with dot-joined
// column paths, the way the original export laid rows out. Nested
// objects recurse; list values are serialized into the cell as JSON.
// Go's JSON decoding does not preserve object key order, so keys are
// emitted in sorted order at each nesting level.
func Normalize(item map[string]any) *Row {
	r := NewRow()
	normalizeInto(r, "", item)
	return r
}

func normalizeInto(r *Row, prefix string, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := m[k].(type) {
		case map[string]any:
			normalizeInto(r, key, v)
		default:
			r.Set(key, formatValue(v))
		}
	}
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		// Lists and anything else keep their JSON form.
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
