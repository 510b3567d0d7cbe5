package normalize

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/jonwraymond/docregistry/frame"
)

// DefaultMaxRows is the row bound used when a non-positive one is given.
const DefaultMaxRows = 100

// NoData is the message returned for a nil value.
const NoData = "no data"

// TimeLayout is the string form of time cells.
const TimeLayout = "2006-01-02 15:04:05"

// Normalize converts v into a JSON-safe structure bounded by maxRows.
func Normalize(v any, maxRows int) any {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return normalize(v, maxRows)
}

func normalize(v any, maxRows int) any {
	if isNil(v) {
		return map[string]any{"message": NoData}
	}

	switch x := v.(type) {
	case map[string]any:
		if _, ok := x["error"]; ok {
			return sanitize(x)
		}
		return normalizeMap(x, maxRows)
	case frame.Table:
		return table(&x, maxRows)
	case *frame.Table:
		return table(x, maxRows)
	case []*frame.Table:
		items := make([]any, len(x))
		for i, t := range x {
			items[i] = t
		}
		return tableList(items, maxRows)
	case []frame.Table:
		items := make([]any, len(x))
		for i := range x {
			items[i] = &x[i]
		}
		return tableList(items, maxRows)
	case []map[string]any:
		return records(x, len(x), maxRows)
	case []any:
		return list(x, maxRows)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return sanitize(v)
		}
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return list(items, maxRows)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return sanitize(v)
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return normalize(m, maxRows)
	}
	return sanitize(v)
}

func normalizeMap(m map[string]any, maxRows int) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if isContainer(v) {
			out[k] = normalize(v, maxRows)
		} else {
			out[k] = sanitize(v)
		}
	}
	return out
}

func table(t *frame.Table, maxRows int) map[string]any {
	return records(t.Head(maxRows).Records(), t.Len(), maxRows)
}

// records renders up to maxRows of recs. total is the row count before any
// truncation.
func records(recs []map[string]any, total, maxRows int) map[string]any {
	if len(recs) > maxRows {
		recs = recs[:maxRows]
	}
	data := make([]any, len(recs))
	for i, r := range recs {
		data[i] = sanitize(r)
	}
	out := map[string]any{"data": data}
	if total > maxRows {
		out["warning"] = fmt.Sprintf("data truncated, showing the first %d of %d rows", maxRows, total)
		out["total_rows"] = total
	}
	return out
}

func list(items []any, maxRows int) map[string]any {
	if len(items) == 0 {
		return map[string]any{"data": []any{}}
	}
	if isTable(items[0]) {
		return tableList(items, maxRows)
	}
	data := make([]any, len(items))
	for i, it := range items {
		data[i] = element(it, maxRows)
	}
	return map[string]any{"data": data}
}

// element renders one list item. Tabular items and maps are bounded like
// top-level values; plain nested lists stay lists.
func element(v any, maxRows int) any {
	switch v.(type) {
	case frame.Table, *frame.Table, []frame.Table, []*frame.Table, []map[string]any, map[string]any:
		if isNil(v) {
			return nil
		}
		return normalize(v, maxRows)
	}
	return sanitize(v)
}

func tableList(items []any, maxRows int) map[string]any {
	shown := items
	if len(shown) > maxRows {
		shown = shown[:maxRows]
	}
	data := make([]any, len(shown))
	for i, it := range shown {
		data[i] = normalize(it, maxRows)
	}
	out := map[string]any{"data": data}
	if len(items) > maxRows {
		out["warning"] = fmt.Sprintf("showing the first %d of %d tables", maxRows, len(items))
	}
	return out
}

// sanitize deep-copies v replacing non-JSON leaves.
func sanitize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return x
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return x.Format(TimeLayout)
	case *time.Time:
		if x == nil {
			return nil
		}
		return sanitize(*x)
	case time.Duration:
		return x.String()
	case []byte:
		return string(x)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = sanitize(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = sanitize(e)
		}
		return out
	case frame.Table:
		return sanitize(x.Records())
	case *frame.Table:
		return sanitize(x.Records())
	case fmt.Stringer:
		if isNil(v) {
			return nil
		}
		return x.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return sanitize(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = sanitize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = sanitize(iter.Value().Interface())
		}
		return out
	case reflect.Float32, reflect.Float64:
		return finite(rv.Float())
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Struct:
		switch v.(type) {
		case json.Marshaler, encoding.TextMarshaler:
			return v
		}
		out := make(map[string]any, rv.NumField())
		structFields(out, rv)
		return out
	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return fmt.Sprint(v)
	}
	return v
}

// structFields copies the exported fields of rv into out under their json
// names. Embedded structs without a json name are flattened.
func structFields(out map[string]any, rv reflect.Value) {
	rt := rv.Type()
	for i := range rt.NumField() {
		f := rt.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		fv := rv.Field(i)

		if f.Anonymous && name == "" {
			ev := fv
			if ev.Kind() == reflect.Pointer {
				if ev.IsNil() {
					continue
				}
				ev = ev.Elem()
			}
			if ev.Kind() == reflect.Struct {
				structFields(out, ev)
				continue
			}
		}
		if !f.IsExported() || !fv.CanInterface() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if strings.Contains(opts, "omitempty") && isEmpty(fv) {
			continue
		}
		out[name] = sanitize(fv.Interface())
	}
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	case reflect.Struct:
		return false
	}
	return v.IsZero()
}

func finite(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func isTable(v any) bool {
	switch v.(type) {
	case frame.Table, *frame.Table:
		return true
	}
	return false
}

func isContainer(v any) bool {
	switch v.(type) {
	case frame.Table, *frame.Table, []frame.Table, []*frame.Table, []map[string]any, []any, map[string]any:
		return true
	case []byte:
		return false
	}
	if v == nil {
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array || k == reflect.Map
}

// isNil reports nil pointers and maps. Nil slices are empty lists.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
