// internal/erp/record.go
package erp

// Record is one hydrated ERP record. Absent or null fields decode to
// false, relational fields to a [id, display_name] pair.
type Record map[string]interface{}

// Str returns the field as a string. False and null come back as "".
func (r Record) Str(field string) string {
	if v, ok := r[field].(string); ok {
		return v
	}
	return ""
}

// Float returns the field as a float64; anything non-numeric is 0.
func (r Record) Float(field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// Int returns the field as an int64.
func (r Record) Int(field string) int64 {
	return int64(r.Float(field))
}

// Bool returns the field as a bool.
func (r Record) Bool(field string) bool {
	v, _ := r[field].(bool)
	return v
}

// Rel decodes a many2one field as (id, display name). An unset relation
// is serialized as false, which yields (0, "", false).
func (r Record) Rel(field string) (int64, string, bool) {
	pair, ok := r[field].([]interface{})
	if !ok || len(pair) < 2 {
		return 0, "", false
	}
	id, _ := pair[0].(float64)
	name, _ := pair[1].(string)
	return int64(id), name, true
}

// RelName returns just the display name of a many2one field, or "" when unset.
func (r Record) RelName(field string) string {
	_, name, _ := r.Rel(field)
	return name
}

// RelID returns just the ID of a many2one field, or 0 when unset.
func (r Record) RelID(field string) int64 {
	id, _, _ := r.Rel(field)
	return id
}
