package schema

// FieldType is the structural type a payload field must have.
type FieldType int

const (
	String FieldType = iota
	Integer
	Array
)

// Format names an extra check applied to string fields.
type Format string

const (
	FormatNone  Format = ""
	FormatEmail Format = "email"
	FormatDate  Format = "date"
)

// Field is one constraint line of a schema: presence, type, range, format.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	// MinValue applies to Integer fields only.
	MinValue *int64
	// Format applies to String fields only.
	Format Format
	// Elem is the contract each element of an Array field must satisfy.
	// Elements get their own validation pass, independent of the parent's.
	Elem *Schema
}

// Schema is the structural contract a payload must satisfy for one event
// type. Schemas are immutable after registration.
type Schema struct {
	Name   string
	Fields []Field
}

func atLeast(v int64) *int64 { return &v }
