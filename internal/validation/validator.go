package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"net/mail"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AdamDragMarqo/stock-mate/internal/logging"
	"github.com/AdamDragMarqo/stock-mate/internal/schema"
)

// Result carries the validity flag and, when invalid, the first violated
// constraint. Malformed distinguishes a payload that never parsed from one
// that parsed but broke a contract. It is always a returned value, never a
// thrown error.
type Result struct {
	Valid      bool
	Malformed  bool
	Diagnostic string
}

func ok() Result { return Result{Valid: true} }

func invalid(format string, args ...any) Result {
	return Result{Valid: false, Diagnostic: fmt.Sprintf(format, args...)}
}

// Validate parses payload and checks it against s. Checking stops at the
// first violation; the diagnostic names that one constraint. Array fields
// get a second pass: each element is checked independently against the
// element contract, and both passes must succeed.
func Validate(payload []byte, s schema.Schema) Result {
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		logging.LogDebug("payload did not parse", logrus.Fields{"schema": s.Name})
		return Result{Valid: false, Malformed: true, Diagnostic: "malformed payload"}
	}
	res := checkObject(doc, s, "")
	if res.Valid {
		logging.LogDebug("payload valid", logrus.Fields{"schema": s.Name})
	} else {
		logging.LogInfo("payload invalid", logrus.Fields{"schema": s.Name, "diagnostic": res.Diagnostic})
	}
	return res
}

func checkObject(doc map[string]any, s schema.Schema, path string) Result {
	for _, f := range s.Fields {
		raw, present := doc[f.Name]
		name := path + f.Name
		if !present || raw == nil {
			if f.Required {
				return invalid("%s is required", name)
			}
			continue
		}
		if res := checkField(raw, f, name); !res.Valid {
			return res
		}
	}
	return ok()
}

func checkField(raw any, f schema.Field, name string) Result {
	switch f.Type {
	case schema.String:
		v, isStr := raw.(string)
		if !isStr {
			return invalid("%s must be a string", name)
		}
		if f.Required && v == "" {
			return invalid("%s must not be empty", name)
		}
		return checkFormat(v, f.Format, name)

	case schema.Integer:
		v, isNum := raw.(float64)
		if !isNum || v != math.Trunc(v) {
			return invalid("%s must be an integer", name)
		}
		if f.MinValue != nil && int64(v) < *f.MinValue {
			return invalid("%s must be at least %d", name, *f.MinValue)
		}
		return ok()

	case schema.Array:
		items, isArr := raw.([]any)
		if !isArr {
			return invalid("%s must be an array", name)
		}
		if f.Required && len(items) == 0 {
			return invalid("%s must not be empty", name)
		}
		if f.Elem == nil {
			return ok()
		}
		return checkElements(items, *f.Elem, name)
	}
	return ok()
}

// checkElements is the secondary pass over a nested collection. Elements
// are checked in order and the first violation wins, same as the top pass.
func checkElements(items []any, elem schema.Schema, name string) Result {
	for i, it := range items {
		obj, isObj := it.(map[string]any)
		if !isObj {
			return invalid("%s[%d] must be an object", name, i)
		}
		if res := checkObject(obj, elem, fmt.Sprintf("%s[%d].", name, i)); !res.Valid {
			return res
		}
	}
	return ok()
}

func checkFormat(v string, format schema.Format, name string) Result {
	if v == "" {
		return ok()
	}
	switch format {
	case schema.FormatEmail:
		if _, err := mail.ParseAddress(v); err != nil {
			return invalid("%s must be a valid email address", name)
		}
	case schema.FormatDate:
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return invalid("%s must be a date in YYYY-MM-DD format", name)
		}
	}
	return ok()
}
