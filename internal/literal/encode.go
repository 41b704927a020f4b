package literal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// EncodeJSON renders a literal value as JSON, keeping object field order.
// A non-empty indent produces indented output.
func EncodeJSON(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	if indent == "" {
		return buf.Bytes(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", indent); err != nil {
		return nil, fmt.Errorf("indent json: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// MarshalJSON lets an Object be embedded in encoding/json payloads.
func (o *Object) MarshalJSON() ([]byte, error) {
	return EncodeJSON(o, "")
}

func writeJSON(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		for i, f := range t.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(f.Key)
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, f.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case nil, string, bool, int, int64, float64:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		buf.Write(b)
	default:
		return fmt.Errorf("unsupported literal type %T", v)
	}
	return nil
}

var jsIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// EncodeJS renders a literal value as a CommonJS module
// (`module.exports = {...}`), the form the site framework loads its
// configuration from. Keys that are valid identifiers are left unquoted and
// strings use single quotes.
func EncodeJS(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("module.exports = ")
	if err := writeJS(&buf, v, 0); err != nil {
		return nil, err
	}
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

const jsIndent = "    "

func writeJS(buf *bytes.Buffer, v any, depth int) error {
	pad := strings.Repeat(jsIndent, depth)
	inner := pad + jsIndent
	switch t := v.(type) {
	case *Object:
		if t.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for _, f := range t.Fields {
			buf.WriteString(inner)
			if jsIdentifier.MatchString(f.Key) {
				buf.WriteString(f.Key)
			} else {
				buf.WriteString(jsString(f.Key))
			}
			buf.WriteString(": ")
			if err := writeJS(buf, f.Value, depth+1); err != nil {
				return err
			}
			buf.WriteString(",\n")
		}
		buf.WriteString(pad + "}")
	case []any:
		if len(t) == 0 {
			buf.WriteString("[]")
			return nil
		}
		if isFlatPair(t) {
			buf.WriteString("[" + jsString(t[0].(string)) + ", " + jsString(t[1].(string)) + "]")
			return nil
		}
		buf.WriteString("[\n")
		for _, item := range t {
			buf.WriteString(inner)
			if err := writeJS(buf, item, depth+1); err != nil {
				return err
			}
			buf.WriteString(",\n")
		}
		buf.WriteString(pad + "]")
	case string:
		buf.WriteString(jsString(t))
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case int:
		buf.WriteString(strconv.Itoa(t))
	case int64:
		buf.WriteString(strconv.FormatInt(t, 10))
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return fmt.Errorf("cannot encode non-finite number %v", t)
		}
		buf.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	default:
		return fmt.Errorf("unsupported literal type %T", v)
	}
	return nil
}

// isFlatPair matches the two-string form used for labelled sidebar links.
func isFlatPair(items []any) bool {
	if len(items) != 2 {
		return false
	}
	_, a := items[0].(string)
	_, b := items[1].(string)
	return a && b
}

var jsEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

func jsString(s string) string {
	return "'" + jsEscaper.Replace(s) + "'"
}
