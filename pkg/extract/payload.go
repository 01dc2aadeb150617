package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// payloadSelector identifies the Next.js data island on fund pages.
const payloadSelector = `script#__NEXT_DATA__[type="application/json"]`

// Payload is a decoded JSON data island: nested maps, slices and scalars.
type Payload map[string]any

// LocatePayload finds and decodes the embedded __NEXT_DATA__ payload.
// A missing island reports false with a nil error; a malformed one reports
// false with the decode error so the caller can surface it.
func LocatePayload(doc *goquery.Document) (Payload, bool, error) {
	if doc == nil {
		return nil, false, nil
	}
	script := doc.Find(payloadSelector).First()
	if script.Length() == 0 {
		return nil, false, nil
	}
	body := strings.TrimSpace(script.Text())
	if body == "" {
		return nil, false, nil
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return nil, false, fmt.Errorf("decode __NEXT_DATA__: %w", err)
	}
	if data == nil {
		return nil, false, nil
	}
	return Payload(data), true, nil
}

// lookup walks a dotted path through nested maps.
func (p Payload) lookup(path string) (any, bool) {
	var cur any = map[string]any(p)
	for key := range strings.SplitSeq(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// firstValue returns the first non-empty value among paths, in order.
func (p Payload) firstValue(paths ...string) (any, bool) {
	for _, path := range paths {
		if v, ok := p.lookup(path); ok && !isEmpty(v) {
			return v, true
		}
	}
	return nil, false
}

// firstMap returns the first non-empty map among paths, in order.
func (p Payload) firstMap(paths ...string) (Payload, bool) {
	for _, path := range paths {
		v, ok := p.lookup(path)
		if !ok {
			continue
		}
		if m, ok := v.(map[string]any); ok && len(m) > 0 {
			return Payload(m), true
		}
	}
	return nil, false
}

// isEmpty reports whether a decoded JSON value carries nothing usable.
// Numeric zero and false are values.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

// scalarText renders a JSON scalar as text for the normalizer.
// Maps, slices and booleans yield false.
func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return formatFloat(t), true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}
