package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
)

// NormalizeAndSanitizeJSON
// - Renames known synonyms (invoice_no -> invoice_number, vat_amount -> vat, ...)
// - Drops null/empty values
// - Coerces numeric -> string for amount fields
// - Removes unknown keys (strict additionalProperties = false friendliness)
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			// don't overwrite existing value if already present
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	// 1) rename synonyms to our field names
	renamed("invoice_no", "invoice_number")
	renamed("invoice_id", "invoice_number")
	renamed("vendor", "vendor_name")
	renamed("supplier_name", "vendor_name")
	renamed("seller", "vendor_name")
	renamed("date", "invoice_date")
	renamed("vat_amount", "vat")
	renamed("tax", "vat")
	renamed("total", "total_amount")
	renamed("grand_total", "total_amount")
	renamed("tin", "tax_id")
	renamed("tax_identification_number", "tax_id")

	// 2) drop null / "" and coerce amount fields to strings
	amountFields := []string{"subtotal", "vat", "total_amount"}
	coerceAmount := func(k string) {
		if v, ok := m[k]; ok {
			switch t := v.(type) {
			case float64:
				m[k] = fmt.Sprintf("%.2f", t)
			case int:
				m[k] = fmt.Sprintf("%d", t)
			case string:
				s := strings.TrimSpace(t)
				if s == "" {
					delete(m, k)
					dropped = append(dropped, k+"(empty)")
				} else {
					m[k] = s
				}
			case nil:
				delete(m, k)
				dropped = append(dropped, k+"(null)")
			default:
				// unexpected type -> drop
				delete(m, k)
				dropped = append(dropped, k+"(type)")
			}
		}
	}
	for _, k := range amountFields {
		coerceAmount(k)
	}

	// 3) tax_id: strip spaces and dashes, keep only if something remains
	if v, ok := m["tax_id"].(string); ok {
		s := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(v))
		if s != "" {
			m["tax_id"] = s
		} else {
			delete(m, "tax_id")
			dropped = append(dropped, "tax_id(empty)")
		}
	}

	// 4) remove unknown keys
	allowed := map[string]struct{}{
		"confidence": {}, // harmless if the model added it
	}
	for _, f := range constants.AllFieldTypes() {
		allowed[string(f)] = struct{}{}
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	// 5) trim obvious strings
	trimKeys := []string{"invoice_number", "invoice_date", "vendor_name"}
	for _, k := range trimKeys {
		if v, ok := m[k].(string); ok {
			s := strings.TrimSpace(v)
			if s == "" {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

// DecodeFields turns sanitized JSON into the typed field map the pipeline
// consumes. Non-string values and the confidence key are skipped.
func DecodeFields(sanitized []byte) (map[constants.FieldType]string, error) {
	var m map[string]any
	if err := json.Unmarshal(sanitized, &m); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	out := make(map[constants.FieldType]string, len(m))
	for k, v := range m {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		if ft, ok := constants.CanonicalizeField(k); ok {
			out[ft] = s
		}
	}
	return out, nil
}
