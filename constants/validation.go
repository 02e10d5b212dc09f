package constants

// ValidationStatus is the outcome of validating one field.
type ValidationStatus string

const (
	ValidationValid       ValidationStatus = "valid"
	ValidationInvalid     ValidationStatus = "invalid"
	ValidationPartial     ValidationStatus = "partial"
	ValidationWarning     ValidationStatus = "warning"
	ValidationNeedsReview ValidationStatus = "needs_review"
)

// ValueKind selects the type-specific validation applied to a field value.
type ValueKind string

const (
	KindDate     ValueKind = "date"
	KindCurrency ValueKind = "currency"
	KindInteger  ValueKind = "integer"
	KindTaxID    ValueKind = "tax_id"
	KindText     ValueKind = "text"
)

// ValidationKindFor returns the value kind validated for each header field.
func ValidationKindFor(field FieldType) ValueKind {
	switch field {
	case InvoiceDate:
		return KindDate
	case TaxID:
		return KindTaxID
	case Subtotal, VAT, TotalAmount:
		return KindCurrency
	default:
		return KindText
	}
}
