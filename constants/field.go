package constants

import "strings"

// FieldType identifies an invoice header field.
type FieldType string

const (
	InvoiceNumber FieldType = "invoice_number"
	InvoiceDate   FieldType = "invoice_date"
	VendorName    FieldType = "vendor_name"
	TaxID         FieldType = "tax_id"
	Subtotal      FieldType = "subtotal"
	VAT           FieldType = "vat"
	TotalAmount   FieldType = "total_amount"
)

var allFieldTypes = []FieldType{
	InvoiceNumber,
	InvoiceDate,
	VendorName,
	TaxID,
	Subtotal,
	VAT,
	TotalAmount,
}

// AllFieldTypes returns every known header field in declaration order.
func AllFieldTypes() []FieldType {
	out := make([]FieldType, len(allFieldTypes))
	copy(out, allFieldTypes)
	return out
}

// IsNumeric reports whether the field carries an amount-like value.
func (f FieldType) IsNumeric() bool {
	switch f {
	case Subtotal, VAT, TotalAmount, InvoiceNumber:
		return true
	}
	return false
}

// IsAmount reports whether the field is a monetary amount.
func (f FieldType) IsAmount() bool {
	switch f {
	case Subtotal, VAT, TotalAmount:
		return true
	}
	return false
}

// CanonicalizeField maps free-form field labels to a known FieldType.
func CanonicalizeField(input string) (FieldType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}

	synonyms := map[string]FieldType{
		"invoice no":  InvoiceNumber,
		"invoice #":   InvoiceNumber,
		"inv number":  InvoiceNumber,
		"date":        InvoiceDate,
		"issued":      InvoiceDate,
		"vendor":      VendorName,
		"supplier":    VendorName,
		"from":        VendorName,
		"vat no":      TaxID,
		"tin":         TaxID,
		"net":         Subtotal,
		"tax":         VAT,
		"gst":         VAT,
		"total":       TotalAmount,
		"grand total": TotalAmount,
		"amount due":  TotalAmount,
	}
	if ft, ok := synonyms[normalized]; ok {
		return ft, true
	}

	for _, ft := range allFieldTypes {
		if normalized == string(ft) {
			return ft, true
		}
	}
	return "", false
}
