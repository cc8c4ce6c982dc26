package document

import (
	"strings"

	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/validator"
)

// Type tags a counterparty document.
type Type string

const (
	TypeCPF  Type = "cpf"  // individual, 11 digits
	TypeCNPJ Type = "cnpj" // company, 14 digits
)

func (t Type) IsValid() bool {
	return t == TypeCPF || t == TypeCNPJ
}

// Resolve normalizes a raw document to digits and checks it against its type.
// An empty type is inferred from the digit count.
func Resolve(rawType, raw string) (Type, string, bool) {
	digits := validator.OnlyDigits(raw)
	t := Type(strings.ToLower(strings.TrimSpace(rawType)))

	if t == "" {
		switch len(digits) {
		case 11:
			t = TypeCPF
		case 14:
			t = TypeCNPJ
		default:
			return "", digits, false
		}
	}

	switch t {
	case TypeCPF:
		return t, digits, validator.IsValidCPF(digits)
	case TypeCNPJ:
		return t, digits, validator.IsValidCNPJ(digits)
	}
	return t, digits, false
}

// Message describes the expected shape for a type, for validation output.
func Message(t Type) string {
	switch t {
	case TypeCPF:
		return "CPF must have 11 digits"
	case TypeCNPJ:
		return "CNPJ must have 14 digits"
	}
	return "document_type must be cpf or cnpj, or the document must have 11 or 14 digits"
}
