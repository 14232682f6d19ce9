package request

import (
	"errors"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	cpfLength  = 11
	cnpjLength = 14
)

var errInvalidDocumento = errors.New("o documento deve ser um CPF (11 dígitos) ou CNPJ (14 dígitos)")

var documentoRules = []validation.Rule{
	validation.Required,
	validation.By(validateDocumento),
}

// NormalizeDocumento drops the punctuation of a formatted CPF or CNPJ.
func NormalizeDocumento(documento string) string {
	return onlyDigits(documento)
}

func validateDocumento(value interface{}) error {
	documento, _ := value.(string)
	if len(documento) != cpfLength && len(documento) != cnpjLength {
		return errInvalidDocumento
	}

	return nil
}

func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
