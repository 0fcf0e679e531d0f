package utils

// remove qualquer coisa que não seja dígito ASCII ("123.456.789-00" -> "12345678900")
func SanitizeDocument(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, r)
		}
	}
	return string(out)
}

// Valida só o formato: CPF (11) ou CNPJ (14) e não todos os dígitos iguais.
// Dígitos verificadores não são conferidos (a base importada tem documentos fictícios).
func ValidateDocument(doc string) bool {
	if len(doc) != 11 && len(doc) != 14 {
		return false
	}
	allEq := true
	for i := 0; i < len(doc); i++ {
		if doc[i] < '0' || doc[i] > '9' {
			return false
		}
		if doc[i] != doc[0] {
			allEq = false
		}
	}
	return !allEq
}
