package cfdi

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Patrón de RFC según Anexo 20: 3 letras (moral) o 4 (física), fecha AAMMDD
// y homoclave de 3 posiciones. Se admiten los genéricos XAXX/XEXX.
var rfcPattern = regexp.MustCompile(`^[A-ZÑ&]{3,4}[0-9]{6}[A-Z0-9]{3}$`)

// Código postal mexicano: exactamente 5 dígitos (catálogo c_CodigoPostal).
var postalCodePattern = regexp.MustCompile(`^[0-9]{5}$`)

// ValidateRFC valida la forma del RFC (no consulta el padrón del SAT).
// Acepta minúsculas y espacios alrededor; la comparación se hace en mayúsculas.
func ValidateRFC(rfc string) error {
	normalized := strings.ToUpper(strings.TrimSpace(rfc))
	if normalized == "" {
		return fmt.Errorf("cfdi: RFC vacío")
	}
	if !rfcPattern.MatchString(normalized) {
		return fmt.Errorf("cfdi: RFC %q no cumple el patrón del Anexo 20", normalized)
	}
	return nil
}

// ValidatePostalCode valida que el lugar de expedición tenga forma de código postal (5 dígitos).
func ValidatePostalCode(cp string) error {
	if !postalCodePattern.MatchString(cp) {
		return fmt.Errorf("cfdi: código postal %q inválido, se esperan 5 dígitos", cp)
	}
	return nil
}

// normalizer elimina diacríticos: NFD -> quitar marcas combinantes -> NFC.
// Nota: también convierte Ñ en N; para nombres impresos es aceptable.
var normalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeText quita acentos y colapsa espacios para nombres que van al XML
// del comprobante y a la representación impresa (evita problemas de encoding
// con PACs que solo aceptan ASCII extendido).
func NormalizeText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	out, _, err := transform.String(normalizer, s)
	if err != nil {
		return s
	}
	return out
}
