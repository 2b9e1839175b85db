package salesforce

import "strings"

// QuoteString meng-escape nilai untuk literal string SOQL ('...').
// Backslash dulu, baru kutip tunggal.
func QuoteString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// InClause menyusun isi klausa IN (...) dari daftar nilai. Nilai kosong dibuang.
func InClause(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		quoted = append(quoted, QuoteString(v))
	}
	return strings.Join(quoted, ",")
}
