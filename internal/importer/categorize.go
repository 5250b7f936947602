// importer/categorize.go
package importer

import "strings"

// categoryRule maps one spending category to its keyword list. The table
// order is significant: the first category with a matching keyword wins, so
// categorization stays reproducible across runs.
type categoryRule struct {
	category string
	keywords []string
}

var categoryTable = []categoryRule{
	{"food", []string{"ifood", "restaurante", "mercado", "supermercado", "padaria", "lanchonete"}},
	{"transport", []string{"uber", "99app", "taxi", "combustivel", "posto", "estacionamento", "metro"}},
	{"housing", []string{"aluguel", "condominio", "energia", "luz", "agua", "internet"}},
	{"health", []string{"farmacia", "drogaria", "hospital", "clinica", "laboratorio"}},
	{"education", []string{"escola", "faculdade", "curso", "livraria", "mensalidade"}},
	{"entertainment", []string{"netflix", "spotify", "cinema", "show", "streaming"}},
}

// Categorize assigns a spending category to a transaction description by
// case-insensitive substring match. No match yields "other".
func Categorize(description string) string {
	desc := strings.ToLower(description)
	for _, rule := range categoryTable {
		for _, keyword := range rule.keywords {
			if strings.Contains(desc, keyword) {
				return rule.category
			}
		}
	}
	return "other"
}
