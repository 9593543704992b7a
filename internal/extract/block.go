package extract

import "strings"

// Items-block boundary markers, in priority order. The start list covers the
// header variants seen across DANFE and NFS-e layouts; the end list covers the
// footer sections that always follow the item table.
var (
	ItemsStartKeys = []string{
		"DADOS DOS PRODUTOS/SERVI", "DADOS DO PRODUTO/SERVI",
		"DADOS DOS PRODUTOS / SERVI", "DISCRIMINACAO DOS SERVICOS",
		"ITENS DA NOTA", "DADOS DOS PRODUTOS",
	}
	ItemsEndKeys = []string{
		"DADOS ADICIONAIS", "CALCULO DO ISSQN",
		"RESERVADO AO FISCO", "INFORMACOES COMPLEMENTARES",
		"CALCULO DO IMPOSTO",
	}
)

// ExtractBlock isolates the substring between the first start keyword present
// (priority order: earlier list entries win) and the earliest end keyword
// occurring strictly after it, or end-of-text when no end marker follows.
// Returns nil when no start keyword is present at all.
func ExtractBlock(text string, startKeys, endKeys []string) *string {
	upper := strings.ToUpper(text)
	start := -1
	for _, k := range startKeys {
		if p := strings.Index(upper, strings.ToUpper(k)); p != -1 {
			start = p
			break
		}
	}
	if start == -1 {
		return nil
	}
	end := len(text)
	for _, k := range endKeys {
		if p := strings.Index(upper[start+1:], strings.ToUpper(k)); p != -1 && start+1+p < end {
			end = start + 1 + p
		}
	}
	block := strings.TrimSpace(text[start:end])
	return &block
}
