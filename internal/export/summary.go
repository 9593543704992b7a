package export

import (
	"sort"

	"github.com/nfe-tools/nf-indexer/internal/batch"
)

const unknownIssuer = "(desconhecido)"

// writeSummaries renders the two pivot CSVs: total value per issuer/type and
// per month/type. Invoices without a value contribute zero; invoices without
// a date land in an empty month bucket.
func (s *Service) writeSummaries(records []batch.Record) error {
	byIssuer := map[[2]string]float64{}
	byMonth := map[[2]string]float64{}
	for _, rec := range records {
		inv := rec.Invoice
		var total float64
		if inv.ValorTotal != nil {
			total = *inv.ValorTotal
		}

		issuer := unknownIssuer
		if inv.RazaoEmitente != nil {
			issuer = *inv.RazaoEmitente
		}
		byIssuer[[2]string{issuer, string(inv.Tipo)}] += total

		month := ""
		if inv.DataEmissao != nil && len(*inv.DataEmissao) >= 7 {
			month = (*inv.DataEmissao)[:7]
		}
		byMonth[[2]string{month, string(inv.Tipo)}] += total
	}

	if err := s.writePivot("resumo_por_emissor_tipo.csv", []string{"emissor", "tipo", "valor_total"}, byIssuer); err != nil {
		return err
	}
	return s.writePivot("resumo_por_mes_tipo.csv", []string{"mes", "tipo", "valor_total"}, byMonth)
}

func (s *Service) writePivot(name string, headers []string, sums map[[2]string]float64) error {
	keys := make([][2]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	rows := make([][]any, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []any{k[0], k[1], sums[k]})
	}
	return s.writeCSV(name, headers, rows)
}
