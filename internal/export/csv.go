package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/nfe-tools/nf-indexer/internal/batch"
)

func (s *Service) writeCSVs(records []batch.Record) error {
	indexRows := make([][]any, 0, len(records))
	var itemRows [][]any
	for _, rec := range records {
		indexRows = append(indexRows, indexRow(rec.Invoice))
		for _, it := range rec.Items {
			itemRows = append(itemRows, itemRow(it))
		}
	}
	if err := s.writeCSV("nf_index.csv", IndexColumns, indexRows); err != nil {
		return err
	}
	return s.writeCSV("nf_itens.csv", ItemColumns, itemRows)
}

func (s *Service) writeCSV(name string, headers []string, rows [][]any) error {
	f, err := os.Create(s.path(name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer func() {
		_ = f.Close()
	}()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cellString(v)
		}
		if err := w.Write(cells); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
