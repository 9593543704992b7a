package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nfe-tools/nf-indexer/internal/batch"
)

// writeWorkbooks produces the three spreadsheets: the invoice index, the line
// items, and the index annotated with validation flags.
func (s *Service) writeWorkbooks(records []batch.Record) error {
	indexRows := make([][]any, 0, len(records))
	validRows := make([][]any, 0, len(records))
	var itemRows [][]any
	for _, rec := range records {
		row := indexRow(rec.Invoice)
		indexRows = append(indexRows, row)
		validRows = append(validRows, append(append([]any{}, row...), flagsCell(rec)))
		for _, it := range rec.Items {
			itemRows = append(itemRows, itemRow(it))
		}
	}

	validColumns := append(append([]string{}, IndexColumns...), "flags")

	if err := s.writeWorkbook("nf_index.xlsx", "Notas", IndexColumns, indexRows); err != nil {
		return err
	}
	if err := s.writeWorkbook("nf_itens.xlsx", "Itens", ItemColumns, itemRows); err != nil {
		return err
	}
	return s.writeWorkbook("nf_validacao.xlsx", "Validacao", validColumns, validRows)
}

func (s *Service) writeWorkbook(name, sheet string, headers []string, rows [][]any) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIdx, _ := f.GetSheetIndex("Sheet1"); defIdx != -1 && sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(s.path(name)); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}
