package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/xuri/excelize/v2"
)

// preferredSheets are read before falling back to the first sheet
var preferredSheets = []string{"produtos", "products"}

// ReadRows returns the rows of the product sheet of an xlsx workbook
func ReadRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedSpreadsheet, err)
	}
	defer f.Close()

	sheet := pickSheet(f.GetSheetList())
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrUnsupportedSpreadsheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %v", domain.ErrUnsupportedSpreadsheet, sheet, err)
	}

	return rows, nil
}

func pickSheet(sheets []string) string {
	for _, want := range preferredSheets {
		for _, s := range sheets {
			if strings.EqualFold(strings.TrimSpace(s), want) {
				return s
			}
		}
	}
	if len(sheets) > 0 {
		return sheets[0]
	}
	return ""
}
