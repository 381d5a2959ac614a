package document

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dslipak/pdf"
)

// operationLine matches "date nature montant" rows in the operations section
// of a relevé: 10/03/2025 VIREMENT FAC202503001 - InfoVista 1 200,00
var operationLine = regexp.MustCompile(`^(\d{2}/\d{2}/\d{4})\s+(.+?)\s+([\d\s]+(?:[.,]\d{1,2})?)\s*$`)

// operationsHeader marks the start of the operations table.
var operationsHeader = regexp.MustCompile(`(?i)RELEV[ÉE]\s+DES\s+OP[ÉE]RATIONS`)

// ExtractRows pulls text rows out of a PDF, one string per visual row.
func ExtractRows(path string) ([]string, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}

	var rows []string
	for no := 1; no <= r.NumPage(); no++ {
		page := r.Page(no)
		pageRows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range pageRows {
			var builder strings.Builder
			for i, text := range row.Content {
				builder.WriteString(text.S)
				if i < len(row.Content)-1 {
					builder.WriteByte(' ')
				}
			}
			if builder.Len() > 0 {
				rows = append(rows, builder.String())
			}
		}
	}
	return rows, nil
}

// ParseStatementPDF is the fallback for relevés that were never run through
// the extraction step: it reads the PDF text directly and parses the
// operations table.
func ParseStatementPDF(path string) (*BankStatement, error) {
	rows, err := ExtractRows(path)
	if err != nil {
		return nil, err
	}
	return ParseStatementRows(rows)
}

// ParseStatementRows parses text rows into bank statement operations. Rows
// before the operations header are account metadata and are skipped.
func ParseStatementRows(rows []string) (*BankStatement, error) {
	stmt := &BankStatement{}
	inOperations := false

	for _, row := range rows {
		if !inOperations {
			if operationsHeader.MatchString(row) {
				inOperations = true
			}
			continue
		}
		match := operationLine.FindStringSubmatch(strings.TrimSpace(row))
		if match == nil {
			continue
		}
		stmt.Operations = append(stmt.Operations, Operation{
			Date:   match[1],
			Label:  strings.TrimSpace(match[2]),
			Amount: strings.TrimSpace(match[3]),
		})
	}

	if !inOperations {
		return nil, fmt.Errorf("no operations section found in statement pdf")
	}
	return stmt, nil
}
