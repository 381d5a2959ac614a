package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// TypeFromFilename infers the document family from a file name, falling back
// on the extension when no keyword matches.
func TypeFromFilename(name string) Type {
	lower := strings.ToLower(name)

	switch {
	case strings.Contains(lower, "facture") || strings.Contains(lower, "invoice"):
		return TypeInvoice
	case strings.Contains(lower, "cheque") || strings.Contains(lower, "check"):
		return TypeCheck
	case strings.Contains(lower, "releve") || strings.Contains(lower, "statement"):
		return TypeBankStatement
	case strings.Contains(lower, "grand") && strings.Contains(lower, "livre"):
		return TypeLedger
	}

	switch filepath.Ext(lower) {
	case ".xlsx", ".xls", ".csv":
		return TypeLedger
	case ".pdf":
		return TypeBankStatement
	default:
		return TypeInvoice
	}
}

// Load reads and decodes the content behind a descriptor. Decode failures are
// recorded on the document rather than returned: one bad extraction must not
// abort a batch.
func Load(doc *Document) {
	if doc.Status != StatusCompleted || doc.OutputPath == "" {
		return
	}

	if strings.EqualFold(filepath.Ext(doc.OutputPath), ".pdf") {
		stmt, err := ParseStatementPDF(doc.OutputPath)
		if err != nil {
			doc.LoadError = err.Error()
			return
		}
		doc.Content = &Content{BankStatement: stmt}
		return
	}

	data, err := os.ReadFile(doc.OutputPath)
	if err != nil {
		doc.LoadError = err.Error()
		return
	}

	content, err := DecodeContent(doc.Type, data)
	if err != nil {
		doc.LoadError = err.Error()
		return
	}
	doc.Content = content
}

// LoadDir scans a directory of extraction outputs (JSON, plus raw PDF
// statements) and returns completed document descriptors with content
// attached. Types are inferred from file names.
func LoadDir(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".pdf" {
			continue
		}

		doc := Document{
			ID:         uuid.NewString(),
			Name:       entry.Name(),
			Type:       TypeFromFilename(entry.Name()),
			Status:     StatusCompleted,
			OutputPath: filepath.Join(dir, entry.Name()),
		}
		Load(&doc)
		docs = append(docs, doc)
	}

	return docs, nil
}
