package finance

import (
	"bufio"
	"io"
	"strings"

	"moneymap/src/models"
)

var transactionColumns = []string{
	"id", "amount", "description", "category", "date",
	"type", "tags", "recurrence", "recurrenceEndDate",
}

// WriteTransactionsCSV writes a header row and one row per transaction. Every
// field is double-quoted. An empty list writes nothing.
func WriteTransactionsCSV(w io.Writer, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(transactionColumns, ","))
	for _, t := range txs {
		bw.WriteByte('\n')
		bw.WriteString(csvRow(transactionRecord(t)))
	}
	return bw.Flush()
}

func transactionRecord(t models.Transaction) []string {
	end := ""
	if t.RecurrenceEndDate != nil {
		end = t.RecurrenceEndDate.String()
	}
	return []string{
		t.ID,
		t.Amount.String(),
		t.Description,
		t.Category,
		t.Date.String(),
		string(t.Type),
		strings.Join(t.Tags, ","),
		string(t.Recurrence),
		end,
	}
}

func csvRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
