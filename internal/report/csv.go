package report

import (
	"bufio"
	"io"
	"slices"
	"strings"
)

// ExportFilename is the attachment name offered for the CSV download.
const ExportFilename = "registrations_export.csv"

// ExtraKeys returns the sorted union of extra keys across rows.
func ExtraKeys(rows []Row) []string {
	seen := map[string]bool{}
	var keys []string
	for _, row := range rows {
		for k := range row.Extra {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	slices.Sort(keys)
	return keys
}

// Header is the fixed columns followed by the sorted extra keys.
func Header(rows []Row) []string {
	return append(slices.Clone(Columns), ExtraKeys(rows)...)
}

// WriteCSV writes the header and one line per row. Every field is quoted.
func WriteCSV(w io.Writer, rows []Row) error {
	header := Header(rows)
	bw := bufio.NewWriter(w)

	writeLine(bw, header)
	record := make([]string, len(header))
	for _, row := range rows {
		for i, column := range header {
			record[i], _ = row.Value(column)
		}
		writeLine(bw, record)
	}
	return bw.Flush()
}

func writeLine(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteByte('\n')
}
