package appointments

import (
	"encoding/csv"
	"io"
	"strings"
)

var csvHeaders = []string{
	"ID",
	"Patient Name",
	"Email",
	"Phone",
	"Procedure",
	"Preferred Date",
	"Status",
	"Message",
	"Created At",
	"Updated At",
}

// WriteCSV writes appointments as CSV, one row per record, with a
// header row. Fields containing commas, quotes, or newlines are quoted
// by the encoder.
func WriteCSV(w io.Writer, appts []Appointment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return err
	}
	for _, a := range appts {
		row := []string{
			a.ID,
			a.Name,
			a.Email,
			a.Phone,
			a.Procedure,
			a.PreferredDate,
			string(a.Status),
			a.Message,
			a.CreatedAt.Format("2006-01-02 15:04:05"),
			a.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filter returns the appointments matching a free-text search term
// (name, email, phone, or procedure, case-insensitive) and a status
// filter ("" or "all" matches every status).
func Filter(appts []Appointment, searchTerm, statusFilter string) []Appointment {
	term := strings.ToLower(strings.TrimSpace(searchTerm))
	status := strings.ToLower(strings.TrimSpace(statusFilter))

	out := make([]Appointment, 0, len(appts))
	for _, a := range appts {
		if status != "" && status != "all" && string(a.Status) != status {
			continue
		}
		if term != "" {
			haystack := strings.ToLower(a.Name + " " + a.Email + " " + a.Phone + " " + a.Procedure)
			if !strings.Contains(haystack, term) {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}
