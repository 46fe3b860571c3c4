package ingest

import (
	"encoding/csv"
	"io"
	"strings"
	"time"
)

// Record is one normalized spreadsheet row. Fields the importer could not
// locate or parse stay zero-valued; malformed rows never abort an import.
type Record struct {
	Timestamp *time.Time
	Kind      string
	Category  string
	Text      string
	Actor     string
	FirstName string
	LastName  string
	Email     string
}

// columnSynonyms maps canonical field names to normalized header spellings
// seen in real exports (including the German ones HR keeps sending).
var columnSynonyms = map[string][]string{
	"timestamp":  {"timestamp", "date", "datetime", "datum", "zeit", "time", "occurred_at", "created"},
	"kind":       {"kind", "type", "typ", "art"},
	"category":   {"category", "kategorie", "topic", "thema"},
	"text":       {"text", "comment", "kommentar", "description", "beschreibung", "notes", "notiz"},
	"actor":      {"actor", "agent", "employee", "mitarbeiter", "reviewer", "user"},
	"first_name": {"first_name", "firstname", "vorname", "given_name"},
	"last_name":  {"last_name", "lastname", "nachname", "surname", "familienname"},
	"email":      {"email", "e_mail", "mail", "email_address"},
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006 15:04",
	"02.01.2006",
	"01/02/2006 15:04",
	"01/02/2006",
}

// normalizeHeader lowercases a header cell and collapses whitespace,
// dashes and other separators into single underscores.
func normalizeHeader(h string) string {
	var b strings.Builder
	lastSep := true
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSep = false
		case r == 'ä':
			b.WriteString("ae")
			lastSep = false
		case r == 'ö':
			b.WriteString("oe")
			lastSep = false
		case r == 'ü':
			b.WriteString("ue")
			lastSep = false
		case r == 'ß':
			b.WriteString("ss")
			lastSep = false
		default:
			if !lastSep {
				b.WriteByte('_')
				lastSep = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// GuessColumns matches header cells against the synonym table and returns
// canonical field -> column index. The first matching column wins.
func GuessColumns(header []string) map[string]int {
	cols := make(map[string]int)
	for idx, cell := range header {
		norm := normalizeHeader(cell)
		if norm == "" {
			continue
		}
		for field, synonyms := range columnSynonyms {
			if _, taken := cols[field]; taken {
				continue
			}
			for _, syn := range synonyms {
				if norm == syn {
					cols[field] = idx
					break
				}
			}
		}
	}
	return cols
}

// Normalize converts raw cells into records and flags duplicates. The
// returned set holds the indexes of rows whose (timestamp, kind, category,
// text, actor) key was already seen; the first occurrence is never flagged.
func Normalize(header []string, rows [][]string) ([]Record, map[int]struct{}) {
	cols := GuessColumns(header)
	records := make([]Record, 0, len(rows))
	duplicates := make(map[int]struct{})
	seen := make(map[string]struct{})

	for i, row := range rows {
		rec := Record{
			Kind:      cellAt(row, cols, "kind"),
			Category:  cellAt(row, cols, "category"),
			Text:      cellAt(row, cols, "text"),
			Actor:     cellAt(row, cols, "actor"),
			FirstName: cellAt(row, cols, "first_name"),
			LastName:  cellAt(row, cols, "last_name"),
			Email:     strings.ToLower(cellAt(row, cols, "email")),
		}
		if ts := parseTimestamp(cellAt(row, cols, "timestamp")); ts != nil {
			rec.Timestamp = ts
		}

		key := dupKey(rec)
		if _, ok := seen[key]; ok {
			duplicates[i] = struct{}{}
		} else {
			seen[key] = struct{}{}
		}
		records = append(records, rec)
	}

	return records, duplicates
}

// ReadAll parses CSV bytes leniently: ragged rows are allowed, quoting
// errors are tolerated where possible, and an empty input yields no rows
// rather than an error.
func ReadAll(r io.Reader) (header []string, rows [][]string, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}

func cellAt(row []string, cols map[string]int, field string) string {
	idx, ok := cols[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return &ts
		}
	}
	return nil
}

func dupKey(r Record) string {
	ts := ""
	if r.Timestamp != nil {
		ts = r.Timestamp.UTC().Format(time.RFC3339)
	}
	return strings.Join([]string{ts, r.Kind, r.Category, r.Text, r.Actor}, "|")
}
