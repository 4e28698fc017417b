package core

import (
	"strings"
	"time"
)

// NormalizeOptions tune field cleanup. The zero value is usable: language
// defaults to "en" and the wall clock supplies missing timestamps.
type NormalizeOptions struct {
	DefaultLanguage   string
	LowercaseLanguage bool
	Now               func() time.Time
}

func (o NormalizeOptions) defaultLanguage() string {
	if lang := strings.TrimSpace(o.DefaultLanguage); lang != "" {
		return lang
	}
	return "en"
}

func (o NormalizeOptions) now() time.Time {
	if o.Now != nil {
		return o.Now().UTC()
	}
	return time.Now().UTC()
}

// Normalize converts one raw row into the canonical record. Every field
// degrades to its default on malformed input; nothing here errors. The only
// condition flagged upward is an empty email, reported through
// LeadRecord.MissingEmail.
func Normalize(row RawRow, mapping ColumnMapping, opts NormalizeOptions) LeadRecord {
	record := LeadRecord{
		Timestamp:    resolveTimestamp(row.At(mapping.Column(FieldDateAdded)), opts),
		Name:         fieldValue(row, mapping, FieldName),
		Email:        strings.ToLower(fieldValue(row, mapping, FieldEmail)),
		Phone:        fieldValue(row, mapping, FieldPhone),
		Status:       fieldValue(row, mapping, FieldStatus),
		Response:     fieldValue(row, mapping, FieldResponse),
		ResponseDate: fieldValue(row, mapping, FieldResponseDate),
		Comments:     fieldValue(row, mapping, FieldComments),
	}

	language := fieldValue(row, mapping, FieldLanguage)
	if language == "" {
		language = opts.defaultLanguage()
	}
	if opts.LowercaseLanguage {
		language = strings.ToLower(language)
	}
	record.Language = language

	// Attendance is a derived alias kept for payload compatibility; no
	// column is ever read for it.
	record.Attendance = record.Response

	return record
}

// resolveTimestamp prefers the configured "date added" cell: a date-typed
// value formats as RFC 3339, a non-empty string passes through unchanged,
// anything else falls back to the clock.
func resolveTimestamp(cell Cell, opts NormalizeOptions) string {
	switch cell.Kind {
	case CellKindDate:
		if !cell.Date.IsZero() {
			return cell.Date.UTC().Format(time.RFC3339)
		}
	case CellKindText:
		if value := strings.TrimSpace(cell.Text); value != "" {
			return value
		}
	case CellKindNumber:
		if value := cell.String(); value != "" {
			return value
		}
	}
	return opts.now().Format(time.RFC3339)
}

func fieldValue(row RawRow, mapping ColumnMapping, field Field) string {
	return row.At(mapping.Column(field)).String()
}
