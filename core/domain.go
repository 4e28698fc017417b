package core

import (
	"strconv"
	"strings"
	"time"
)

type CellKind string

const (
	CellKindEmpty  CellKind = "empty"
	CellKindText   CellKind = "text"
	CellKindNumber CellKind = "number"
	CellKindDate   CellKind = "date"
)

// Cell is one loosely-typed spreadsheet value. Hosts hand rows over as
// untyped values; the tagged kind lets normalization switch exhaustively
// instead of probing runtime types.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
}

func EmptyCell() Cell {
	return Cell{Kind: CellKindEmpty}
}

func TextCell(value string) Cell {
	return Cell{Kind: CellKindText, Text: value}
}

func NumberCell(value float64) Cell {
	return Cell{Kind: CellKindNumber, Number: value}
}

func DateCell(value time.Time) Cell {
	return Cell{Kind: CellKindDate, Date: value}
}

// String coerces the cell to a trimmed string. Empty cells and zero dates
// coerce to "".
func (c Cell) String() string {
	switch c.Kind {
	case CellKindText:
		return strings.TrimSpace(c.Text)
	case CellKindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellKindDate:
		if c.Date.IsZero() {
			return ""
		}
		return c.Date.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

func (c Cell) IsEmpty() bool {
	return c.Kind == CellKindEmpty || c.String() == ""
}

// RawRow is one appended spreadsheet row, positionally indexed.
type RawRow []Cell

// At returns the cell at the given 1-based column position. Positions
// outside the row read as empty so short rows and stale mappings degrade
// instead of failing.
func (r RawRow) At(position int) Cell {
	if position < 1 || position > len(r) {
		return EmptyCell()
	}
	return r[position-1]
}

type Field string

const (
	FieldDateAdded    Field = "date_added"
	FieldName         Field = "name"
	FieldEmail        Field = "email"
	FieldPhone        Field = "phone"
	FieldLanguage     Field = "language"
	FieldStatus       Field = "status"
	FieldResponse     Field = "response"
	FieldResponseDate Field = "response_date"
	FieldComments     Field = "comments"
)

// ColumnMapping translates a logical field to its 1-based column position.
// A missing or out-of-range entry reads as absent; the mapping is supplied
// per deployment and never inferred.
type ColumnMapping map[Field]int

// Column returns the configured position for a field, or 0 when the field
// is not mapped.
func (m ColumnMapping) Column(field Field) int {
	if m == nil {
		return 0
	}
	return m[field]
}

// LeadsLayout maps the 13-column "leads" sheet variant, which carries no
// timestamp column.
func LeadsLayout() ColumnMapping {
	return ColumnMapping{
		FieldName:         1,
		FieldEmail:        2,
		FieldPhone:        3,
		FieldLanguage:     4,
		FieldStatus:       5,
		FieldResponse:     10,
		FieldResponseDate: 11,
		FieldComments:     13,
	}
}

// FormResponsesLayout maps the 14-column "Form Responses" sheet variant,
// where the host inserts a submission timestamp at position 1 and shifts
// every other column right by one.
func FormResponsesLayout() ColumnMapping {
	return ColumnMapping{
		FieldDateAdded:    1,
		FieldName:         2,
		FieldEmail:        3,
		FieldPhone:        4,
		FieldLanguage:     5,
		FieldStatus:       6,
		FieldResponse:     11,
		FieldResponseDate: 12,
		FieldComments:     14,
	}
}

// LeadRecord is the canonical payload shape. It is immutable once built and
// lives only for the duration of one dispatch.
type LeadRecord struct {
	Timestamp    string `json:"timestamp"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Language     string `json:"language"`
	Status       string `json:"status"`
	Attendance   string `json:"attendance"`
	Response     string `json:"response"`
	ResponseDate string `json:"responseDate"`
	Comments     string `json:"comments"`
}

// MissingEmail reports the one condition normalization flags upward: callers
// must not dispatch a record without an email.
func (r LeadRecord) MissingEmail() bool {
	return strings.TrimSpace(r.Email) == ""
}

// DeliveryResult is the uniform outcome of one webhook call. StatusCode is 0
// when no HTTP response was received.
type DeliveryResult struct {
	Success    bool
	StatusCode int
	Response   string
	Error      string
}

const (
	SkipReasonNoRow        = "no_row"
	SkipReasonMissingEmail = "missing_email"
)

// RelayOutcome describes what one trigger invocation did.
type RelayOutcome struct {
	Dispatched bool
	SkipReason string
	Record     LeadRecord
	Delivery   DeliveryResult
}

type RelayActivityStatus string

const (
	RelayActivityStatusSuccess RelayActivityStatus = "success"
	RelayActivityStatusFailure RelayActivityStatus = "failure"
	RelayActivityStatusSkipped RelayActivityStatus = "skipped"
)

// RelayActivityEntry is one diagnostic line in the activity ledger.
type RelayActivityEntry struct {
	ID         string
	SheetName  string
	Endpoint   string
	Email      string
	Status     RelayActivityStatus
	StatusCode int
	Detail     string
	Metadata   map[string]any
	CreatedAt  time.Time
}

type RelayActivityFilter struct {
	SheetName string
	Status    RelayActivityStatus
	From      *time.Time
	To        *time.Time
	Page      int
	PerPage   int
}

type RelayActivityPage struct {
	Items   []RelayActivityEntry
	Page    int
	PerPage int
	Total   int
	HasNext bool
}
