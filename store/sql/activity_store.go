package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-leadrelay/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ActivityStore persists relay outcomes as a queryable diagnostic ledger.
// It is a sink only; relay behavior never depends on what it holds.
type ActivityStore struct {
	db   *bun.DB
	repo repository.Repository[*relayActivityRecord]
}

func NewActivityStore(db *bun.DB) (*ActivityStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*relayActivityRecord](db, relayActivityHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid relay activity repository wiring: %w", err)
		}
	}
	return &ActivityStore{db: db, repo: repo}, nil
}

func (s *ActivityStore) Record(ctx context.Context, entry core.RelayActivityEntry) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: activity store is not configured")
	}
	id := strings.TrimSpace(entry.ID)
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := entry.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	status := strings.TrimSpace(string(entry.Status))
	if status == "" {
		status = string(core.RelayActivityStatusSkipped)
	}

	record := &relayActivityRecord{
		ID:         id,
		SheetName:  strings.TrimSpace(entry.SheetName),
		Endpoint:   strings.TrimSpace(entry.Endpoint),
		Email:      strings.TrimSpace(entry.Email),
		Status:     status,
		StatusCode: entry.StatusCode,
		Detail:     entry.Detail,
		Metadata:   copyAnyMap(entry.Metadata),
		CreatedAt:  createdAt,
	}

	_, err := s.repo.Create(ctx, record)
	return err
}

func (s *ActivityStore) List(ctx context.Context, filter core.RelayActivityFilter) (core.RelayActivityPage, error) {
	if s == nil || s.repo == nil {
		return core.RelayActivityPage{}, fmt.Errorf("sqlstore: activity store is not configured")
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 25
	}
	offset := (page - 1) * perPage

	selectors := []repository.SelectCriteria{
		repository.OrderBy("created_at DESC"),
		repository.SelectPaginate(perPage, offset),
	}
	if sheetName := strings.TrimSpace(filter.SheetName); sheetName != "" {
		selectors = append(selectors, repository.SelectBy("sheet_name", "=", sheetName))
	}
	if status := strings.TrimSpace(string(filter.Status)); status != "" {
		selectors = append(selectors, repository.SelectBy("status", "=", status))
	}
	if filter.From != nil {
		selectors = append(selectors, repository.SelectByTimetz("created_at", ">=", filter.From.UTC()))
	}
	if filter.To != nil {
		selectors = append(selectors, repository.SelectByTimetz("created_at", "<=", filter.To.UTC()))
	}

	records, total, err := s.repo.List(ctx, selectors...)
	if err != nil {
		return core.RelayActivityPage{}, err
	}
	items := make([]core.RelayActivityEntry, 0, len(records))
	for _, record := range records {
		items = append(items, activityRecordToDomain(record))
	}
	return core.RelayActivityPage{
		Items:   items,
		Page:    page,
		PerPage: perPage,
		Total:   total,
		HasNext: offset+len(items) < total,
	}, nil
}

func activityRecordToDomain(record *relayActivityRecord) core.RelayActivityEntry {
	if record == nil {
		return core.RelayActivityEntry{}
	}
	return core.RelayActivityEntry{
		ID:         record.ID,
		SheetName:  record.SheetName,
		Endpoint:   record.Endpoint,
		Email:      record.Email,
		Status:     core.RelayActivityStatus(record.Status),
		StatusCode: record.StatusCode,
		Detail:     record.Detail,
		Metadata:   copyAnyMap(record.Metadata),
		CreatedAt:  record.CreatedAt,
	}
}

func copyAnyMap(input map[string]any) map[string]any {
	if len(input) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
