package persistence

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// translateError maps driver and GORM errors onto domain errors.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	}
	return err
}

// paginate applies whitelisted ordering plus offset and limit.
// Ties are broken by id so pages are stable.
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	filter = filter.Normalize()
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	dir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(field + " " + dir)
	if field != "id" {
		query = query.Order("id " + dir)
	}
	return query.Offset(filter.Offset()).Limit(filter.PageSize)
}

// searchLike matches search case-insensitively against any of columns.
func searchLike(query *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + escapeLike(search) + "%"
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, c := range columns {
		clauses[i] = "LOWER(" + c + ") LIKE LOWER(?) ESCAPE '\\'"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// filterString returns a non-empty string filter value.
func filterString(filter shared.Filter, key string) (string, bool) {
	v, ok := filter.Filters[key]
	if !ok || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		s = strings.TrimSpace(s)
		return s, s != ""
	case fmt.Stringer:
		return s.String(), true
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String(), rv.Len() > 0
	}
	return "", false
}

// filterUUID returns a UUID filter value given as uuid.UUID or string.
func filterUUID(filter shared.Filter, key string) (uuid.UUID, bool) {
	switch v := filter.Filters[key].(type) {
	case uuid.UUID:
		return v, v != uuid.Nil
	case *uuid.UUID:
		if v == nil {
			return uuid.Nil, false
		}
		return *v, *v != uuid.Nil
	case string:
		id, err := uuid.Parse(v)
		return id, err == nil
	}
	return uuid.Nil, false
}

// filterBool returns a boolean filter value given as bool or "true"/"false".
func filterBool(filter shared.Filter, key string) (bool, bool) {
	switch v := filter.Filters[key].(type) {
	case bool:
		return v, true
	case *bool:
		if v == nil {
			return false, false
		}
		return *v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		}
	}
	return false, false
}

func mapSlice[M any, D any](ms []M, fn func(*M) *D) []D {
	out := make([]D, len(ms))
	for i := range ms {
		out[i] = *fn(&ms[i])
	}
	return out
}

// deleteForTenant removes a tenant row by id, returning ErrNotFound when nothing matched.
func deleteForTenant(db *gorm.DB, model any, tenantID, id uuid.UUID) error {
	result := db.Delete(model, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
