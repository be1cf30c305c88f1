package querybuilder

import (
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
)

// InsertModel builds an INSERT from the db-tagged fields of model, skipping omitted columns.
func InsertModel(table string, model any, suffix string, omit ...string) (string, []any, error) {
	cols, vals, err := columnsAndValuesFromModel(model, omit)
	if err != nil {
		return "", nil, err
	}
	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

// UpdateModel builds an UPDATE setting every db-tagged field of model except omitted columns.
func UpdateModel(table string, model any, where []Condition, suffix string, omit ...string) (string, []any, error) {
	cols, vals, err := columnsAndValuesFromModel(model, omit)
	if err != nil {
		return "", nil, err
	}
	builder := Update(table)
	for i, col := range cols {
		builder.Set(col, vals[i])
	}
	return builder.Where(where...).Suffix(suffix).ToSQL()
}

// Columns lists the db-tagged columns of model in declaration order.
func Columns(model any) ([]string, error) {
	cols, _, err := columnsAndValuesFromModel(model, nil)
	return cols, err
}

func columnsAndValuesFromModel(model any, omit []string) ([]string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, nil, errors.New("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, nil, errors.Newf("model must be struct, got %s", value.Kind())
	}

	skip := make(map[string]struct{}, len(omit))
	for _, col := range omit {
		skip[col] = struct{}{}
	}

	typ := value.Type()
	cols := make([]string, 0, typ.NumField())
	vals := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		col, _, _ := strings.Cut(strings.TrimSpace(field.Tag.Get("db")), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		if _, ok := skip[col]; ok {
			continue
		}
		cols = append(cols, col)
		vals = append(vals, value.Field(i).Interface())
	}

	if len(cols) == 0 {
		return nil, nil, errors.New("model has no db columns")
	}
	return cols, vals, nil
}
