package utils

import (
	"fmt"
	"reflect"
)

// ColumnList builds the list of column names of a db model struct from its
// `db` tags, optionally prefixed with a table alias.
func ColumnList[T any](prefixes ...string) []string {
	var model T
	modelType := reflect.TypeOf(model)
	if modelType.Kind() != reflect.Struct {
		panic(fmt.Sprintf("ColumnList: %T is not a struct", model))
	}

	prefix := ""
	if len(prefixes) > 0 {
		prefix = prefixes[0] + "."
	}

	columns := make([]string, 0, modelType.NumField())
	for i := 0; i < modelType.NumField(); i++ {
		tag, ok := modelType.Field(i).Tag.Lookup("db")
		if !ok || tag == "-" {
			continue
		}
		columns = append(columns, prefix+tag)
	}
	return columns
}

func Ptr[T any](v T) *T {
	return &v
}
