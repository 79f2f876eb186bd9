package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fivetwenty-io/aadgraph/internal/constants"
	"github.com/fivetwenty-io/aadgraph/pkg/graph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Columns shown for objects when --columns is not given.
var defaultObjectColumns = []string{constants.ObjectTypeField, constants.ObjectIDField, "displayName"}

func validateOutputFormat(format string) error {
	switch format {
	case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return nil
	default:
		return fmt.Errorf("%w: %q", constants.ErrInvalidOutputFormat, format)
	}
}

func outputFormat() (string, error) {
	format := viper.GetString("output")
	if format == "" {
		return constants.FormatTable, nil
	}

	err := validateOutputFormat(format)
	if err != nil {
		return "", err
	}

	return format, nil
}

// renderResult writes a raw API response. A nil result (no content) prints
// nothing.
func renderResult(w io.Writer, raw json.RawMessage, format string) error {
	if raw == nil {
		return nil
	}

	switch format {
	case constants.FormatJSON:
		var indented bytes.Buffer

		err := json.Indent(&indented, raw, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}

		indented.WriteByte('\n')
		_, err = indented.WriteTo(w)

		return err
	case constants.FormatYAML:
		var value interface{}

		err := json.Unmarshal(raw, &value)
		if err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}

		return yaml.NewEncoder(w).Encode(value)
	default:
		return renderTable(w, raw)
	}
}

func renderTable(w io.Writer, raw json.RawMessage) error {
	var value interface{}

	err := json.Unmarshal(raw, &value)
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	switch v := value.(type) {
	case []interface{}:
		objects := make([]graph.Object, 0, len(v))

		for _, item := range v {
			object, ok := item.(map[string]interface{})
			if !ok {
				object = map[string]interface{}{constants.ValueField: item}
			}

			objects = append(objects, object)
		}

		return renderObjectTable(w, objects, unionColumns(objects))
	case map[string]interface{}:
		object := graph.Object(v)
		table := tablewriter.NewWriter(w)
		table.Header("Property", "Value")

		for _, key := range sortedKeys(object) {
			_ = table.Append([]string{key, truncate(object.String(key))})
		}

		err = table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	default:
		_, err = fmt.Fprintln(w, graph.Object{constants.ValueField: v}.String(constants.ValueField))

		return err
	}
}

// renderObjects writes a collected object list.
func renderObjects(w io.Writer, objects []graph.Object, columns []string, format string) error {
	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(objects)
	case constants.FormatYAML:
		return yaml.NewEncoder(w).Encode(objects)
	default:
		if len(columns) == 0 {
			columns = defaultObjectColumns
		}

		return renderObjectTable(w, objects, columns)
	}
}

func renderObjectTable(w io.Writer, objects []graph.Object, columns []string) error {
	if len(objects) == 0 {
		_, err := fmt.Fprintln(w, "No objects found")

		return err
	}

	header := make([]any, 0, len(columns))
	for _, column := range columns {
		header = append(header, column)
	}

	table := tablewriter.NewWriter(w)
	table.Header(header...)

	for _, object := range objects {
		row := make([]string, 0, len(columns))
		for _, column := range columns {
			row = append(row, truncate(object.String(column)))
		}

		_ = table.Append(row)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// unionColumns lists every key present in objects, with objectType and
// objectId first when present.
func unionColumns(objects []graph.Object) []string {
	seen := make(map[string]bool)

	for _, object := range objects {
		for key := range object {
			seen[key] = true
		}
	}

	columns := make([]string, 0, len(seen))

	for _, preferred := range []string{constants.ObjectTypeField, constants.ObjectIDField} {
		if seen[preferred] {
			columns = append(columns, preferred)
			delete(seen, preferred)
		}
	}

	rest := make([]string, 0, len(seen))
	for key := range seen {
		rest = append(rest, key)
	}

	sort.Strings(rest)

	return append(columns, rest...)
}

func sortedKeys(object graph.Object) []string {
	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func truncate(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")

	runes := []rune(s)
	if len(runes) <= constants.StringTruncationLimit {
		return s
	}

	return string(runes[:constants.StringTruncationLimit-3]) + "..."
}

// parseColumns splits a comma separated --columns value.
func parseColumns(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")

	columns := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			columns = append(columns, trimmed)
		}
	}

	return columns
}
