package structs

import (
	"encoding/csv"
	"strings"
)

// emptyItem is the record of a list holding a single empty item,
// as an empty string is an empty list.
const emptyItem = `""`

// readList splits the csv record s into its items.
func readList(s string, sep rune) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	r := csv.NewReader(strings.NewReader(s))
	r.Comma = sep
	return r.Read()
}

// writeList joins items into a single csv record, without a trailing newline.
func writeList(items []string, sep rune) (string, error) {
	switch {
	case len(items) == 0:
		return "", nil
	case len(items) == 1 && items[0] == "":
		return emptyItem, nil
	}
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Comma = sep
	if err := w.Write(items); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}
