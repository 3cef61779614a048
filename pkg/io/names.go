package io

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"
)

// ReadCSV returns the first-column labels of a CSV document, header row
// excluded. Malformed input yields no labels.
func ReadCSV(r io.Reader) []string {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffComma(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var labels []string
	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil
		}
		if first || len(rec) == 0 {
			continue
		}
		if name := cleanLabel(rec[0]); name != "" {
			labels = append(labels, name)
		}
	}
	return labels
}

// ImportCSV reads the CSV file at path. A missing file is an error; a
// malformed one yields no labels.
func ImportCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f), nil
}

// sniffComma picks ';' when the header row uses it and no commas.
func sniffComma(data []byte) rune {
	header, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.IndexByte(header, ';') >= 0 && bytes.IndexByte(header, ',') < 0 {
		return ';'
	}
	return ','
}

// ParseNames splits free text on commas, semicolons and newlines.
func ParseNames(text string) []string {
	var labels []string
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		for _, part := range strings.FieldsFunc(sc.Text(), func(r rune) bool { return r == ',' || r == ';' }) {
			if name := cleanLabel(part); name != "" {
				labels = append(labels, name)
			}
		}
	}
	return labels
}

func cleanLabel(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}
