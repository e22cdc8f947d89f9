// Package storage reads word records from JSONL files and keeps an
// ephemeral SQLite cache of them for queries.
package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matsen/wordgraph/internal/word"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// ReadRecords reads all records from a file. The file may hold one JSON
// object per line or a single JSON array. A missing file yields no records.
func ReadRecords(path string) ([]word.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening records file: %w", err)
	}
	defer f.Close()

	return DecodeRecords(f)
}

// DecodeRecords reads records in JSONL or JSON array form from r.
func DecodeRecords(r io.Reader) ([]word.Record, error) {
	br := bufio.NewReader(r)
	if isArray, err := startsWithArray(br); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	} else if isArray {
		var records []word.Record
		if err := json.NewDecoder(br).Decode(&records); err != nil {
			return nil, fmt.Errorf("parsing records array: %w", err)
		}
		return records, nil
	}

	var records []word.Record
	scanner := bufio.NewScanner(br)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec word.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	return records, nil
}

// startsWithArray peeks past leading whitespace to see if the input is a JSON array.
func startsWithArray(br *bufio.Reader) (bool, error) {
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return false, err
		}
		return b == '[', nil
	}
}

// WriteRecords writes records as JSONL, replacing existing content.
func WriteRecords(path string, records []word.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating records file: %w", err)
	}
	defer f.Close()

	if err := EncodeRecords(f, records); err != nil {
		return err
	}
	return f.Close()
}

// EncodeRecords writes records to w, one JSON object per line.
func EncodeRecords(w io.Writer, records []word.Record) error {
	enc := json.NewEncoder(w)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	return nil
}
