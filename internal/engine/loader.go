package engine

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v2"
)

// LoadOptions tune LoadFile for formats that need more than a path.
type LoadOptions struct {
	// Table is the SQLite table to read.
	Table string
}

// LoadFile reads records from path, choosing the decoder by extension:
// .csv, .json, .yaml/.yml or .db/.sqlite/.sqlite3.
func LoadFile(ctx context.Context, path string, opts LoadOptions) ([]Record, error) {
	start := time.Now()
	log.Infof("Loading dataset %s...", path)

	var (
		records []Record
		err     error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		var f *os.File
		if f, err = os.Open(path); err != nil {
			return nil, err
		}
		defer f.Close()
		records, err = ReadCSV(f)
	case ".json", ".yaml", ".yml":
		var content []byte
		if content, err = os.ReadFile(path); err != nil {
			return nil, err
		}
		records, err = ReadDocument(content)
	case ".db", ".sqlite", ".sqlite3":
		records, err = LoadSQLite(ctx, path, opts.Table)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Infof("Load Complete. Rows: %d. Time: %v", len(records), time.Since(start))
	return records, nil
}

// ReadCSV decodes a header row followed by data rows. Empty cells become
// null. Cells are text unless their whole column reads as numbers.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, err
	}
	// Strip a UTF-8 BOM left by spreadsheet exports.
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var records []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		fields := make([]Field, len(header))
		for i, name := range header {
			v := Null()
			if row[i] != "" {
				v = Text(row[i])
			}
			fields[i] = Field{Name: name, Value: v}
		}
		records = append(records, NewRecord(fields...))
	}
	return numberColumns(records)
}

// numberColumns converts the text cells of every numeric column to numbers.
func numberColumns(records []Record) ([]Record, error) {
	s, err := DeriveSchema(records)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		for i, f := range r.fields {
			c, _ := s.Lookup(f.Name)
			if c.Kind != ColumnNumeric || f.Value.kind != KindText {
				continue
			}
			n, _ := cellNumber(f.Value.text)
			r.fields[i].Value = Number(n)
		}
	}
	return records, nil
}

// ReadDocument decodes a JSON or YAML sequence of mappings. Key order is
// preserved so the first record fixes the column order.
func ReadDocument(content []byte) ([]Record, error) {
	var docs []yaml.MapSlice
	if err := yaml.Unmarshal(content, &docs); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(docs))
	for i, doc := range docs {
		fields := make([]Field, 0, len(doc))
		for _, item := range doc {
			name := fmt.Sprint(item.Key)
			v, err := scalar(item.Value)
			if err != nil {
				return nil, fmt.Errorf("record %d field %q: %w", i, name, err)
			}
			fields = append(fields, Field{Name: name, Value: v})
		}
		records = append(records, NewRecord(fields...))
	}
	return records, nil
}

// LoadSQLite reads every row of table, keeping the table's column order.
func LoadSQLite(ctx context.Context, path, table string) ([]Record, error) {
	if table == "" {
		return nil, errors.New("sqlite source needs a table name")
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return QueryRecords(ctx, db, "SELECT * FROM "+quoteIdent(table))
}

// QueryRecords runs query against db and converts each row into a record.
func QueryRecords(ctx context.Context, db *sql.DB, query string, args ...any) ([]Record, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []Record
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		fields := make([]Field, len(cols))
		for i, name := range cols {
			v, err := scalar(raw[i])
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", name, err)
			}
			fields[i] = Field{Name: name, Value: v}
		}
		records = append(records, NewRecord(fields...))
	}
	return records, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// scalar converts a decoded document or database value into a Value.
func scalar(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case string:
		return Text(x), nil
	case []byte:
		return Text(string(x)), nil
	case bool:
		return Text(fmt.Sprint(x)), nil
	case int:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case float64:
		return Number(x), nil
	case time.Time:
		return Text(x.Format(time.RFC3339)), nil
	}
	return Null(), fmt.Errorf("unsupported value of type %T", v)
}
