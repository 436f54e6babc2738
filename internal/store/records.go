package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vcfcompare/internal/compare"
	"github.com/inodb/vcfcompare/internal/vcf"
)

// Row is one stored allele of a record.
type Row struct {
	Chrom         string
	Pos           int64
	ID            string
	Ref           string
	Alt           string
	Qual          float64
	HasQual       bool
	Filter        string
	SVType        string
	MateChrom     string // breakend alleles only
	MatePos       int64
	IntervalStart int64
	IntervalEnd   int64
}

// rowKey is the composite key for deduplicating rows before writing.
type rowKey struct {
	chrom, id, ref, alt string
	pos                 int64
}

// RowsFromRecord flattens a decoded record into one row per alternate
// allele. Monomorphic reference lines produce a single row with "." as
// the allele.
func RowsFromRecord(r *vcf.Record) []Row {
	start, end := compare.ConfInterval(r, compare.DefaultIndelWindow)

	base := Row{
		Chrom:         r.Chrom,
		Pos:           r.Pos,
		ID:            r.ID,
		Ref:           r.Ref,
		Qual:          r.Qual,
		HasQual:       r.HasQual,
		Filter:        filterString(r),
		SVType:        r.SVType(),
		IntervalStart: start,
		IntervalEnd:   end,
	}

	if len(r.Alts) == 0 {
		row := base
		row.Alt = "."
		return []Row{row}
	}

	rows := make([]Row, 0, len(r.Alts))
	for _, alt := range r.Alts {
		row := base
		row.Alt = alt
		if vcf.IsBreakendAlt(alt) {
			if b, err := vcf.ParseBreakend(alt); err == nil {
				row.MateChrom = b.MateChrom
				row.MatePos = b.MatePos
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func filterString(r *vcf.Record) string {
	switch r.FilterState {
	case vcf.FilterPass:
		return "PASS"
	case vcf.FilterFailed:
		s := r.Filters[0]
		for _, label := range r.Filters[1:] {
			s += ";" + label
		}
		return s
	}
	return "."
}

// WriteRecords batch-inserts records using the Appender API. Duplicate
// (chrom, pos, id, ref, alt) rows are deduplicated before writing.
func (s *Store) WriteRecords(records []*vcf.Record) (int, error) {
	var rows []Row
	for _, r := range records {
		rows = append(rows, RowsFromRecord(r)...)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	seen := make(map[rowKey]bool, len(rows))
	deduped := rows[:0]
	for _, row := range rows {
		k := rowKey{row.Chrom, row.ID, row.Ref, row.Alt, row.Pos}
		if !seen[k] {
			seen[k] = true
			deduped = append(deduped, row)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return 0, fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "records")
		return err
	}); err != nil {
		return 0, fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, row := range deduped {
		var qual any
		if row.HasQual {
			qual = row.Qual
		}
		var mateChrom, matePos any
		if row.MateChrom != "" {
			mateChrom = row.MateChrom
			matePos = row.MatePos
		}
		if err := appender.AppendRow(
			row.Chrom, row.Pos, row.ID, row.Ref, row.Alt,
			qual, row.Filter, row.SVType,
			mateChrom, matePos,
			row.IntervalStart, row.IntervalEnd,
		); err != nil {
			return 0, fmt.Errorf("append record: %w", err)
		}
	}

	if err := appender.Flush(); err != nil {
		return 0, fmt.Errorf("flush appender: %w", err)
	}
	return len(deduped), nil
}

const selectColumns = `chrom, pos, id, ref, alt, qual, filter, svtype,
		mate_chrom, mate_pos, ival_start, ival_end`

// QueryRegion returns the stored rows whose interval overlaps
// [start, end] on chrom, in coordinate order.
func (s *Store) QueryRegion(chrom string, start, end int64) ([]Row, error) {
	rows, err := s.db.Query(`SELECT `+selectColumns+`
		FROM records
		WHERE chrom=? AND ival_end >= ? AND ival_start <= ?
		ORDER BY pos, id, alt`,
		chrom, start, end)
	if err != nil {
		return nil, fmt.Errorf("query region: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// LookupID returns the stored rows carrying the given record ID.
func (s *Store) LookupID(id string) ([]Row, error) {
	rows, err := s.db.Query(`SELECT `+selectColumns+`
		FROM records
		WHERE id=?
		ORDER BY chrom, pos, alt`, id)
	if err != nil {
		return nil, fmt.Errorf("query id: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Count returns the number of stored rows.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Clear removes all stored rows.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM records")
	return err
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	var out []Row
	for rows.Next() {
		var row Row
		var qual sql.NullFloat64
		var mateChrom sql.NullString
		var matePos sql.NullInt64
		if err := rows.Scan(
			&row.Chrom, &row.Pos, &row.ID, &row.Ref, &row.Alt,
			&qual, &row.Filter, &row.SVType,
			&mateChrom, &matePos,
			&row.IntervalStart, &row.IntervalEnd,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if qual.Valid {
			row.Qual = qual.Float64
			row.HasQual = true
		}
		if mateChrom.Valid {
			row.MateChrom = mateChrom.String
			row.MatePos = matePos.Int64
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}
