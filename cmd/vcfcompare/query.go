package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vcfcompare/internal/store"
)

func newQueryCmd() *cobra.Command {
	var (
		dbPath string
		region string
		id     string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query a loaded DuckDB database",
		Long: `Query prints matching rows of a previously loaded database as
tab-delimited text. A region query returns every row whose confidence
interval overlaps chrom:start-end; an ID query returns the rows of one
named variant.`,
		Example: `  vcfcompare query --db calls.duckdb --region 9:84326000-84327000
  vcfcompare query --db calls.duckdb --id a_right_fwd`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (region == "") == (id == "") {
				return fmt.Errorf("%w: exactly one of --region and --id is required", errUsage)
			}
			return runQuery(dbPath, region, id)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB database file (required)")
	cmd.Flags().StringVar(&region, "region", "", "genomic region as chrom:start-end (1-based, inclusive)")
	cmd.Flags().StringVar(&id, "id", "", "variant ID")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runQuery(dbPath, region, id string) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	var rows []store.Row
	if region != "" {
		chrom, start, end, perr := parseRegion(region)
		if perr != nil {
			return perr
		}
		rows, err = st.QueryRegion(chrom, start, end)
	} else {
		rows, err = st.LookupID(id)
	}
	if err != nil {
		return err
	}

	w := bufio.NewWriter(os.Stdout)
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, formatRow(row)); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	logger.Info("query finished", zap.Int("rows", len(rows)))
	return nil
}

// parseRegion parses chrom:start-end. The chromosome may itself
// contain colons, so the region splits on the last one.
func parseRegion(s string) (string, int64, int64, error) {
	i := strings.LastIndexByte(s, ':')
	if i < 1 {
		return "", 0, 0, fmt.Errorf("region %q is not chrom:start-end", s)
	}
	chrom := s[:i]
	startStr, endStr, ok := strings.Cut(s[i+1:], "-")
	if !ok {
		return "", 0, 0, fmt.Errorf("region %q is not chrom:start-end", s)
	}
	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("region start %q is not an integer", startStr)
	}
	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("region end %q is not an integer", endStr)
	}
	if start < 1 || end < start {
		return "", 0, 0, fmt.Errorf("region %q is not a 1-based interval", s)
	}
	return chrom, start, end, nil
}

func formatRow(r store.Row) string {
	qual := "."
	if r.HasQual {
		qual = strconv.FormatFloat(r.Qual, 'g', -1, 64)
	}
	svtype := r.SVType
	if svtype == "" {
		svtype = "."
	}
	mate := "."
	if r.MateChrom != "" {
		mate = fmt.Sprintf("%s:%d", r.MateChrom, r.MatePos)
	}
	fields := []string{
		r.Chrom,
		strconv.FormatInt(r.Pos, 10),
		r.ID,
		r.Ref,
		r.Alt,
		qual,
		r.Filter,
		svtype,
		mate,
		fmt.Sprintf("%d-%d", r.IntervalStart, r.IntervalEnd),
	}
	return strings.Join(fields, "\t")
}
