package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vcfcompare/internal/compare"
	"github.com/inodb/vcfcompare/internal/output"
	"github.com/inodb/vcfcompare/internal/vcf"
)

func newCompareCmd() *cobra.Command {
	var (
		indelWindow     int64
		svWindow        int64
		weightIntervals bool
		maskPath        string
		outPath         string
		writeVCFs       bool
	)

	cmd := &cobra.Command{
		Use:   "compare <a.vcf> <b.vcf>",
		Short: "Compare two VCF call sets",
		Long: `Compare matches the records of two call sets in both directions and
prints one summary row per variant class (SNV, INDEL, CNV, SV).

SNVs match on position, REF and ALT. Indels match on REF and ALT
within a window around the call. Structural variants match when their
confidence intervals overlap and the breakend orientations agree.`,
		Example: `  vcfcompare compare a.vcf b.vcf
  vcfcompare compare -w --mask hard_regions.bed a.vcf.gz b.vcf.gz
  vcfcompare compare --write-vcf --sv-window 500 a.vcf b.vcf`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := compare.Options{
				IndelWindow:     indelWindow,
				SVWindow:        svWindow,
				WeightIntervals: weightIntervals,
			}
			// Flags beat the config file; unset flags fall back to it.
			if !cmd.Flags().Changed("indel-window") {
				opts.IndelWindow = viper.GetInt64("compare.indel_window")
			}
			if !cmd.Flags().Changed("sv-window") {
				opts.SVWindow = viper.GetInt64("compare.sv_window")
			}
			if !cmd.Flags().Changed("weight-intervals") {
				opts.WeightIntervals = viper.GetBool("compare.weight_intervals")
			}
			return runCompare(args[0], args[1], opts, maskPath, outPath, writeVCFs)
		},
	}

	cmd.Flags().Int64Var(&indelWindow, "indel-window", compare.DefaultIndelWindow, "bases around an indel that still count as the same call")
	cmd.Flags().Int64Var(&svWindow, "sv-window", compare.DefaultSVWindow, "bases around a structural variant searched for candidate matches")
	cmd.Flags().BoolVarP(&weightIntervals, "weight-intervals", "w", false, "weight interval scores by the normal density mass of the overlap")
	cmd.Flags().StringVarP(&maskPath, "mask", "m", "", "BED file of regions to exclude from the comparison")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "summary file (default: stdout)")
	cmd.Flags().BoolVar(&writeVCFs, "write-vcf", false, "write .matched.vcf and .unmatched.vcf next to each input")

	return cmd
}

func runCompare(aPath, bPath string, opts compare.Options, maskPath, outPath string, writeVCFs bool) error {
	if maskPath != "" {
		mask, err := compare.LoadMask(maskPath)
		if err != nil {
			return err
		}
		logger.Info("loaded mask",
			zap.String("file", maskPath),
			zap.Int("intervals", mask.Size()))
		opts.Mask = mask
	}

	aRecords, aHeader, err := readCallSet(aPath)
	if err != nil {
		return err
	}
	bRecords, bHeader, err := readCallSet(bPath)
	if err != nil {
		return err
	}

	comparer := compare.NewComparer(opts)
	comparer.SetLogger(logger)

	ab := comparer.Compare(aRecords, bRecords)
	ba := comparer.Compare(bRecords, aRecords)
	rows := comparer.Summarize(ab, ba)

	out := os.Stdout
	if outPath != "" {
		out, err = os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create summary file: %w", err)
		}
		defer out.Close()
	}
	if err := output.NewSummaryWriter(out).WriteAll(rows); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	if writeVCFs {
		if err := writeSplitVCFs(aPath, aHeader, ab); err != nil {
			return err
		}
		if err := writeSplitVCFs(bPath, bHeader, ba); err != nil {
			return err
		}
	}
	return nil
}

// readCallSet reads all records of one input, collecting undecodable
// lines instead of aborting on them.
func readCallSet(path string) ([]*vcf.Record, []string, error) {
	f, err := vcf.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	f.SetLogger(logger)
	f.SetPolicy(vcf.CollectErrors)

	records, err := f.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if n := len(f.Errs()); n > 0 {
		logger.Warn("skipped undecodable lines",
			zap.String("file", path),
			zap.Int("lines", n))
	}
	logger.Info("read call set",
		zap.String("file", path),
		zap.Int("records", len(records)))
	return records, f.Schema().HeaderLines(), nil
}

// writeSplitVCFs writes the matched and unmatched records of one
// comparison direction next to the input they came from.
func writeSplitVCFs(path string, headerLines []string, res *compare.Result) error {
	matched, unmatched := compare.SplitByMatch(res)
	if err := writeVCF(splitName(path, "matched"), headerLines, matched); err != nil {
		return err
	}
	return writeVCF(splitName(path, "unmatched"), headerLines, unmatched)
}

func writeVCF(path string, headerLines []string, records []*vcf.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	vw := output.NewVCFWriter(f, headerLines)
	if err := vw.WriteHeader(); err != nil {
		return err
	}
	if err := vw.WriteRecords(records); err != nil {
		return err
	}
	if err := vw.Flush(); err != nil {
		return err
	}
	logger.Info("wrote vcf",
		zap.String("file", path),
		zap.Int("records", vw.Records()))
	return nil
}

// splitName turns a.vcf or a.vcf.gz into a.<suffix>.vcf. Split outputs
// are plain text even when the input was compressed.
func splitName(path, suffix string) string {
	if path == "-" {
		path = "stdin"
	}
	base := strings.TrimSuffix(path, ".gz")
	base = strings.TrimSuffix(base, ".vcf")
	return base + "." + suffix + ".vcf"
}
