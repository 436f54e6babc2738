package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vcfcompare/internal/output"
	"github.com/inodb/vcfcompare/internal/vcf"
)

func newValidateCmd() *cobra.Command {
	var (
		outPath  string
		failFast bool
	)

	cmd := &cobra.Command{
		Use:   "validate <input.vcf>",
		Short: "Validate a VCF file against its own header",
		Long: `Validate decodes every record of a VCF file, checks it against the
declarations in the file's header and the structural-variant
consistency rules, and writes a tab-delimited report of the findings.

The exit status is non-zero when the report contains errors; warnings
alone leave it zero.`,
		Example: `  vcfcompare validate calls.vcf
  vcfcompare validate --fail-fast -o report.tsv calls.vcf.gz
  cat calls.vcf | vcfcompare validate -`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], outPath, failFast)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "report file (default: stdout)")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first undecodable line instead of collecting them")

	return cmd
}

func runValidate(path, outPath string, failFast bool) error {
	f, err := vcf.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	f.SetLogger(logger)
	if !failFast {
		f.SetPolicy(vcf.CollectErrors)
	}

	records, err := f.ReadAll()
	if err != nil {
		return err
	}

	validator := vcf.NewValidator(f.Schema())
	var violations []vcf.Violation
	for _, r := range records {
		violations = append(violations, validator.ValidateRecord(r)...)
	}
	violations = append(violations, validator.ValidateSet(records)...)

	out := os.Stdout
	if outPath != "" {
		out, err = os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer out.Close()
	}

	rw := output.NewReportWriter(out)
	if err := rw.WriteReport(f.Errs(), violations); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	logger.Info("validation finished",
		zap.String("file", path),
		zap.Int("records", len(records)),
		zap.Int("errors", rw.Errors()),
		zap.Int("warnings", rw.Warnings()))

	if rw.Errors() > 0 {
		return fmt.Errorf("%s: %d error(s), %d warning(s)", path, rw.Errors(), rw.Warnings())
	}
	return nil
}
