package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"orgrecon/adapters/excel"
	"orgrecon/app"
	"orgrecon/domain/recon"
	"orgrecon/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "orgrecon",
		Short: "Reconcile supervisor/director ownership in spreadsheet extracts",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newCleanCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		lnbPath     string
		masterPath  string
		accrualPath string
		rosterPath  string
		outDir      string
		minPeers    int
		department  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full resolution cascade and write the derived artifacts",
		Long: `Run the resolution cascade on a raw extract against a master mapping.

Writes roster.xlsx, mapping.xlsx and (with --accrual) accrual_mapped.xlsx to
the output directory and prints the run report.

Example: orgrecon run --lnb lnb.xlsx --master leaders.xlsx --out ./out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if minPeers > 0 {
				cfg.Recon.MinPeerGroup = minPeers
			}
			if department != "" {
				cfg.Recon.Department = department
			}

			return runPipeline(cmd.Context(), cfg.Recon, lnbPath, masterPath, accrualPath, rosterPath, outDir)
		},
	}

	cmd.Flags().StringVar(&lnbPath, "lnb", "", "raw extract workbook (.xlsx or .csv)")
	cmd.Flags().StringVar(&masterPath, "master", "", "master mapping workbook")
	cmd.Flags().StringVar(&accrualPath, "accrual", "", "accrual extract to propagate onto (optional)")
	cmd.Flags().StringVar(&rosterPath, "roster", "", "previously edited roster to honor as overrides (optional)")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory for artifacts")
	cmd.Flags().IntVar(&minPeers, "min-peers", 0, "minimum resolved peers before trusting a majority vote")
	cmd.Flags().StringVar(&department, "department", "", "override the target department identifier")
	_ = cmd.MarkFlagRequired("lnb")
	_ = cmd.MarkFlagRequired("master")

	return cmd
}

func runPipeline(ctx context.Context, cfg recon.Config, lnbPath, masterPath, accrualPath, rosterPath, outDir string) error {
	reader := excel.NewDataReader()
	writer := excel.NewArtifactWriter()
	pipeline := app.NewPipelineService(cfg, nil)

	primary, err := reader.ReadSheets(lnbPath)
	if err != nil {
		return err
	}
	master, err := reader.ReadTable(masterPath)
	if err != nil {
		return err
	}

	in := app.RunInput{
		SourceFile: filepath.Base(lnbPath),
		Primary:    primary,
		Master:     master,
	}
	if accrualPath != "" {
		if in.Accrual, err = reader.ReadSheets(accrualPath); err != nil {
			return err
		}
	}
	if rosterPath != "" {
		editedTable, err := reader.ReadTable(rosterPath)
		if err != nil {
			return err
		}
		edited, err := recon.RosterFromTable(editedTable, cfg.Columns)
		if err != nil {
			return err
		}
		in.EditedRoster = &edited
	}

	res, err := pipeline.Run(ctx, in)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if err := writer.WriteTable(filepath.Join(outDir, "roster.xlsx"), res.Roster.Table(cfg.Columns)); err != nil {
		return err
	}
	if err := writer.WriteTable(filepath.Join(outDir, "mapping.xlsx"), res.Mapped); err != nil {
		return err
	}
	if res.Propagated != nil {
		if err := writer.WriteTable(filepath.Join(outDir, "accrual_mapped.xlsx"), *res.Propagated); err != nil {
			return err
		}
	}
	if res.PropagateWarning != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", res.PropagateWarning)
	}

	fmt.Println(res.Report.Markdown())
	return nil
}

func newCleanCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "clean [workbook]",
		Short: "Normalize a raw workbook and write the clean table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := excel.NewDataReader()
			writer := excel.NewArtifactWriter()

			sheets, err := reader.ReadSheets(args[0])
			if err != nil {
				return err
			}
			clean, err := recon.Normalize(sheets)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = "cleaned.xlsx"
			}
			if err := writer.WriteTable(outPath, clean); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d columns, %d rows)\n", outPath, len(clean.Columns), clean.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "output path (default cleaned.xlsx)")
	return cmd
}
