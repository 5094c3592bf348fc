package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/piwi3910/BarCut/internal/engine"
	"github.com/piwi3910/BarCut/internal/importer"
	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/project"
	"github.com/piwi3910/BarCut/internal/report"
)

const defaultProjectPath = "project" + project.FileExtension

func cmdOptimize(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("optimize", flag.ContinueOnError)
	common := addCommonFlags(fs)
	projectPath := fs.String("project", defaultProjectPath, "project file")
	sf := addSettingsFlags(fs)
	ef := addExportFlags(fs)
	save := fs.Bool("save", false, "store the settings and result in the project file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := common.setup()
	if err != nil {
		return err
	}

	p, err := project.LoadOrNew(*projectPath, cfg)
	if err != nil {
		return err
	}
	if err := sf.apply(fs, &p.Settings); err != nil {
		return err
	}

	result := engine.New(p.Settings).Optimize(p.Inventory, p.Targets)
	summary := report.Summarize(result, p.Targets)
	if err := report.WriteText(out, summary); err != nil {
		return err
	}
	if err := ef.write(summary, p.Settings); err != nil {
		return err
	}
	recordRun(cfg, p.Name, project.ModeStock, summary)

	if *save {
		p.Result = &result
		if err := project.Save(*projectPath, p); err != nil {
			return err
		}
		rememberProject(common, cfg, *projectPath)
	}
	return nil
}

func cmdDemand(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("demand", flag.ContinueOnError)
	common := addCommonFlags(fs)
	file := fs.String("file", "", "demand file (.csv or .xlsx)")
	packages := fs.String("packages", "", "comma-separated packages to include (default all)")
	list := fs.Bool("list", false, "list the packages in the file and exit")
	buffer := fs.Float64("buffer", 10, "waste buffer for the purchase estimate (%)")
	sf := addSettingsFlags(fs)
	ef := addExportFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := common.setup()
	if err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("demand needs -file")
	}

	if *list {
		pkgs, err := importer.Packages(*file)
		if err != nil {
			return err
		}
		for _, p := range pkgs {
			fmt.Fprintln(out, p)
		}
		return nil
	}

	imported := importer.ImportDemand(*file, splitList(*packages))
	logImport(imported)
	if len(imported.Errors) > 0 {
		return fmt.Errorf("demand import failed: %s", strings.Join(imported.Errors, "; "))
	}

	settings := model.DefaultSettings()
	cfg.ApplyToSettings(&settings)
	if err := sf.apply(fs, &settings); err != nil {
		return err
	}

	result := engine.New(settings).OptimizeDemand(imported.Demand)
	summary := report.Summarize(result, model.NewTargetRegistry())
	if err := report.WriteText(out, summary); err != nil {
		return err
	}

	if settings.MaxWastePercent > 0 {
		for i, b := range result.Bars {
			if w := b.WastePercent(); w > settings.MaxWastePercent {
				fmt.Fprintf(out, "Bar %d wastes %.1f%% (limit %.1f%%)\n", i+1, w, settings.MaxWastePercent)
			}
		}
	}

	est := model.CalculatePurchaseEstimate(imported.Demand, settings, *buffer)
	fmt.Fprintf(out, "\nPurchase estimate: %d pieces, %.1f m incl. kerf, at least %d bars of %d mm, %d with %.0f%% buffer\n",
		est.TotalPieces, float64(est.TotalDemand)/1000, est.BarsNeededMin, est.StockLength, est.BarsWithWaste, est.WastePercent)

	if err := ef.write(summary, settings); err != nil {
		return err
	}
	recordRun(cfg, *file, project.ModeDemand, summary)
	return nil
}

func cmdCompare(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	common := addCommonFlags(fs)
	projectPath := fs.String("project", defaultProjectPath, "project file")
	sf := addSettingsFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := common.setup()
	if err != nil {
		return err
	}

	p, err := project.LoadOrNew(*projectPath, cfg)
	if err != nil {
		return err
	}
	if err := sf.apply(fs, &p.Settings); err != nil {
		return err
	}

	results := engine.CompareScenarios(engine.BuildDefaultScenarios(p.Settings), p.Inventory, p.Targets)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Scenario\tBars\tPieces\tOffcuts\tWaste")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1f%%\n", r.Scenario.Name, r.BarsUsed, r.Pieces, r.Offcuts, r.WastePercent)
	}
	return tw.Flush()
}

// recordRun appends the run to the configured run log. Failures are only logged.
func recordRun(cfg model.AppConfig, name, mode string, s report.Summary) {
	if cfg.RunLogPath == "" {
		return
	}
	db, err := project.OpenRunLog(cfg.RunLogPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.RunLogPath).Msg("Cannot open run log")
		return
	}
	defer db.Close()

	id, err := project.RecordRun(db, project.NewRunRecord(name, mode, s))
	if err != nil {
		log.Warn().Err(err).Msg("Cannot record run")
		return
	}
	log.Debug().Int64("run", id).Msg("Recorded run")
}

// rememberProject puts path at the top of the recent-projects list.
func rememberProject(common *commonFlags, cfg model.AppConfig, path string) {
	project.AddRecentProject(&cfg, path)
	if err := project.SaveAppConfig(common.configPath, cfg); err != nil {
		log.Warn().Err(err).Msg("Cannot update recent projects")
	}
}

func logImport(r importer.ImportResult) {
	for _, w := range r.Warnings {
		log.Warn().Msg(w)
	}
	for _, e := range r.Errors {
		log.Error().Msg(e)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
