package main

import (
	"flag"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/piwi3910/BarCut/internal/export"
	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/report"
)

// settingsFlags override project settings. Only flags given on the command
// line are applied.
type settingsFlags struct {
	kerf       int
	trimFront  int
	trimBack   int
	maxUnique  int
	percent    bool
	offcut     int
	maxCalls   int
	earlyExit  int
	maxDepth   int
	stock      int
	algorithm  string
	maxWastePc float64
}

func addSettingsFlags(fs *flag.FlagSet) *settingsFlags {
	d := model.DefaultSettings()
	s := &settingsFlags{}
	fs.IntVar(&s.kerf, "kerf", d.KerfWidth, "saw blade width (mm)")
	fs.IntVar(&s.trimFront, "trim-front", d.TrimFront, "material trimmed from the front of each bar (mm)")
	fs.IntVar(&s.trimBack, "trim-back", d.TrimBack, "material trimmed from the back of each bar (mm)")
	fs.IntVar(&s.maxUnique, "max-unique", d.MaxUniqueLengths, "distinct target lengths allowed per bar")
	fs.BoolVar(&s.percent, "percent", d.PercentPriority, "bias patterns toward target goal percentages")
	fs.IntVar(&s.offcut, "offcut", d.OffcutLength, "useful offcut length (mm), 0 disables")
	fs.IntVar(&s.maxCalls, "max-calls", d.Search.MaxCalls, "pattern search node budget per bar")
	fs.IntVar(&s.earlyExit, "early-exit", d.Search.EarlyExitWaste, "leftover (mm) that ends a search early")
	fs.IntVar(&s.maxDepth, "max-depth", d.Search.MaxDepth, "maximum pieces per pattern")
	fs.IntVar(&s.stock, "stock", d.StockLength, "stock length for demand mode (mm)")
	fs.StringVar(&s.algorithm, "algorithm", string(d.Algorithm), "demand packing: first_fit or genetic")
	fs.Float64Var(&s.maxWastePc, "max-waste", d.MaxWastePercent, "flag demand bars wasting more than this percentage")
	return s
}

func (s *settingsFlags) apply(fs *flag.FlagSet, settings *model.CutSettings) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "kerf":
			settings.KerfWidth = s.kerf
		case "trim-front":
			settings.TrimFront = s.trimFront
		case "trim-back":
			settings.TrimBack = s.trimBack
		case "max-unique":
			settings.MaxUniqueLengths = s.maxUnique
		case "percent":
			settings.PercentPriority = s.percent
		case "offcut":
			settings.OffcutEnabled = s.offcut > 0
			if s.offcut > 0 {
				settings.OffcutLength = s.offcut
			}
		case "max-calls":
			settings.Search.MaxCalls = s.maxCalls
		case "early-exit":
			settings.Search.EarlyExitWaste = s.earlyExit
		case "max-depth":
			settings.Search.MaxDepth = s.maxDepth
		case "stock":
			settings.StockLength = s.stock
		case "algorithm":
			switch model.Algorithm(s.algorithm) {
			case model.AlgorithmFirstFit, model.AlgorithmGenetic:
				settings.Algorithm = model.Algorithm(s.algorithm)
			default:
				err = fmt.Errorf("unknown algorithm %q", s.algorithm)
			}
		case "max-waste":
			settings.MaxWastePercent = s.maxWastePc
		}
	})
	if err != nil {
		return err
	}
	return settings.Validate()
}

// exportFlags name the output files to write; empty means skip.
type exportFlags struct {
	csv    string
	xlsx   string
	pdf    string
	dxf    string
	labels string
}

func addExportFlags(fs *flag.FlagSet) *exportFlags {
	e := &exportFlags{}
	fs.StringVar(&e.csv, "csv", "", "write the cut list as CSV")
	fs.StringVar(&e.xlsx, "xlsx", "", "write an Excel workbook")
	fs.StringVar(&e.pdf, "pdf", "", "write a PDF cut sheet")
	fs.StringVar(&e.dxf, "dxf", "", "write a DXF cutting diagram")
	fs.StringVar(&e.labels, "labels", "", "write QR bar labels as PDF")
	return e
}

func (e *exportFlags) write(s report.Summary, settings model.CutSettings) error {
	exports := []struct {
		path string
		fn   func(string) error
	}{
		{e.csv, func(p string) error { return export.ExportCSV(p, s) }},
		{e.xlsx, func(p string) error { return export.ExportXLSX(p, s, settings) }},
		{e.pdf, func(p string) error { return export.ExportPDF(p, s, settings) }},
		{e.dxf, func(p string) error { return export.ExportDXF(p, s, settings) }},
		{e.labels, func(p string) error { return export.ExportLabels(p, s) }},
	}
	for _, x := range exports {
		if x.path == "" {
			continue
		}
		if err := x.fn(x.path); err != nil {
			return fmt.Errorf("export %s: %w", x.path, err)
		}
		log.Info().Str("file", x.path).Msg("Exported")
	}
	return nil
}
