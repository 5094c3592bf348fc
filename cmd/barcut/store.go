package main

import (
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/project"
)

func cmdHistory(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	common := addCommonFlags(fs)
	runLog := fs.String("runlog", "", "run log database (default from config)")
	name := fs.String("project", "", "only runs of this project or demand file")
	limit := fs.Int("limit", 20, "number of runs to show, 0 for all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := common.setup()
	if err != nil {
		return err
	}

	path := *runLog
	if path == "" {
		path = cfg.RunLogPath
	}
	if path == "" {
		return fmt.Errorf("no run log configured: set run_log_path in %s or pass -runlog", common.configPath)
	}

	db, err := project.OpenRunLog(path)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := project.ListRuns(db, *name, *limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tWhen\tProject\tMode\tBars\tPieces\tWaste\tNotes")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%.1f%%\t%s\n",
			r.ID, r.RanAt.Local().Format(time.DateTime), r.Project, r.Mode, r.Bars, r.Pieces, r.WastePercent, r.Conditions)
	}
	return tw.Flush()
}

func cmdTemplate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("template", flag.ContinueOnError)
	common := addCommonFlags(fs)
	projectPath := fs.String("project", defaultProjectPath, "project file")
	storePath := fs.String("store", "", "template store (default ~/.barcut/templates.json)")
	desc := fs.String("desc", "", "template description for save")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: barcut template [flags] list | save NAME | apply NAME | delete NAME")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := common.setup()
	if err != nil {
		return err
	}

	path := *storePath
	if path == "" {
		if path, err = project.DefaultTemplatePath(); err != nil {
			return err
		}
	}
	store, err := project.LoadTemplates(path)
	if err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		rest = []string{"list"}
	}
	if rest[0] != "list" && len(rest) != 2 {
		return fmt.Errorf("template %s needs a name", rest[0])
	}

	switch rest[0] {
	case "list":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tName\tTargets\tDescription")
		for _, t := range store.Templates {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", t.ID, t.Name, t.Targets.Len(), t.Description)
		}
		return tw.Flush()

	case "save":
		p, err := project.LoadOrNew(*projectPath, cfg)
		if err != nil {
			return err
		}
		if old := store.FindByName(rest[1]); old != nil {
			store.Remove(old.ID)
		}
		store.Add(model.NewProjectTemplate(rest[1], *desc, p.Inventory, p.Targets, p.Settings))
		if err := project.SaveTemplates(path, store); err != nil {
			return err
		}
		log.Info().Str("template", rest[1]).Msg("Saved template")
		return nil

	case "apply":
		t := store.FindByName(rest[1])
		if t == nil {
			return fmt.Errorf("no template named %q", rest[1])
		}
		p := t.ToProject(t.Name)
		if err := project.Save(*projectPath, p); err != nil {
			return err
		}
		log.Info().Str("template", t.Name).Str("project", *projectPath).Msg("Created project from template")
		return nil

	case "delete":
		t := store.FindByName(rest[1])
		if t == nil || !store.Remove(t.ID) {
			return fmt.Errorf("no template named %q", rest[1])
		}
		return project.SaveTemplates(path, store)

	default:
		return fmt.Errorf("unknown template operation %q", rest[0])
	}
}

func cmdBackup(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	common := addCommonFlags(fs)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: barcut backup [flags] export FILE | import FILE")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := common.setup()
	if err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("backup needs an operation and a file")
	}
	file := fs.Arg(1)

	switch fs.Arg(0) {
	case "export":
		inv, _, err := project.LoadOrCreateInventory()
		if err != nil {
			return err
		}
		store, err := project.LoadDefaultTemplates()
		if err != nil {
			return err
		}
		if err := project.ExportAllData(file, cfg, inv, store); err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported config, %d stock batches and %d templates to %s\n", len(inv.Stocks), len(store.Templates), file)
		return nil

	case "import":
		backup, err := project.ImportAllData(file)
		if err != nil {
			return err
		}
		if err := project.SaveAppConfig(common.configPath, backup.Config); err != nil {
			return err
		}
		invPath, err := project.DefaultInventoryPath()
		if err != nil {
			return err
		}
		if err := project.SaveInventory(invPath, backup.Inventory); err != nil {
			return err
		}
		if err := project.SaveDefaultTemplates(backup.Templates); err != nil {
			return err
		}
		fmt.Fprintf(out, "Restored backup from %s (created %s)\n", file, backup.CreatedAt)
		return nil

	default:
		return fmt.Errorf("unknown backup operation %q", fs.Arg(0))
	}
}
