package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"

	"github.com/piwi3910/BarCut/internal/importer"
	"github.com/piwi3910/BarCut/internal/model"
	"github.com/piwi3910/BarCut/internal/project"
)

// editProject loads a project, runs edit in a session and saves the project
// when every step succeeded. On failure all steps are rolled back and nothing
// is written.
func editProject(path string, cfg model.AppConfig, edit func(s *project.Session) error) (*project.Session, error) {
	p, err := project.LoadOrNew(path, cfg)
	if err != nil {
		return nil, err
	}
	s := project.NewSession(&p)
	if err := edit(s); err != nil {
		n := s.Rollback()
		log.Debug().Int("steps", n).Msg("Rolled back edits")
		return s, err
	}
	if !s.CanUndo() {
		return s, nil
	}
	if err := project.Save(path, p); err != nil {
		return s, err
	}
	return s, nil
}

func cmdInventory(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("inventory", flag.ContinueOnError)
	common := addCommonFlags(fs)
	projectPath := fs.String("project", defaultProjectPath, "project file")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: barcut inventory [flags] list | add LENGTH QTY | remove LENGTH | clear | import FILE | matrix FILE")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := common.setup()
	if err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		rest = []string{"list"}
	}
	op, params := rest[0], rest[1:]

	s, err := editProject(*projectPath, cfg, func(s *project.Session) error {
		switch op {
		case "list":
			return nil
		case "add":
			nums, err := parseInts(params, 2)
			if err != nil {
				return err
			}
			return s.AddStock(nums[0], nums[1])
		case "remove":
			nums, err := parseInts(params, 1)
			if err != nil {
				return err
			}
			return s.RemoveStock(nums[0])
		case "clear":
			return s.ClearStock()
		case "import", "matrix":
			if len(params) != 1 {
				return fmt.Errorf("%s needs a file", op)
			}
			var r importer.ImportResult
			if op == "matrix" {
				r = importer.ImportMatrixExcel(params[0])
			} else {
				r = importer.ImportInventory(params[0])
			}
			logImport(r)
			if len(r.Errors) > 0 && len(r.Stocks) == 0 {
				return fmt.Errorf("nothing imported from %s", params[0])
			}
			return s.ImportStock(r.Stocks)
		default:
			return fmt.Errorf("unknown inventory operation %q", op)
		}
	})
	if err != nil {
		return err
	}
	return printInventory(out, s.Project.Inventory)
}

func printInventory(out io.Writer, inv model.Inventory) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLabel\tLength\tQty")
	for _, st := range inv.Stocks {
		fmt.Fprintf(tw, "%s\t%s\t%d mm\t%d\n", st.ID, st.Label, st.Length, st.Quantity)
	}
	fmt.Fprintf(tw, "\t\t%d mm\t%d bars\n", inv.TotalLength(), inv.Count())
	return tw.Flush()
}

func cmdTargets(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("targets", flag.ContinueOnError)
	common := addCommonFlags(fs)
	projectPath := fs.String("project", defaultProjectPath, "project file")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: barcut targets [flags] list | set LENGTH=PERCENT... | remove LENGTH... | import FILE")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := common.setup()
	if err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		rest = []string{"list"}
	}
	op, params := rest[0], rest[1:]

	s, err := editProject(*projectPath, cfg, func(s *project.Session) error {
		switch op {
		case "list":
			return nil
		case "set":
			for _, p := range params {
				length, pct, err := parseTargetArg(p)
				if err != nil {
					return err
				}
				if err := s.SetTarget(length, pct); err != nil {
					return err
				}
			}
			return nil
		case "remove":
			lengths, err := parseInts(params, len(params))
			if err != nil {
				return err
			}
			for _, l := range lengths {
				if err := s.RemoveTarget(l); err != nil {
					return err
				}
			}
			return nil
		case "import":
			if len(params) != 1 {
				return fmt.Errorf("import needs a file")
			}
			r := importer.ImportTargetsCSV(params[0])
			logImport(r)
			if len(r.Errors) > 0 {
				return fmt.Errorf("target import failed: %s", strings.Join(r.Errors, "; "))
			}
			for _, t := range r.Targets {
				if err := s.SetTarget(t.Length, t.Percent); err != nil {
					return err
				}
			}
			return nil
		default:
			return fmt.Errorf("unknown targets operation %q", op)
		}
	})
	if err != nil {
		return err
	}
	return printTargets(out, s.Project.Targets)
}

func printTargets(out io.Writer, reg model.TargetRegistry) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Length\tGoal")
	total := 0
	for _, l := range reg.Lengths() {
		fmt.Fprintf(tw, "%d mm\t%d%%\n", l, reg.Goal(l))
		total += reg.Goal(l)
	}
	if total > 0 && total != 100 {
		fmt.Fprintf(tw, "\t(goals sum to %d%%, used as relative weights)\n", total)
	}
	return tw.Flush()
}

// parseTargetArg parses "1090=50" or a bare "1090" (goal 0).
func parseTargetArg(arg string) (int, int, error) {
	lengthStr, pctStr, hasPct := strings.Cut(arg, "=")
	length, err := strconv.Atoi(strings.TrimSpace(lengthStr))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid target %q", arg)
	}
	if !hasPct {
		return length, 0, nil
	}
	pct, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(pctStr), "%"))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid percentage in %q", arg)
	}
	return length, pct, nil
}

// parseInts parses exactly n integer arguments.
func parseInts(args []string, n int) ([]int, error) {
	if len(args) != n || n == 0 {
		return nil, fmt.Errorf("expected %d numeric arguments, got %d", max(n, 1), len(args))
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = v
	}
	return out, nil
}
