package main

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"cdecomp/internal/cast"
	"cdecomp/internal/cbackend"
	"cdecomp/internal/config"
	"cdecomp/internal/irtype"
	"cdecomp/internal/pipeline"
	"cdecomp/internal/trace"
	"cdecomp/internal/ui"
)

var (
	flagSerializeAll bool
	flagNoTUI        bool
)

func init() {
	decompileCmd.Flags().BoolVar(&flagSerializeAll, "serialize-all", true, "materialize a named variable for every used instruction")
	decompileCmd.Flags().BoolVar(&flagNoTUI, "no-tui", false, "print plain progress lines instead of the interactive progress bar")
}

var decompileCmd = &cobra.Command{
	Use:   "decompile",
	Short: "Run the statement builder over the built-in demo function",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyColorPreference(flagColor)

		cfg, err := config.Load(flagConfigPath)
		if err != nil {
			return err
		}
		if flagTraceLevel != "" {
			if _, parseErr := trace.ParseLevel(flagTraceLevel); parseErr == nil {
				cfg.TraceLevel = flagTraceLevel
			}
		}
		if flagTarget != "" {
			if t, ok := config.NamedTargets[flagTarget]; ok {
				cfg.Target = t
			}
		}

		tracer, err := trace.New(trace.Config{Level: cfg.ParsedTraceLevel()})
		if err != nil {
			return err
		}
		defer tracer.Close()

		functions := []string{"read_byte_at"}
		events := make(chan pipeline.Event, len(functions)*4)

		g, gctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(1)

		results := make(chan *cbackend.Result, len(functions))
		g.Go(func() error {
			defer close(events)
			defer close(results)
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res, runErr := runDemoBuild(events, cfg)
			if runErr != nil {
				return runErr
			}
			results <- res
			return nil
		})

		runProgress(cmd, functions, events)

		if err := g.Wait(); err != nil {
			return err
		}

		res := <-results
		printResult(cmd, res)
		return nil
	},
}

func runDemoBuild(events chan<- pipeline.Event, cfg config.Config) (*cbackend.Result, error) {
	start := time.Now()
	events <- pipeline.Event{Function: "read_byte_at", Stage: pipeline.StageLayout, Status: pipeline.StatusWorking}

	fn, model, decl := buildDemoFunction()
	graph := buildDemoGraph(fn)
	if !graph.Consistent() {
		events <- pipeline.Event{Function: "read_byte_at", Stage: pipeline.StageLayout, Status: pipeline.StatusError}
		return nil, fmt.Errorf("demo graph failed its own consistency check")
	}

	events <- pipeline.Event{Function: "read_byte_at", Stage: pipeline.StageBuild, Status: pipeline.StatusWorking}

	toSerialize := make(map[irtype.ValueID]bool)
	if flagSerializeAll {
		for _, instr := range fn.Blocks[0].Instrs {
			toSerialize[instr.ID] = true
		}
	}

	res, err := cbackend.BuildFunction(model, fn, decl, cfg.Target.DataLayout(), toSerialize)
	if err != nil {
		events <- pipeline.Event{Function: "read_byte_at", Stage: pipeline.StageBuild, Status: pipeline.StatusError, Err: err}
		return nil, err
	}

	events <- pipeline.Event{Function: "read_byte_at", Stage: pipeline.StageEmit, Status: pipeline.StatusDone, Elapsed: time.Since(start)}
	return res, nil
}

// runProgress drains the event stream through the Bubble Tea progress
// model when stdout is an interactive terminal, falling back to plain
// printed lines otherwise (piped output, --no-tui, or a non-TTY CI run).
func runProgress(cmd *cobra.Command, functions []string, events <-chan pipeline.Event) {
	isTTY := term.IsTerminal(0) && term.IsTerminal(1)
	if flagNoTUI || !isTTY || color.NoColor {
		printEvents(cmd, events)
		return
	}

	program := tea.NewProgram(ui.NewProgressModel("decompile", functions, events))
	if _, err := program.Run(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "progress UI error, falling back to plain output:", err)
	}
}

func printEvents(cmd *cobra.Command, events <-chan pipeline.Event) {
	out := cmd.OutOrStdout()
	isTTY := term.IsTerminal(0)
	for ev := range events {
		label := fmt.Sprintf("[%s] %s: %s", ev.Function, ev.Stage, ev.Status)
		if ev.Err != nil {
			label += ": " + ev.Err.Error()
		}
		if isTTY && !color.NoColor {
			switch ev.Status {
			case pipeline.StatusError:
				label = color.RedString(label)
			case pipeline.StatusDone:
				label = color.GreenString(label)
			default:
				label = color.CyanString(label)
			}
		}
		fmt.Fprintln(out, label)
	}
}

func printResult(cmd *cobra.Command, res *cbackend.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "statements: %d  variables: %d  labels: %d  allocas: %d\n",
		res.Stmts.Arena.Len(), len(res.VarDecls), len(res.BlockLabels), len(res.AllocaVars))

	body, ok := res.Stmts.Compound(res.Body)
	if !ok {
		return
	}
	for _, id := range body.Body {
		describeStmt(out, res, id)
	}
}

func describeStmt(out io.Writer, res *cbackend.Result, id cast.StmtID) {
	stmt := res.Stmts.Get(id)
	if stmt == nil {
		return
	}
	fmt.Fprintf(out, "  stmt[%d] kind=%s\n", id, stmt.Kind)
}
