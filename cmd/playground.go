package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zjrosen/inlineedit/internal/config"
	"github.com/zjrosen/inlineedit/internal/journal"
	"github.com/zjrosen/inlineedit/internal/log"
	"github.com/zjrosen/inlineedit/internal/mode/playground"
	"github.com/zjrosen/inlineedit/internal/paths"
	"github.com/zjrosen/inlineedit/internal/store"
	"github.com/zjrosen/inlineedit/internal/tracing"
)

var (
	formFlag     string
	valuesFlag   string
	traceFlag    string
	endpointFlag string
	insecureFlag bool
	noWatchFlag  bool
	journalFlag  bool
)

var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Edit a demo form of inline fields",
	Long: `Launch a form of inline-edit fields.

The form comes from --form, else form.yaml in the data directory, else the
built-in demo form. Saved values are written to --values (default
values.yaml in the data directory). A form file is watched and reloaded
on change unless --no-watch is given.`,
	Args: cobra.NoArgs,
	RunE: runPlayground,
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
	playgroundCmd.Flags().StringVar(&formFlag, "form", "", "form definition file (YAML)")
	playgroundCmd.Flags().StringVar(&valuesFlag, "values", "", "file saved values are written to (YAML)")
	playgroundCmd.Flags().StringVar(&traceFlag, "trace-file", "", "export edit session traces to this file")
	playgroundCmd.Flags().StringVar(&endpointFlag, "trace-endpoint", "", "export edit session traces to an OTLP gRPC collector (host:port)")
	playgroundCmd.Flags().BoolVar(&insecureFlag, "trace-insecure", false, "use plaintext gRPC for --trace-endpoint")
	playgroundCmd.Flags().BoolVar(&noWatchFlag, "no-watch", false, "do not reload the form file on change")
	playgroundCmd.Flags().BoolVar(&journalFlag, "journal", false, "record every save in the data directory's journal")
}

func runPlayground(cmd *cobra.Command, args []string) error {
	dir := paths.ResolveDir(dataDir)

	formPath := formFlag
	if formPath == "" && paths.Exists(paths.FormFile(dir)) {
		formPath = paths.FormFile(dir)
	}
	form, reloads, err := loadForm(formPath, !noWatchFlag)
	if err != nil {
		return err
	}

	valuesPath := valuesFlag
	if valuesPath == "" {
		valuesPath = paths.ValuesFile(dir)
	}
	s, err := store.Open(valuesPath, form.Names())
	if err != nil {
		return err
	}

	var j *journal.Journal
	if journalFlag {
		if j, err = openJournal(cmd.Context(), dir); err != nil {
			return err
		}
		defer func() { _ = j.Close() }()
	}

	tp, err := tracing.Setup(cmd.Context(), tracing.Config{
		File:     traceFlag,
		Endpoint: endpointFlag,
		Insecure: insecureFlag,
	})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatMode, "trace shutdown failed", err)
		}
	}()

	model := playground.New(playground.Config{
		Form:    form,
		Store:   s,
		Journal: j,
		Tracer:  tp.Tracer(tracing.ServiceName),
		Reloads: reloads,
	})
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()
	if err != nil {
		return fmt.Errorf("running playground: %w", err)
	}
	return nil
}

// loadForm loads the form at path, or the built-in form when path is empty.
// With watch set, later versions of the file arrive on the returned channel.
func loadForm(path string, watch bool) (config.Form, <-chan config.Form, error) {
	if path == "" {
		form, err := config.Default()
		return form, nil, err
	}
	if !watch {
		form, err := config.Load(path)
		return form, nil, err
	}
	reloads := make(chan config.Form, 1)
	form, err := config.Watch(path, func(f config.Form) {
		offerLatest(reloads, f)
	})
	if err != nil {
		return config.Form{}, nil, err
	}
	return form, reloads, nil
}

// offerLatest puts f in the single-slot channel, replacing a form the
// program has not picked up yet.
func offerLatest(ch chan config.Form, f config.Form) {
	for {
		select {
		case ch <- f:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
