package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"

	"github.com/dsjohal14/peoplepicker/internal/dropdown"
	"github.com/dsjohal14/peoplepicker/internal/libs/config"
	"github.com/dsjohal14/peoplepicker/internal/libs/obs"
	"github.com/dsjohal14/peoplepicker/internal/remote"
	"github.com/dsjohal14/peoplepicker/internal/scope/db"
	"github.com/dsjohal14/peoplepicker/internal/scope/record"
	"github.com/dsjohal14/peoplepicker/internal/scope/search"
	"github.com/dsjohal14/peoplepicker/internal/streamlite"
	"github.com/dsjohal14/peoplepicker/internal/tui"
)

type tuiOptions struct {
	configPath string
	url        string
	dataset    string
	msgpack    bool
	inProcess  bool
	logPath    string
	logLevel   string
}

func newTUICmd() *cobra.Command {
	var opts tuiOptions

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Pick users interactively in the terminal",
		Long: "Pick users interactively in the terminal.\n\n" +
			"Users come from a /users endpoint when --url is set, otherwise from a dataset file.\n" +
			"Selected users are printed as JSON lines on exit.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "peoplepicker.toml", "picker TOML config")
	f.StringVar(&opts.url, "url", "", "remote /users endpoint, overrides source.url")
	f.StringVar(&opts.dataset, "dataset", "", "dataset file, overrides source.dataset")
	f.BoolVar(&opts.msgpack, "msgpack", false, "request MessagePack from the remote endpoint")
	f.BoolVar(&opts.inProcess, "in-process", false, "serve the dataset through the paged search engine instead of local filtering")
	f.StringVar(&opts.logPath, "log", "peoplepicker.log", "log file")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level")
	return cmd
}

func runTUI(cmd *cobra.Command, opts tuiOptions) error {
	logFile, err := os.OpenFile(opts.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	obs.InitLoggerWithWriter(opts.logLevel, logFile)
	logger := obs.Logger("tui")

	pc, err := config.LoadPicker(opts.configPath)
	if err != nil {
		return err
	}
	if opts.url != "" {
		pc.Source.URL = opts.url
	}
	if opts.dataset != "" {
		pc.Source.Dataset = opts.dataset
	}
	if opts.msgpack {
		pc.Source.MsgPack = true
	}

	app := tview.NewApplication()

	dcfg := pickerConfig(pc)
	dcfg.Logger = &logger
	dcfg.OnSelect = func(rec record.Record) {
		logger.Info().Str("id", rec.ID).Str("name", rec.FullName()).Msg("user selected")
	}

	switch {
	case pc.Source.URL != "":
		client := remote.New(pc.Source.URL)
		client.MsgPack = pc.Source.MsgPack
		dcfg.Source = client
		logger.Info().Str("url", pc.Source.URL).Bool("msgpack", client.MsgPack).Msg("using remote source")
	default:
		store := db.NewStore()
		n, err := streamlite.Sync(context.Background(), streamlite.NewFileConnector(pc.Source.Dataset), store)
		if err != nil {
			return err
		}
		if opts.inProcess {
			dcfg.Source = search.NewEngine(store, search.NameSurnameDomain)
		} else {
			dcfg.Items = store.All()
		}
		logger.Info().Str("dataset", pc.Source.Dataset).Int("user_count", n).Bool("in_process", opts.inProcess).Msg("using dataset")
	}

	picker, err := tui.NewPicker(app, dcfg)
	if err != nil {
		return err
	}
	picker.SetTitle(" users ").SetTitleAlign(tview.AlignLeft)

	help := tview.NewTextView().
		SetText("type to filter · ↑↓ move · enter select · backspace remove · esc close · ctrl-q quit")
	help.SetTextColor(tcell.ColorGray)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(picker, 0, 1, true).
		AddItem(help, 1, 0, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlQ {
			app.Stop()
			return nil
		}
		return event
	})

	if err := app.SetRoot(layout, true).EnableMouse(true).Run(); err != nil {
		return err
	}

	return printSelection(cmd, picker.Dropdown().Value())
}

// pickerConfig maps the TOML widget settings onto dropdown options
func pickerConfig(pc config.PickerConfig) dropdown.Config {
	cfg := dropdown.DefaultConfig()
	w := pc.Widget
	cfg.Multiselect = w.Multiselect
	cfg.ShowAvatar = w.ShowAvatar
	cfg.ItemHeight = w.ItemHeight
	cfg.ItemsBuffer = w.ItemsBuffer
	cfg.PageSize = w.PageSize
	cfg.PictureURL = w.PictureURL
	if w.Placeholder != "" {
		cfg.Placeholder = w.Placeholder
	}
	if w.NotFoundMessage != "" {
		cfg.NotFoundMessage = w.NotFoundMessage
	}
	cfg.FetchTimeout = pc.Source.FetchTimeout.Duration
	return cfg
}

func printSelection(cmd *cobra.Command, selected []record.Record) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, rec := range selected {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config <path>",
		Short: "Write the default picker TOML config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SavePicker(args[0], config.DefaultPicker()); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return err
		},
	}
}
