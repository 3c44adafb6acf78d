package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vishesh-sachan/epicenter/internal/app"
	"github.com/vishesh-sachan/epicenter/internal/config"
)

// crashLogPath is fixed so a crash that happens before or during config
// loading still leaves a trace somewhere findable.
const crashLogPath = "epicenter-crash.log"

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Press the start hotkey to record, press it again to transcribe and")
	fmt.Fprintln(os.Stderr, "paste the text into the focused window. Runs until killed.")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			logCrash(r)
			os.Exit(1)
		}
	}()

	flag.Usage = usage
	configPath := flag.String("config", "", "path to config JSON")
	initConfig := flag.Bool("init-config", false, "write a default config.json and exit")
	filePath := flag.String("file", "", "transcribe an existing audio file instead of recording")
	devices := flag.Bool("devices", false, "list input devices and exit")
	fv := config.BindFlags(flag.CommandLine)
	flag.Parse()

	if *initConfig {
		if err := config.SaveDefault("config.json"); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write default config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("default config created at config.json. Edit it and re-run.")
		return
	}

	cfg, err := resolveConfig(*configPath, fv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	config.ApplyFlags(&cfg, fv)

	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	log.SetTimeFormat(time.Kitchen)
	log.SetReportTimestamp(true)

	if err := config.Validate(&cfg); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Error("startup failed", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	switch {
	case *devices:
		err = a.RunDevicesMode()
	case *filePath != "":
		err = a.RunFileMode(ctx, *filePath, fv.OutputPath)
	default:
		err = a.RunRecordMode(ctx)
	}
	if err != nil {
		log.Error("exiting", "err", err)
		os.Exit(1)
	}
}

// resolveConfig mirrors the startup rules: an explicit -config must load,
// a ./config.json is picked up when present, and a first run with no
// config and no flags writes a template and exits so the user can edit it.
func resolveConfig(path string, fv *config.FlagValues) (config.Config, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config %q: %w", path, err)
		}
		return cfg, nil
	}

	if _, err := os.Stat("config.json"); err == nil {
		cfg, err := config.Load("config.json")
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config.json: %w", err)
		}
		return cfg, nil
	} else if !os.IsNotExist(err) {
		return config.Config{}, fmt.Errorf("failed to stat config.json: %w", err)
	}

	if !fv.AnySet() {
		if err := config.SaveDefault("config.json"); err != nil {
			return config.Config{}, fmt.Errorf("failed to write default config: %w", err)
		}
		fmt.Println("default config created at config.json. Edit it and re-run.")
		os.Exit(0)
	}
	return config.DefaultConfig(), nil
}

// logCrash appends the panic and stack to a fixed-location file so crashes
// of a hotkey-driven background process are not lost with the console.
func logCrash(r interface{}) {
	msg := fmt.Sprintf("%s panic: %v\n%s\n",
		time.Now().Format(time.RFC3339), r, debug.Stack())
	fmt.Fprint(os.Stderr, msg)
	f, err := os.OpenFile(crashLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()
	f.WriteString(msg)
}
