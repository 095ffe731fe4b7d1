package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hollowtree/xdisplay/display"
	"github.com/hollowtree/xdisplay/internal/config"
	"github.com/hollowtree/xdisplay/internal/dialog"
	"github.com/hollowtree/xdisplay/internal/x11"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runServer(os.Args[2:]))
	case "outputs":
		os.Exit(runOutputs(os.Args[2:]))
	case "alert":
		os.Exit(runAlert(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "version":
		fmt.Println(version)
		os.Exit(0)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: xdisplay <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start the display server (foreground)")
	fmt.Fprintln(w, "  outputs             List connected monitors")
	fmt.Fprintln(w, "  alert               Show a modal alert box")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  version             Print version")
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func runServer(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "config file (default ~/.config/xdisplay/config.yaml)")
	fs.Parse(args)

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromPath(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	logger := newLogger(cfg.LogLevel)

	conn, err := x11.New()
	if err != nil {
		logger.Error("failed to connect to display", "error", err)
		return 1
	}

	var flags uint32
	if cfg.Window.Borderless {
		flags |= display.FlagBit(display.FlagBorderless)
	}
	if cfg.Window.OnTop {
		flags |= display.FlagBit(display.FlagAlwaysOnTop)
	}
	if cfg.Window.NoResize {
		flags |= display.FlagBit(display.FlagResizeDisabled)
	}

	srv, err := display.New(conn, display.Options{
		Resolution: display.Size{Width: cfg.Window.Width, Height: cfg.Window.Height},
		Mode:       parseMode(cfg.Window.Mode),
		Flags:      flags,
		Title:      cfg.Window.Title,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to start display server", "error", err)
		return 1
	}
	defer srv.Close()

	srv.MouseSetMode(parsePointer(cfg.Pointer))

	logger.Info("display server started",
		"backend", srv.Name(),
		"screens", srv.ScreenCount(),
		"resolution", fmt.Sprintf("%dx%d", cfg.Window.Width, cfg.Window.Height))

	quit := make(chan struct{})
	srv.WindowSetWindowEventCallback(func(id display.WindowID, ev display.WindowEvent) {
		logger.Debug("window event", "window_id", id, "event", ev)
		if ev == display.WindowEventCloseRequest && id == display.MainWindowID {
			close(quit)
		}
	}, display.MainWindowID)
	srv.WindowSetRectChangedCallback(func(id display.WindowID, rect display.Rect) {
		logger.Debug("rect changed", "window_id", id,
			"x", rect.X, "y", rect.Y, "w", rect.Width, "h", rect.Height)
	}, display.MainWindowID)
	srv.SetInputEventHandler(func(ev display.InputEvent) {
		logger.Debug("input", "event", fmt.Sprintf("%T", ev), "window_id", ev.TargetWindow())
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.FrameHz))
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			logger.Info("shutting down")
			return 0
		case <-quit:
			logger.Info("main window closed")
			return 0
		case <-ticker.C:
			srv.ProcessEvents()
		}
	}
}

func parseMode(s string) display.WindowMode {
	switch s {
	case "minimized":
		return display.ModeMinimized
	case "maximized":
		return display.ModeMaximized
	case "fullscreen":
		return display.ModeFullscreen
	}
	return display.ModeWindowed
}

func parsePointer(s string) display.PointerMode {
	switch s {
	case "hidden":
		return display.PointerHidden
	case "captured":
		return display.PointerCaptured
	case "confined":
		return display.PointerConfined
	}
	return display.PointerVisible
}

func runOutputs(args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "outputs takes no arguments")
		return 2
	}
	conn, err := x11.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to display: %v\n", err)
		return 1
	}
	defer conn.Close()

	outputs, err := conn.Outputs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to query outputs: %v\n", err)
		return 1
	}
	for i, o := range outputs {
		fmt.Printf("%d: %s %dx%d+%d+%d (%dmm x %dmm)\n",
			i, o.Name, o.Width, o.Height, o.X, o.Y,
			o.PhysicalWidth, o.PhysicalHeight)
	}
	return 0
}

func runAlert(args []string) int {
	fs := flag.NewFlagSet("alert", flag.ExitOnError)
	title := fs.String("title", "Alert", "dialog title")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: xdisplay alert [-title TITLE] TEXT")
		return 2
	}
	if err := dialog.Alert(slog.Default(), *title, fs.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Alert failed: %v\n", err)
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) < 1 || args[0] != "validate" {
		fmt.Fprintln(os.Stderr, "Usage: xdisplay config validate [path]")
		return 2
	}
	var err error
	if len(args) > 1 {
		_, err = config.LoadFromPath(args[1])
	} else {
		_, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}
	fmt.Println("Configuration OK")
	return 0
}
