package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"cadterm/internal/bridge"
	"cadterm/internal/config"
	"cadterm/internal/export"
	"cadterm/internal/geom"
	"cadterm/internal/tui"
)

func main() {
	fs := flag.NewFlagSet("cadterm", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: cadterm [flags] [drawing.json|file.wkt|file.geojson|file.csv|file.kml]")
		fs.PrintDefaults()
	}
	flags := config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])
	if err := run(flags, fs.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "cadterm:", err)
		os.Exit(1)
	}
}

func run(flags *config.Flags, args []string) error {
	cfg, err := config.Load(flags.Path)
	if err != nil {
		return err
	}
	flags.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	if flags.ExportPDF != "" {
		if len(args) == 0 {
			return errors.New("-export-pdf needs an input file")
		}
		shapes, err := geom.LoadFile(args[0])
		if err != nil {
			return err
		}
		if err := export.PDFFile(flags.ExportPDF, shapes); err != nil {
			return fmt.Errorf("export %s: %w", flags.ExportPDF, err)
		}
		logger.Info("exported", "in", args[0], "out", flags.ExportPDF, "shapes", len(shapes))
		return nil
	}

	var m tea.Model
	if len(args) > 0 {
		m = tui.NewWithPath(cfg, logger, args[0])
	} else {
		m = tui.New(cfg, logger)
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())

	if cfg.Bridge.Listen != "" {
		srv := bridge.NewServer(p, logger.WithPrefix("bridge"), cfg.Bridge.Timeout)
		addr, err := srv.Listen(cfg.Bridge.Listen)
		if err != nil {
			return err
		}
		defer srv.Close()
		if tcp, ok := addr.(*net.TCPAddr); ok && cfg.Bridge.Announce {
			ann, err := bridge.Announce(tcp.Port)
			if err != nil {
				logger.Warn("mdns announce failed", "err", err)
			} else {
				defer ann.Shutdown()
			}
		}
	}

	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "err", err)
		return err
	}
	return nil
}

// openLog sends logs to the configured file, or to stderr for "-". The
// terminal itself belongs to the UI.
func openLog(cfg config.Config) (*log.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.Log.File != "-" && cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           cfg.Level(),
		Prefix:          "cadterm",
	})
	return logger, closeFn, nil
}
