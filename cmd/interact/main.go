package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"gioui.org/app"
	"github.com/esimov/interact"
	"github.com/esimov/interact/imop"
	"github.com/esimov/interact/utils"
	"golang.org/x/term"
)

const HelpBanner = `
┬┌┐┌┌┬┐┌─┐┬─┐┌─┐┌─┐┌┬┐
││││ │ ├┤ ├┬┘├─┤│   │
┴┘└┘ ┴ └─┘┴└─┴ ┴└─┘ ┴

Per-frame pointer interaction resolver.
    Version: %s

`

// pipeName is the file name that indicates stdin is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source        = flag.String("in", "", "Scenario file, directory, URL or - for stdin")
	configFile    = flag.String("config", "", "TOML configuration file")
	overlayDir    = flag.String("overlay", "", "Directory receiving an overlay image per frame")
	overlayFormat = flag.String("format", ".png", "Overlay image format (.png, .jpg, .bmp)")
	overlayScale  = flag.Float64("scale", 1, "Overlay image scale")
	blendMode     = flag.String("blend", imop.Multiply, "Overlay blend mode")
	tables        = flag.Bool("tables", true, "Print the snapshot table of every frame")
	hitRadius     = flag.Float64("radius", -1, "Hit test radius (overrides the config file)")
	debug         = flag.Bool("debug", false, "Log click and drag edges")
	gui           = flag.Bool("gui", false, "Open the interaction playground")
	workers       = flag.Int("conc", runtime.NumCPU(), "Number of scenarios to replay concurrently")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	colored := term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
	utils.SetColors(colored)

	cfg := interact.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = interact.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf(utils.DecorateText("Failed to load the configuration: %v", utils.ErrorMessage), err)
		}
	}
	if *hitRadius >= 0 {
		cfg.HitRadius = float32(*hitRadius)
	}
	if *debug {
		cfg.Debug = true
	}
	if cfg.Debug {
		cfg.Logger = log.New(os.Stderr, utils.DecorateText("interact ", utils.StatusMessage), log.Lmicroseconds)
	}

	if *gui {
		go func() {
			if err := interact.NewGUI(cfg).Run(); err != nil {
				log.Fatalf(utils.DecorateText("Playground error: %v", utils.ErrorMessage), err)
			}
			os.Exit(0)
		}()
		app.Main()
		return
	}

	if *source == "" {
		flag.Usage()
		log.Fatal(utils.DecorateText("\nPlease provide a scenario to replay or use the -gui flag!", utils.ErrorMessage))
	}

	overlay := interact.NewOverlay()
	overlay.BlendMode = *blendMode

	runner := &interact.Runner{
		Config:  cfg,
		Overlay: overlay,
	}

	if *overlayDir != "" && colored && !*tables {
		spinnerText := fmt.Sprintf("%s %s",
			utils.DecorateText("⚡ INTERACT", utils.StatusMessage),
			utils.DecorateText("is rendering the overlays...", utils.DefaultMessage))
		runner.Spinner = utils.NewSpinner(spinnerText, time.Millisecond*100, true)

		// Capture CTRL-C signal and restore the cursor visibility back.
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-signalChan
			runner.Spinner.RestoreCursor()
			os.Exit(1)
		}()
		runner.Spinner.Start()
	}

	err := runner.Execute(&interact.Ops{
		Src:           *source,
		PipeName:      pipeName,
		OverlayDir:    *overlayDir,
		OverlayFormat: *overlayFormat,
		OverlayScale:  *overlayScale,
		Workers:       *workers,
		Tables:        *tables,
		Color:         colored,
	})
	if runner.Spinner != nil {
		runner.Spinner.Stop()
	}
	if err != nil {
		log.Fatalf(utils.DecorateText("\nError replaying the scenarios: %v", utils.ErrorMessage), err)
	}
}
