package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/inrick/chip8-go/chip8"
	"github.com/inrick/chip8-go/config"
	"github.com/inrick/chip8-go/runner"
)

var log = commonlog.GetLogger("chip8")

// frontend is a runner.Frontend that holds resources until closed.
type frontend interface {
	runner.Frontend
	Close()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("chip8", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: chip8 [options] <rom file>\n\n")
		flags.PrintDefaults()
	}

	configPath := flags.String("config", "", "configuration file (default "+config.DefaultFile+" if present)")
	frontendName := flags.String("frontend", "", "gl or term")
	cps := flags.Int("cps", 0, "instructions per second")
	scale := flags.Int("scale", 0, "window pixels per Chip-8 pixel")
	quirks := flags.String("quirks", "", "quirks preset: "+strings.Join(chip8.QuirksNames(), ", "))
	keys := flags.String("keys", "", "16 host keys in keypad order")
	seed := flags.Int64("seed", 0, "random seed (0 seeds from the clock)")
	verbosity := flags.Int("v", 0, "log verbosity")
	stats := flags.Bool("statsview", false, "serve runtime statistics on "+statsAddress)
	writeConfig := flags.String("writeconfig", "", "write the effective configuration to this file and exit")
	dumpPath := flags.String("dumpstate", "", "write a graphviz graph of the machine state to this file if the program halts")

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() != 1 && *writeConfig == "" {
		flags.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	// flags given on the command line win over the file
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "frontend":
			cfg.Frontend = *frontendName
		case "cps":
			cfg.CyclesPerSecond = *cps
		case "scale":
			cfg.Scale = *scale
		case "quirks":
			cfg.Quirks = config.Quirks{Preset: *quirks}
		case "keys":
			cfg.Keys = *keys
		case "seed":
			cfg.Seed = *seed
		case "v":
			cfg.Verbosity = *verbosity
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if *writeConfig != "" {
		if err := cfg.Save(*writeConfig); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	commonlog.Configure(cfg.Verbosity, nil)

	if *stats {
		launchStatsView(stderr)
	}

	c8, err := setup(cfg, flags.Arg(0))
	if err != nil {
		log.Errorf("%s", err.Error())
		fmt.Fprintln(stderr, err)
		return 1
	}

	r, err := runner.New(c8, cfg.CyclesPerSecond)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	layout, err := cfg.Layout()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	var fe frontend
	switch cfg.Frontend {
	case "term":
		fe, err = newTermFrontend(c8.Keypad(), layout)
	default:
		fe, err = newGLFrontend(c8.Keypad(), layout, cfg.Scale)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = r.Run(ctx, fe)
	fe.Close()
	if err != nil {
		if *dumpPath != "" {
			if derr := dumpState(*dumpPath, c8.State()); derr != nil {
				log.Errorf("%s", derr.Error())
			}
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// setup creates the interpreter and loads the ROM at path into it.
func setup(cfg config.Config, path string) (*chip8.Chip8, error) {
	q, err := cfg.ChipQuirks()
	if err != nil {
		return nil, err
	}
	opts := []chip8.Option{chip8.WithQuirks(q)}
	if cfg.Seed != 0 {
		opts = append(opts, chip8.WithSeed(cfg.Seed))
	}
	c8 := chip8.New(opts...)

	rom, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading ROM file: %w", err)
	}
	if err := c8.Load(rom); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Infof("loaded %s (%d bytes) with quirks %+v", path, len(rom), q)
	return c8, nil
}
