package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jessevdk/go-flags"

	"geoconv/internal/config"
	"geoconv/internal/geom"
)

type GlobalOptions struct {
	Config  string `short:"c" long:"config" description:"YAML file with encoder defaults"`
	Verbose bool   `short:"v" long:"verbose" description:"Log diagnostics to stderr"`
}

var (
	logger = log.New(os.Stderr, "geoconv: ", 0)

	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		logger.Fatal(err)
	}
}

func newParser(global *GlobalOptions) *flags.Parser {
	parser := flags.NewParser(global, flags.HelpFlag|flags.PassDoubleDash)
	for _, add := range []func(*flags.Parser, *GlobalOptions) error{addConvert, addInspect, addView} {
		if err := add(parser, global); err != nil {
			panic(err)
		}
	}
	return parser
}

func run(args []string) error {
	parser := newParser(&GlobalOptions{})
	_, err := parser.ParseArgs(args)
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		parser.WriteHelp(stdout)
		return nil
	}
	return err
}

func (g *GlobalOptions) debugf(format string, args ...interface{}) {
	if g.Verbose {
		logger.Printf(format, args...)
	}
}

// LoadConfig returns the file named by --config, or the defaults.
func (g *GlobalOptions) LoadConfig() (*config.Config, error) {
	if g.Config == "" {
		return config.Default(), nil
	}
	g.debugf("loading config %s", g.Config)
	return config.Load(g.Config)
}

// readGeometry decodes args[0], or stdin when no file is given. With
// FormatAuto a recognised file extension picks the decoder.
func (g *GlobalOptions) readGeometry(args []string, from geom.Format, cfg *config.Config) (geom.Geometry, error) {
	if len(args) > 1 {
		return nil, errors.Newf("expected at most one input file, got %d", len(args))
	}
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		path := args[0]
		ext := filepath.Ext(path)
		if from == geom.FormatAuto {
			if strings.EqualFold(ext, ".csv") {
				g.debugf("reading %s as csv", path)
				return geom.LoadCSV(path)
			}
			if f, ok := geom.FormatForExt(ext); ok {
				from = f
			}
		}
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	g.debugf("decoding %d bytes as %s", len(data), from)
	return geom.Decode(data, from, cfg.Options())
}
