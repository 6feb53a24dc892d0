package main

import (
	"encoding/hex"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/jessevdk/go-flags"

	"geoconv/internal/geom"
)

type CmdConvert struct {
	global *GlobalOptions

	From   string `short:"f" long:"from" default:"auto" description:"Input format: auto, wkt, ewkt, wkb, ewkb, twkb, geojson or hex"`
	To     string `short:"t" long:"to" default:"ewkt" description:"Output format: wkt, ewkt, wkb, ewkb, twkb or geojson"`
	Hex    bool   `short:"x" long:"hex" description:"Write binary output as hex"`
	Output string `short:"o" long:"output" description:"Output file (default stdout)"`
}

func addConvert(parser *flags.Parser, global *GlobalOptions) error {
	_, err := parser.AddCommand("convert",
		"Convert a geometry",
		"Read a geometry from FILE or stdin and write it in another format",
		&CmdConvert{global: global})
	return err
}

func (cmd CmdConvert) Usage() string {
	return "[FILE]"
}

func (cmd *CmdConvert) Execute(args []string) error {
	cfg, err := cmd.global.LoadConfig()
	if err != nil {
		return err
	}
	from, err := geom.ParseFormat(cmd.From)
	if err != nil {
		return err
	}
	to, err := geom.ParseFormat(cmd.To)
	if err != nil {
		return err
	}
	if to == geom.FormatAuto || to == geom.FormatHex {
		return errors.Newf("%s is not an output format", to)
	}

	g, err := cmd.global.readGeometry(args, from, cfg)
	if err != nil {
		return err
	}
	out, err := geom.Encode(g, to, cfg.Options())
	if err != nil {
		return err
	}
	if to.Binary() && cmd.Hex {
		out = []byte(hex.EncodeToString(out))
	}
	if !to.Binary() || cmd.Hex {
		out = append(out, '\n')
	}
	cmd.global.debugf("wrote %d bytes of %s", len(out), to)

	if cmd.Output == "" {
		_, err = stdout.Write(out)
		return err
	}
	return os.WriteFile(cmd.Output, out, 0o644)
}
