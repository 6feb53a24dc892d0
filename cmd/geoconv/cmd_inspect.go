package main

import (
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/kr/pretty"

	"geoconv/internal/geom"
)

type CmdInspect struct {
	global *GlobalOptions

	From string `short:"f" long:"from" default:"auto" description:"Input format"`
	Dump bool   `short:"d" long:"dump" description:"Also print the decoded structure"`
}

func addInspect(parser *flags.Parser, global *GlobalOptions) error {
	_, err := parser.AddCommand("inspect",
		"Describe a geometry",
		"Print kind, layout, SRID, counts and bounds of a geometry",
		&CmdInspect{global: global})
	return err
}

func (cmd CmdInspect) Usage() string {
	return "[FILE]"
}

func (cmd *CmdInspect) Execute(args []string) error {
	cfg, err := cmd.global.LoadConfig()
	if err != nil {
		return err
	}
	from, err := geom.ParseFormat(cmd.From)
	if err != nil {
		return err
	}
	g, err := cmd.global.readGeometry(args, from, cfg)
	if err != nil {
		return err
	}

	s := geom.Describe(g)
	fmt.Fprintf(stdout, "kind:     %s\n", s.Kind)
	fmt.Fprintf(stdout, "layout:   %s\n", s.Layout)
	if s.HasSRID {
		fmt.Fprintf(stdout, "srid:     %d\n", s.SRID)
	} else {
		fmt.Fprintf(stdout, "srid:     none\n")
	}
	fmt.Fprintf(stdout, "empty:    %v\n", s.Empty)
	fmt.Fprintf(stdout, "members:  %d\n", s.Members)
	fmt.Fprintf(stdout, "vertices: %d\n", s.Vertices)
	if s.BBox != nil {
		fmt.Fprintf(stdout, "bbox:     %v %v %v %v\n", s.BBox.MinX, s.BBox.MinY, s.BBox.MaxX, s.BBox.MaxY)
	}
	if cmd.Dump {
		fmt.Fprintf(stdout, "%# v\n", pretty.Formatter(g))
	}
	return nil
}
