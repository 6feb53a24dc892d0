package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"

	"geoconv/internal/tui"
)

type CmdView struct {
	global *GlobalOptions
}

func addView(parser *flags.Parser, global *GlobalOptions) error {
	_, err := parser.AddCommand("view",
		"Open the inspector",
		"Render geometries in the terminal and browse their format renditions",
		&CmdView{global: global})
	return err
}

func (cmd CmdView) Usage() string {
	return "[FILE]"
}

func (cmd *CmdView) Execute(args []string) error {
	cfg, err := cmd.global.LoadConfig()
	if err != nil {
		return err
	}
	var m tea.Model
	if len(args) > 0 {
		m = tui.NewWithPath(cfg, args[0])
	} else {
		m = tui.New(cfg)
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
