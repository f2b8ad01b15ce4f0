package main

import (
	"flag"
	"fmt"

	"github.com/dudk/pedal/vst2"
)

type listCommand struct {
	paths stringList
}

func (cmd *listCommand) Name() string {
	return "list"
}

func (cmd *listCommand) Help() string {
	return "Scan paths and list available vst2 plugins"
}

func (cmd *listCommand) Register(f *flag.FlagSet) {
	f.Var(&cmd.paths, "path", "semicolon separated list of paths to scan")
}

func (cmd *listCommand) Run() error {
	cache := vst2.NewCache(cmd.paths...)
	defer cache.Close()
	fmt.Println(cache)
	return nil
}
