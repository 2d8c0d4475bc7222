package main

import (
	"flag"
	"fmt"
	"os"

	"gsd/internal/di"
	"gsd/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "c", "config.yaml", "path to config file")
	flag.BoolVar(&flags.DebugMode, "d", false, "debug mode (log to stderr as well)")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "gsd: %s\n", err)
		os.Exit(1)
	}
}
