package main

import (
	"fmt"
	"os"

	"github.com/stratoctl/properties"
	"github.com/stratoctl/properties/internal/cli"
	"github.com/stratoctl/properties/internal/logging"
	"github.com/stratoctl/properties/store"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	logging.SetDefault("stratocfg", version, "")

	st, err := store.Open()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	reg := properties.NewRegistry(properties.WithStore(st))
	app := &cli.App{Registry: reg, Importer: st}

	if err := cli.NewRootCommand(app, version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
