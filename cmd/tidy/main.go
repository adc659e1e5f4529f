/*
The tidy command line REPL evaluates expressions with a data source
overlaid on their lexical scope.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gvelasq2/rlang/tidy"
)

func usage(myflags *flag.FlagSet) {
	fmt.Printf("tidy command line help:\n")
	myflags.PrintDefaults()
	fmt.Printf("\nSQL drivers linked in: %v\n", tidy.GetSortedDrivers())
	os.Exit(1)
}

func main() {
	cfg := tidy.NewTidyConfig("tidy")
	cfg.DefineFlags()
	err := cfg.Flags.Parse(os.Args[1:])
	if err == flag.ErrHelp {
		usage(cfg.Flags)
	}

	if err != nil {
		panic(err)
	}
	err = cfg.ValidateConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tidy command line error: '%v'\n", err)
		usage(cfg.Flags)
	}

	// the library does all the heavy lifting.
	tidy.ReplMain(cfg)
}
