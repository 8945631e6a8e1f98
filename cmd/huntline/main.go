// Command huntline drives the scrape/process/stats pipeline for one
// profile, grounded on cmd/quaero/main.go's flag-driven startup sequence
// (load config, apply overrides, init logger) but dispatched across
// subcommands the way a small CLI tool does rather than starting a server.
package main

import (
	"fmt"
	"os"

	"github.com/huntline/huntline/internal/common"
)

// configPaths is a custom flag type allowing multiple -config flags,
// grounded on cmd/quaero/main.go's configPaths.
type configPaths []string

func (c *configPaths) String() string { return fmt.Sprintf("%v", *c) }

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitInvalid)
	}

	subcommand := os.Args[1]
	args := os.Args[2:]

	cfg, err := loadConfig(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "huntline: config error:", err)
		os.Exit(exitInvalid)
	}

	logger := common.NewLogger(cfg.Logging)

	var code int
	switch subcommand {
	case "scrape":
		code = runScrape(logger, cfg, args)
	case "process":
		code = runProcess(logger, cfg, args)
	case "stats":
		code = runStats(logger, cfg, args)
	case "-h", "--help", "help":
		printUsage()
		code = exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "huntline: unknown subcommand %q\n", subcommand)
		printUsage()
		code = exitInvalid
	}

	os.Exit(code)
}

func printUsage() {
	fmt.Println(`usage: huntline <scrape|process|stats> [flags]

  scrape  -profile NAME -sites a,b,c [-config PATH]...
  process -profile NAME [-config PATH]...
  stats   -profile NAME [-config PATH]...`)
}

// loadConfig collects the -config paths from args and loads them; args is
// left as is, and each subcommand drops the -config pairs with
// stripConfigFlags before parsing its own flag set.
func loadConfig(args []string) (*common.Config, error) {
	var paths configPaths
	for i := 0; i < len(args); i++ {
		if (args[i] == "-config" || args[i] == "--config") && i+1 < len(args) {
			paths = append(paths, args[i+1])
			i++
		}
	}
	return common.LoadFromFiles(paths...)
}

const (
	exitSuccess           = 0
	exitUnknown           = 1
	exitInvalid           = 2
	exitProfileNotFound   = 3
	exitCoreDriftAllSites = 4
	exitTransientFailure  = 5
)
