// Command catalogctl is a batch tool for loading and inspecting a command
// catalog: validating a core-command JSON file and any extension module
// bundles against it, then either listing every dispatchable command line
// or rendering the help view for one command/subcommand.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/undefo/AdaptixC2/catalog"
	"github.com/undefo/AdaptixC2/help"
	"github.com/undefo/AdaptixC2/tokenize"
)

func main() {
	var (
		catalogPath = flag.String("catalog", "", "Core command catalog JSON file (required)")
		extDir      = flag.String("ext-dir", "", "Directory of extension module JSON files to load")
		listLines   = flag.Bool("list", false, "List every dispatchable command line")
		helpTarget  = flag.String("help", "", "Render help for a command, as \"cmd\" or \"cmd subcmd\"")
	)
	flag.Parse()

	if *catalogPath == "" {
		log.Fatal("-catalog is required")
	}

	cat := catalog.New(nil)
	data, err := os.ReadFile(*catalogPath)
	if err != nil {
		log.Fatalf("failed to read catalog: %v", err)
	}
	if err := cat.AddRegCommands(data); err != nil {
		log.Fatalf("failed to parse catalog: %v", err)
	}
	if cat.LastError() != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", cat.LastError())
	}

	if *extDir != "" {
		entries, err := os.ReadDir(*extDir)
		if err != nil {
			log.Fatalf("failed to read extension directory: %v", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
				continue
			}
			path := filepath.Join(*extDir, entry.Name())
			if err := cat.LoadExtModuleFile(path); err != nil {
				log.Fatalf("failed to load extension %s: %v", path, err)
			}
		}
	}

	switch {
	case *helpTarget != "":
		result := help.Render(cat, tokenize.Tokenize(*helpTarget))
		fmt.Println(result.Message)
		if result.Error {
			os.Exit(1)
		}
	case *listLines:
		for _, line := range cat.CommandLines() {
			fmt.Println(line)
		}
	default:
		result := help.Render(cat, nil)
		fmt.Println(result.Message)
	}
}
