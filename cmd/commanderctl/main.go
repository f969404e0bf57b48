// Command commanderctl is the interactive operator shell: it loads a
// command catalog (core commands plus any extension modules), then reads
// lines from the terminal and dispatches each through the engine,
// printing whatever CommanderResult comes back.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/undefo/AdaptixC2/catalog"
	"github.com/undefo/AdaptixC2/commander"
	"github.com/undefo/AdaptixC2/core"
	"github.com/undefo/AdaptixC2/expand"
	"github.com/undefo/AdaptixC2/history"
	"github.com/undefo/AdaptixC2/interactive"
	"github.com/undefo/AdaptixC2/internal/cliui"
	"github.com/undefo/AdaptixC2/randgen"
)

var (
	version = "1.0.0"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Engine settings YAML file")
		catalogPath = flag.String("catalog", "", "Core command catalog JSON file")
		extDir      = flag.String("ext-dir", "", "Directory of extension module JSON files to load at startup")
		debug       = flag.Bool("debug", false, "Enable debug logging")
		arch        = flag.String("arch", "x64", "Value $ARCH() resolves to")
		hostname    = flag.String("hostname", "", "Agent hostname carried in AgentData")
		noHistory   = flag.Bool("no-history", false, "Disable the sqlite dispatch audit log")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("commanderctl v%s\n", version)
		os.Exit(0)
	}

	logger := core.NewLogger(*debug)

	cfg, err := core.LoadConfig(*configPath)
	if err != nil {
		logger.Warn("using default configuration: %v", err)
		cfg = core.DefaultConfig()
	}
	cfg.Debug = cfg.Debug || *debug

	cat := catalog.New(logger)
	if *catalogPath != "" {
		data, err := os.ReadFile(*catalogPath)
		if err != nil {
			log.Fatalf("failed to read catalog: %v", err)
		}
		if err := cat.AddRegCommands(data); err != nil {
			log.Fatalf("failed to load catalog: %v", err)
		}
		if cat.LastError() != "" {
			logger.Warn("catalog load reported: %s", cat.LastError())
		}
	} else {
		_ = cat.AddRegCommands([]byte("[]"))
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
				logger.Warn("failed to load extension %s: %v", path, err)
			}
		}
	}

	randomizer := randgen.NewDefaultRandomizer(cfg.Charsets)
	expander := expand.New(randgen.DefaultHasher{}, randomizer)

	dispatcher := commander.New(cat, expander, logger)
	if !*noHistory {
		store, err := history.Open(cfg.HistoryPath + ".db")
		if err != nil {
			logger.Warn("dispatch history disabled: %v", err)
		} else {
			dispatcher = dispatcher.WithHistory(store)
			defer store.Close()
		}
	}

	agentData := catalog.AgentData{Arch: *arch, ID: uuid.New(), Hostname: *hostname}

	runShell(dispatcher, cat, agentData, cfg)
}

func runShell(dispatcher *commander.Dispatcher, cat *catalog.Commander, agentData catalog.AgentData, cfg *core.Config) {
	cliui.Banner("AdaptixC2 Commander", version)
	cliui.H1("AdaptixC2 Commander")
	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()

	completer := interactive.NewCompleter(cat)
	reader, err := interactive.NewReadlineInput("[commander] > ", completer, cfg.HistoryPath)
	if err != nil {
		fmt.Printf("readline unavailable (%v), falling back to plain input\n", err)
		reader = interactive.NewFallbackInput("[commander] > ")
	}
	defer reader.Close()

	for {
		line, err := reader.ReadLine()
		if err != nil {
			break
		}
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		result := dispatcher.ProcessInput(agentData, line)
		printResult(result)
	}
}

func printResult(result catalog.CommanderResult) {
	switch {
	case result.Error:
		cliui.PrintError(cliui.NewUserError(result.Message, "type 'help' to list available commands"))
	case result.Handled:
		if strings.TrimSpace(result.Message) != "" {
			fmt.Println(result.Message)
		}
	case isJSONObject(result.Message):
		cliui.PrintJSONSyntax(result.Message)
	default:
		fmt.Println(result.Message)
	}
}

func isJSONObject(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")
}
