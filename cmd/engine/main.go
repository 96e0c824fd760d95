// ABOUTME: CLI entrypoint that loads ENGINE_* config, recovers campaigns from disk, and serves HTTP.
// ABOUTME: Grounded on cmd/mammoth/main.go's flag parsing and signal-driven shutdown.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/2389-research/ttrpg-engine/engine/server"
)

var version = "dev"

func main() {
	loadDotEnv(".env")

	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "ttrpg-engine: turn-coordination and context-assembly server")
		fmt.Fprintln(os.Stderr, "Configuration is read from ENGINE_HOME, ENGINE_BIND, ENGINE_KEY,")
		fmt.Fprintln(os.Stderr, "ENGINE_AI_ONLY_STREAK_LIMIT, and ENGINE_DM_OMNISCIENT_PRIVATE.")
		flag.PrintDefaults()
	}
	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if *showVersion {
		fmt.Printf("ttrpg-engine %s\n", version)
		return
	}

	os.Exit(run())
}

func run() int {
	cfg, err := server.ConfigFromEnv()
	if err != nil {
		log.Printf("component=engine.cmd action=config_load err=%v", err)
		return 1
	}

	state, err := server.NewAppState(cfg)
	if err != nil {
		log.Printf("component=engine.cmd action=app_state_init err=%v", err)
		return 1
	}

	srv := server.NewServer(state)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		log.Printf("component=engine.cmd action=serve err=%v", err)
		state.Shutdown()
		return 1
	case sig := <-sigCh:
		log.Printf("component=engine.cmd action=shutdown signal=%s", sig)
		state.Shutdown()
		return 0
	}
}

// loadDotEnv sets environment variables from a .env file without clobbering anything
// already in the environment. A missing file is not an error: ENGINE_KEY and the
// rest of server.ConfigFromEnv's defaults are fine for local, key-in-shell use.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}
}
