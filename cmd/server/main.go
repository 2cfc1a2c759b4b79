// Command `lll-server` runs the lattice reduction HTTP API locally.
//
// It exposes JSON endpoints to create lattices and run Gram-Schmidt, size
// reduction and LLL on them, a WebSocket stream of LLL swaps on /ws/lll, and
// Prometheus metrics on /metrics. Static files are served from --web when set.
//
// Flags:
//
//	--addr:      TCP address to listen on (default 127.0.0.1:8080)
//	--web:       optional web root served under /
//	--max-swaps: cap on swaps per LLL run
//	--config:    TOML config supplying defaults for the flags above
//	--debug:     debug logging
package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/CK6170/lll-go/file"
	"github.com/CK6170/lll-go/internal/server"
)

func main() {
	var (
		addr     = flag.String("addr", "", "http listen address (default from config, else 127.0.0.1:8080)")
		web      = flag.String("web", "", "path to an optional web root")
		maxSwaps = flag.Int("max-swaps", 0, "cap on swaps per LLL run (0: config, else the server default)")
		config   = flag.String("config", "", "TOML config file")
		debug    = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := file.LoadConfig(*config)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	level := zerolog.InfoLevel
	if *debug || cfg.DEBUG {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if *addr == "" {
		*addr = cfg.ADDR
	}
	if *maxSwaps == 0 {
		*maxSwaps = cfg.MAXSWAPS
	}

	webDir := ""
	if *web != "" {
		webDir, err = filepath.Abs(*web)
		if err != nil {
			log.Fatal().Err(err).Msg("resolve web directory")
		}
		if st, err := os.Stat(webDir); err != nil || !st.IsDir() {
			log.Fatal().Str("web", webDir).Msg("web directory does not exist")
		}
	}

	s := server.New(server.Options{
		WebDir:   webDir,
		MaxSwaps: *maxSwaps,
		Logger:   log.Logger,
	})

	// Bind early so we fail fast if the port is in use.
	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", *addr).Msg("listen")
	}
	log.Info().Str("addr", *addr).Str("url", makeURL(*addr)).Msg("serving")

	if err := http.Serve(ln, s.Handler()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// makeURL turns a listen address (host:port) into a reachable URL.
//
// Wildcard hosts (0.0.0.0, ::) are replaced with 127.0.0.1.
func makeURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Sprintf("http://%s/", strings.TrimSpace(addr))
	}
	if host == "" || host == "0.0.0.0" || host == "::" || host == "[::]" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("http://%s:%s/", host, port)
}
