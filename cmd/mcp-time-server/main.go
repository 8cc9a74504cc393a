package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sammcj/mcp-time-server/audit"
	"github.com/sammcj/mcp-time-server/clock"
	"github.com/sammcj/mcp-time-server/config"
	"github.com/sammcj/mcp-time-server/mcpserver"
	"github.com/sammcj/mcp-time-server/server"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.config/mcp-time-server/config.yaml)")
	timezone := flag.String("timezone", "", "default session timezone, overrides the config file")
	transport := flag.String("transport", "", "transport to serve: stdio or http")
	schema := flag.Bool("schema", false, "print the session configuration schema and exit")
	version := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("%s %s\n", mcpserver.Name, mcpserver.Version)
		return
	}

	if *schema {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(config.SessionSchema()); err != nil {
			log.Fatalf("Failed to encode schema: %v", err)
		}
		return
	}

	// stdout carries the protocol on stdio, so logs go to stderr
	logger := log.New(os.Stderr, "[mcp-time-server] ", log.LstdFlags)

	cfg, created, err := config.LoadOrCreate(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if created {
		logger.Println("Created default configuration file")
	}

	if *timezone != "" {
		cfg.Timezone = *timezone
	}
	if *transport != "" {
		cfg.Server.Transport = *transport
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	// An unknown zone is reported per call, not at startup
	if _, err := clock.Resolve(cfg.Timezone); err != nil {
		logger.Printf("Warning: default timezone is not valid: %v", err)
	}

	opts := []mcpserver.Option{mcpserver.WithDebug(cfg.Debug())}
	if cfg.Audit.Enable {
		store, err := audit.Open(cfg.Audit.Path)
		if err != nil {
			logger.Fatalf("Failed to open audit store: %v", err)
		}
		logger.Printf("Recording tool calls to %s", cfg.Audit.Path)
		opts = append(opts, mcpserver.WithRecorder(store))
	}

	mcp := mcpserver.NewMCPServer(cfg.Session(), logger, opts...)

	switch cfg.Server.Transport {
	case config.TransportHTTP:
		err = runHTTP(cfg, mcp, logger)
	default:
		err = runStdio(mcp, os.Stdin, os.Stdout, logger)
	}
	if err != nil {
		logger.Fatalf("Server stopped with error: %v", err)
	}
}

func runStdio(mcp *mcpserver.MCPServer, in io.Reader, out io.Writer, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := server.NewShutdownManager(nil, mcp, logger)
	go func() {
		if err := shutdown.HandleGracefulShutdown(); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
	}()
	go func() {
		<-shutdown.Done()
		cancel()
	}()

	serveErr := mcp.Serve(ctx, in, out)

	// Input may have ended without a signal; either way the store is
	// closed before returning.
	stopErr := shutdown.Stop()
	if serveErr != nil {
		return serveErr
	}
	return stopErr
}

func runHTTP(cfg *config.Config, mcp *mcpserver.MCPServer, logger *log.Logger) error {
	srv := server.New(cfg, mcp, logger)
	shutdown := server.NewShutdownManager(srv, srv, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	go func() {
		if err := shutdown.HandleGracefulShutdown(); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
	}()

	// ListenAndServe returns as soon as draining starts, so wait for the
	// whole sequence rather than for Start.
	select {
	case err := <-errCh:
		if err != nil {
			_ = mcp.Close()
			return err
		}
	case <-shutdown.Done():
	}
	return shutdown.Wait()
}
