package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/LexLubbers/soev.ai/pkg/engine"
	"github.com/LexLubbers/soev.ai/pkg/tools/resultfmt"
	"github.com/joho/godotenv"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: soev [flags] <command>\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n  tools              List tools exposed by the configured MCP servers\n  call <name> [json] Invoke a tool and print its provider-shaped result\n")
	}

	configPath := flag.String("config", "soev.yaml", "path to configuration file")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	providerKind := flag.String("provider", "", "override the provider kind from the config")
	asJSON := flag.Bool("json", false, "print raw JSON instead of rendered output")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if err := loadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := run(*configPath, *providerKind, *asJSON, *verbose, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func run(configPath, providerKind string, asJSON, verbose bool, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := engine.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if providerKind != "" {
		cfg.Provider.Kind = providerKind
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	eng := engine.New(cfg, logger)
	if err := eng.Connect(ctx); err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	if len(args) == 0 {
		flag.Usage()
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "tools":
		return runTools(eng)
	case "call":
		return runCall(ctx, eng, asJSON, args[1:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runTools(eng *engine.Engine) error {
	tools := eng.ToolBox().Tools()
	if len(tools) == 0 {
		fmt.Println("No tools registered.")
		return nil
	}
	for _, tool := range tools {
		fmt.Println(renderToolLine(tool.Name, tool.Description))
	}
	return nil
}

func runCall(ctx context.Context, eng *engine.Engine, asJSON bool, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("call: tool name is required")
	}
	name := args[0]

	toolArgs := json.RawMessage(`{}`)
	if len(args) > 1 {
		if !json.Valid([]byte(args[1])) {
			return fmt.Errorf("call: arguments must be valid JSON")
		}
		toolArgs = json.RawMessage(args[1])
	}

	out, arts, err := eng.CallTool(ctx, name, toolArgs)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(out, arts)
	}

	fmt.Println(renderOutput(out))
	if arts != nil {
		fmt.Println(renderArtifacts(arts))
	}
	return nil
}

func printJSON(out resultfmt.Output, arts *resultfmt.Artifacts) error {
	var value any = out.Text
	if out.IsArray() {
		value = out.Blocks
	}
	payload := map[string]any{"output": value}
	if arts != nil {
		payload["artifacts"] = arts
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
