package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/mcncl/jsontyped/internal/config"
	"github.com/mcncl/jsontyped/internal/errors"
	"github.com/mcncl/jsontyped/internal/logging"
	"github.com/mcncl/jsontyped/internal/parser"
	"github.com/mcncl/jsontyped/internal/transform"
	"github.com/mcncl/jsontyped/jsonvalue"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string   `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string   `help:"Path to output JSON file. If not specified, writes to stdout." short:"o" type:"path"`
	Config      string   `help:"Path to config file. Defaults to .jsontyped.yml in the current directory or a parent." short:"c" type:"path"`
	Indent      string   `help:"Indentation: a number of spaces, 'tab', or a literal whitespace string. Compact when empty."`
	Allow       []string `help:"Only write object members with these keys. Repeatable." name:"allow"`
	KeyCase     string   `help:"Rewrite object keys: preserve, camel, lower_camel, snake, screaming_snake, kebab." name:"key-case"`
	DropNulls   bool     `help:"Drop object members whose value is null." name:"drop-nulls"`
	Validate    bool     `help:"Reject values containing absent entries or non-finite numbers."`
	Debug       bool     `help:"Enable debug logging." short:"d"`
	Version     bool     `help:"Show version information." short:"v"`
	Interactive bool     `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
	Logger *zap.Logger
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("jsontyped"),
		kong.Description("Decode, check and re-encode JSON values"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := parser.Parse(os.Args[1:]); err != nil {
		// Usage has already been shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("jsontyped version %s\n", Version)
		return
	}

	ctx, err := newContext()
	if err == nil {
		defer func() { _ = ctx.Logger.Sync() }()
		err = run(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsontyped --help\n")
		os.Exit(1)
	}
}

// newContext loads the config file, applies flag overrides and builds the logger.
func newContext() (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, config.CLIOverrides{
		Indent:    CLI.Indent,
		AllowList: CLI.Allow,
		KeyCase:   CLI.KeyCase,
		DropNulls: CLI.DropNulls,
		Validate:  CLI.Validate,
		Debug:     CLI.Debug,
	})
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}

	logger, err := logging.Setup(cfg.Log)
	if err != nil {
		return nil, errors.NewConfigError("failed to set up logging", err)
	}
	if configPath != "" {
		logger.Debug("loaded config", zap.String("path", configPath))
	}
	return &Context{Config: cfg, Logger: logger}, nil
}

// run executes the main program logic
func run(ctx *Context) error {
	log := ctx.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// 1. Decode JSON input
	v, err := parseInput()
	if err != nil {
		return err
	}
	log.Debug("decoded input", zap.String("kind", string(v.Kind())))

	// 2. Check the decoded value
	if ctx.Config.Validation.Enabled {
		if err := jsonvalue.Validate(v); err != nil {
			return errors.NewValidationError("decoded value is not a JSON value", err)
		}
		log.Debug("validated input")
	}

	// 3. Rewrite keys
	v, err = transform.Apply(ctx.Config, v)
	if err != nil {
		return errors.NewTransformError("failed to rewrite object keys", err)
	}

	// 4. Encode
	opts, err := transform.EncodeOptions(ctx.Config)
	if err != nil {
		return errors.NewConfigError("invalid output settings", err)
	}
	text, err := jsonvalue.Encode(v, opts...)
	if err != nil {
		return errors.NewEncodeError("failed to encode JSON", err)
	}
	log.Debug("encoded output", zap.Int("bytes", len(text)))

	// 5. Output the result
	return writeOutput(text)
}

// parseInput reads JSON from file or stdin
func parseInput() (jsonvalue.Value, error) {
	if CLI.Input != "" {
		return parser.ParseFile(CLI.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return nil, errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// writeOutput writes JSON text to file or stdout
func writeOutput(text string) error {
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(text+"\n"), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "JSON written to %s\n", CLI.Output)
		return nil
	}

	_, err := fmt.Println(text)
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (jsonvalue.Value, error) {
	fmt.Fprintln(os.Stderr, "jsontyped Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return nil, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonData)
}
