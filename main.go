package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/mcncl/typedjson/document"
	"github.com/mcncl/typedjson/internal/config"
	"github.com/mcncl/typedjson/internal/errors"
	"github.com/mcncl/typedjson/internal/parser"
	"github.com/mcncl/typedjson/internal/schema"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Config      string `help:"Path to config file. If not specified, searches for .typedjson.yml upwards from the working directory." short:"c" type:"path"`
	Describe    bool   `help:"Print the column type of every key instead of the canonical JSON."`
	Format      string `help:"Report format for --describe: table, yaml or json."`
	Flatten     bool   `help:"Describe nested objects as one column per leaf."`
	Case        string `help:"Column name case for --describe: snake, screaming_snake, camel, lower_camel or kebab."`
	Indent      string `help:"Indent the canonical JSON with this string."`
	Compact     bool   `help:"Write compact JSON even if the config file sets an indent."`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *slog.Logger
}

// Version information
const (
	Version = "0.1.0"
)

var (
	errorColor = color.New(color.FgHiRed).SprintFunc()
	hintColor  = color.New(color.FgHiBlue).SprintFunc()
)

func main() {
	app := kong.Must(&CLI,
		kong.Name("typedjson"),
		kong.Description("Round-trip JSON through typed values: decimals, dates, times, timestamps and binary"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := app.Parse(os.Args[1:]); err != nil {
		// Usage has already been shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("typedjson version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fail(err)
	}

	if err := run(newContext(cfg)); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", errorColor(errors.UserFriendlyError(err)))
	fmt.Fprintf(os.Stderr, "\n%s\n", hintColor("For help, run: typedjson --help"))
	os.Exit(1)
}

// loadConfig resolves the config file and applies flag overrides
func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile()
	}
	return config.LoadConfigWithCLI(path, config.CLIOverrides{
		Indent:     CLI.Indent,
		Compact:    CLI.Compact,
		Flatten:    CLI.Flatten,
		Format:     CLI.Format,
		ColumnCase: CLI.Case,
		Debug:      CLI.Debug,
	})
}

func newContext(cfg *config.Config) *Context {
	level := slog.LevelInfo
	if cfg.Dev.Debug {
		level = slog.LevelDebug
	}
	return &Context{
		Debug:  cfg.Dev.Debug,
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

func (ctx *Context) logger() *slog.Logger {
	if ctx.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return ctx.Logger
}

// run executes the main program logic
func run(ctx *Context) error {
	if ctx.Config == nil {
		ctx.Config = config.NewConfig()
	}
	log := ctx.logger()

	// 1. Read JSON input
	data, err := readInput()
	if err != nil {
		return err
	}
	log.Debug("input read", "bytes", len(data))

	// 2. Classify it into typed values
	doc, err := document.DeserializeBytes(data)
	if err != nil {
		return err
	}
	log.Debug("document deserialized", "keys", doc.Len())

	// 3. Render the canonical JSON or the column report
	out, err := render(ctx, doc)
	if err != nil {
		return err
	}
	log.Debug("output rendered", "bytes", len(out), "describe", CLI.Describe)

	// 4. Output the result
	return writeOutput(out)
}

func render(ctx *Context, doc *document.Document) (string, error) {
	if CLI.Describe {
		columns, err := schema.Describe(doc, ctx.Config.SchemaOptions())
		if err != nil {
			return "", err
		}
		ctx.logger().Debug("document described", "columns", len(columns))
		return schema.Render(columns, ctx.Config.Describe.Format)
	}

	text, err := doc.Serialize()
	if err != nil {
		return "", err
	}
	out, err := ctx.Config.Formatter().Format(text)
	if err != nil {
		return "", errors.NewFormatError("failed to lay out output", err)
	}
	return out, nil
}

// readInput reads JSON from file or stdin
func readInput() ([]byte, error) {
	if CLI.Input != "" {
		return parser.ReadFile(CLI.Input)
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

	// Piped input
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return data, nil
}

// writeOutput writes text to file or stdout
func writeOutput(text string) error {
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(text), 0o644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Output written to %s\n", CLI.Output)
		return nil
	}

	if _, err := fmt.Fprint(os.Stdout, text); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput lets users paste JSON and signal completion with
// Ctrl+D (EOF)
func readInteractiveInput() ([]byte, error) {
	fmt.Fprintln(os.Stderr, "typedjson Interactive Mode")
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

	if jsonBuilder.Len() == 0 {
		return nil, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return []byte(jsonBuilder.String()), nil
}
