package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hanpama/decograph/internal/schema"
)

const rootUsage = `decograph: GraphQL schema tools for the decoration engine

USAGE:
  decograph <command> [flags]

COMMANDS:
  validate         Parse and validate a GraphQL SDL file
  render           Render a schema file as canonical SDL
  help             Show help for any command
`

const validateUsage = `validate FLAGS:
  -schema <file>   GraphQL SDL file (required)
  (Exits non-zero on parse or validation errors)
`

const renderUsage = `render FLAGS:
  -schema <file>   GraphQL SDL file (required)
  -out <file>      Write rendered SDL to file (default: stdout)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("decograph", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "validate":
		return cmdValidate(cmdArgs)
	case "render":
		return cmdRender(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "validate":
		fmt.Print(validateUsage)
	case "render":
		fmt.Print(renderUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

func loadSchema(file string) (*schema.Schema, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	sch, err := schema.BuildFromSDL(string(src))
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}
	return sch, nil
}

func cmdValidate(args []string) error {
	schemaFile := ""
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaFile, "schema", schemaFile, "GraphQL SDL file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, validateUsage)
		return err
	}
	if schemaFile == "" {
		fmt.Fprint(os.Stderr, validateUsage)
		return fmt.Errorf("-schema is required")
	}
	sch, err := loadSchema(schemaFile)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d types, query root %s\n", schemaFile, len(sch.Types), sch.QueryType)
	return nil
}

func cmdRender(args []string) error {
	schemaFile := ""
	outFile := ""
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaFile, "schema", schemaFile, "GraphQL SDL file")
	fs.StringVar(&outFile, "out", outFile, "Write rendered SDL to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, renderUsage)
		return err
	}
	if schemaFile == "" {
		fmt.Fprint(os.Stderr, renderUsage)
		return fmt.Errorf("-schema is required")
	}
	sch, err := loadSchema(schemaFile)
	if err != nil {
		return err
	}
	sdl := schema.Render(sch)
	if outFile == "" {
		fmt.Print(sdl)
		return nil
	}
	return os.WriteFile(outFile, []byte(sdl), 0644)
}
