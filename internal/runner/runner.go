// Package runner wires the construction pipeline behind the CLI: it loads a
// language definition, builds the lexer and the LALR(1) table, reports
// conflicts, and optionally persists the table artifact and parses an input
// file.
package runner

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"

	"github.com/coregx/parsekit"
	"github.com/coregx/parsekit/langdef"
)

// Options are the CLI flags.
type Options struct {
	Definition string
	Input      string
	Tables     string
	ShowTokens bool
	Verbose    bool
	Silent     bool
}

// ParseFlags parses the command line into Options.
func ParseFlags() *Options {
	opts := &Options{}
	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`Builds minimized lexer DFAs and LALR(1) parsing tables from a language definition.`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&opts.Definition, "definition", "d", "", "language definition file (yaml)"),
		flagSet.StringVarP(&opts.Input, "input", "i", "", "input file to tokenize and parse"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&opts.Tables, "tables", "t", "", "write the ACTION/GOTO table artifact to a json file"),
		flagSet.BoolVarP(&opts.ShowTokens, "tokens", "tk", false, "print the token stream before parsing"),
		flagSet.BoolVarP(&opts.Verbose, "verbose", "v", false, "display verbose output"),
		flagSet.BoolVar(&opts.Silent, "silent", false, "display results only"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("Could not read flags: %s\n", err)
	}

	if opts.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	} else if opts.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if !opts.Silent {
		showBanner()
	}

	if opts.Definition == "" {
		gologger.Fatal().Msgf("a language definition is required (-d)")
	}
	return opts
}

// Run executes the pipeline for the given options.
func Run(opts *Options) error {
	def, err := langdef.Load(opts.Definition)
	if err != nil {
		return err
	}

	lex, err := parsekit.NewLexer(def.Rules())
	if err != nil {
		return errors.Wrap(err, "building lexer")
	}
	gologger.Verbose().Msgf("token DFA has %d states", lex.DFA().States())

	g, err := def.Grammar()
	if err != nil {
		return err
	}

	parser, err := parsekit.NewParser(g)
	if err != nil {
		return errors.Wrap(err, "building parser table")
	}

	conflicts := parser.Conflicts()
	for _, c := range conflicts {
		gologger.Warning().Msgf("%s", c)
	}
	gologger.Info().Msgf("table built: %d states, %d conflicts", parser.Table().States(), len(conflicts))

	if opts.Tables != "" {
		if err := writeTables(parser, opts.Tables); err != nil {
			return err
		}
		gologger.Info().Msgf("wrote table artifact to %s", opts.Tables)
	}

	if opts.Input == "" {
		return nil
	}

	bin, err := os.ReadFile(opts.Input)
	if err != nil {
		return errors.Wrapf(err, "reading input %s", opts.Input)
	}

	tokens := lex.Tokenize(string(bin))
	if opts.ShowTokens {
		for _, tok := range tokens {
			gologger.Silent().Msgf("%s", tok)
		}
	}

	accepted, err := parser.Accepts(tokens)
	if !accepted {
		return errors.Wrapf(err, "input %s rejected", opts.Input)
	}
	gologger.Info().Msgf("input %s accepted", opts.Input)
	return nil
}

func writeTables(parser *parsekit.Parser, path string) error {
	bin, err := json.MarshalIndent(parser.Table(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding tables")
	}
	if err := os.WriteFile(path, bin, 0o644); err != nil {
		return errors.Wrapf(err, "writing tables to %s", path)
	}
	return nil
}
