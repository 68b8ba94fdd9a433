package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	cal "github.com/klauskaan/cal-language-core"
	"github.com/klauskaan/cal-language-core/internal/cliconfig"
	"github.com/klauskaan/cal-language-core/internal/clilog"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	root := &cobra.Command{
		Use:   "calcore",
		Short: "calcore inspects C/AL (Dynamics NAV) object source files",
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose (development) logging")
	root.PersistentFlags().Bool("trivia", false, "include whitespace/comment tokens in `tokens` output")
	root.PersistentFlags().Int("max-depth", 0, "maximum AST walk depth (default 500)")
	root.PersistentFlags().StringP("format", "f", "text", "output format: text or json")
	if err := cliconfig.Bind(root, v); err != nil {
		panic(err)
	}

	root.AddCommand(newTokensCmd(v))
	root.AddCommand(newParseCmd(v))
	root.AddCommand(newSymbolsCmd(v))
	root.AddCommand(newCheckCmd(v))
	return root
}

// setup resolves the CLI config and builds a logger for one subcommand
// invocation.
func setup(v *viper.Viper) (*cliconfig.Config, *zap.Logger, error) {
	cfg := cliconfig.Load(v)
	logger, err := clilog.New(cfg.Verbose)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func readSource(args []string) (string, error) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

func newTokensCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file.cal>",
		Short: "print every lexical token in a C/AL source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(v)
			if err != nil {
				return err
			}
			defer logger.Sync()

			src, err := readSource(args)
			if err != nil {
				return err
			}
			toks := cal.Tokenize(src, cfg.IncludeTrivia)
			logger.Debug("tokenized source", zap.String("file", args[0]), zap.Int("count", len(toks)))

			if cfg.Format == "json" {
				return json.NewEncoder(os.Stdout).Encode(toks)
			}
			for _, t := range toks {
				fmt.Printf("%-14s %-20q line %d col %d\n", t.Kind, t.Literal, t.Line, t.Column)
			}
			return nil
		},
	}
}

func newParseCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file.cal>",
		Short: "parse a C/AL object and print its structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(v)
			if err != nil {
				return err
			}
			defer logger.Sync()

			src, err := readSource(args)
			if err != nil {
				return err
			}
			doc, diags := cal.Parse(src)
			logger.Info("parsed object", zap.String("file", args[0]), zap.Int("diagnostics", len(diags)))

			if cfg.Format == "json" {
				return json.NewEncoder(os.Stdout).Encode(doc)
			}
			fmt.Print(doc.String())
			for _, d := range diags {
				fmt.Println(d.String())
			}
			return nil
		},
	}
}

func newSymbolsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols <file.cal>",
		Short: "print the scope tree and symbol table built from a C/AL object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := setup(v)
			if err != nil {
				return err
			}
			defer logger.Sync()

			src, err := readSource(args)
			if err != nil {
				return err
			}
			doc, diags := cal.Parse(src)
			for _, d := range diags {
				if d.Severity == cal.Error {
					logger.Warn("parse diagnostic before symbol build", zap.String("message", d.Message))
				}
			}

			table := cal.BuildSymbols(doc)
			printScope(table.Root, 0)
			return nil
		},
	}
}

func printScope(s *cal.Scope, depth int) {
	if s == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s [%d,%d)\n", indent, s.Name, s.Start, s.End)
	for _, sym := range s.GetAllSymbols() {
		fmt.Printf("%s  %s : %s (%s)\n", indent, sym.Name, sym.DataType, sym.Kind)
	}
	for _, child := range s.Children {
		printScope(child, depth+1)
	}
}

func newCheckCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.cal>",
		Short: "parse a C/AL object and report diagnostics, exiting non-zero on error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(v)
			if err != nil {
				return err
			}
			defer logger.Sync()

			src, err := readSource(args)
			if err != nil {
				return err
			}
			doc, diags := cal.Parse(src)

			w := cal.NewWalker()
			w.MaxDepth = cfg.MaxDepth
			w.Walk(cal.VisitorFunc(func(cal.Node) cal.WalkAction { return cal.Descend }), doc)
			diags = append(diags, w.Diagnostics...)

			for _, d := range diags {
				fmt.Println(d.String())
			}
			logger.Info("check complete", zap.String("file", args[0]), zap.Int("diagnostics", len(diags)))
			if cal.HasErrors(diags) {
				os.Exit(1)
			}
			return nil
		},
	}
}
