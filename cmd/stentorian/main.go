// Command stentorian compiles and exercises speech grammars from the
// command line, without needing a real recognition engine attached.
package main

import (
	"fmt"
	"os"
	"strings"

	stentorian "github.com/ocecaco/stentorian-go"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stentorian",
		Short: "Compile and exercise speech grammars",
	}
	cmd.AddCommand(compileCommand())
	cmd.AddCommand(dumpCommand())
	cmd.AddCommand(matchCommand())
	return cmd
}

func compileCommand() *cobra.Command {
	var grammarPath, outPath string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a YAML grammar to the engine's binary format",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := openYAMLGrammar(grammarPath)
			if err != nil {
				return err
			}

			bin, err := stentorian.CompileCommandGrammar(g)
			if err != nil {
				return fmt.Errorf("compile grammar: %w", err)
			}

			return writeOutput(outPath, bin)
		},
	}
	cmd.Flags().StringVar(&grammarPath, "grammar", "", "path to a YAML grammar file (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "output path, or - for stdout")
	cmd.MarkFlagRequired("grammar")
	return cmd
}

func dumpCommand() *cobra.Command {
	var grammarPath string
	var highlight bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Compile a YAML grammar to matcher byte-code and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := openYAMLGrammar(grammarPath)
			if err != nil {
				return err
			}

			prog, err := stentorian.CompileMatcher(g)
			if err != nil {
				return fmt.Errorf("compile matcher: %w", err)
			}

			if highlight {
				fmt.Fprint(cmd.OutOrStdout(), prog.HighlightString())
			} else {
				fmt.Fprint(cmd.OutOrStdout(), prog.String())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&grammarPath, "grammar", "", "path to a YAML grammar file (required)")
	cmd.Flags().BoolVar(&highlight, "color", false, "colorize the output")
	cmd.MarkFlagRequired("grammar")
	return cmd
}

func matchCommand() *cobra.Command {
	var grammarPath, words string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Run the matcher against a space-separated word sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := openYAMLGrammar(grammarPath)
			if err != nil {
				return err
			}

			prog, err := stentorian.CompileMatcher(g)
			if err != nil {
				return fmt.Errorf("compile matcher: %w", err)
			}

			captures, ok := prog.Match(strings.Fields(words))
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no match")
				return nil
			}
			for _, c := range captures {
				printCapture(cmd, c, 0)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&grammarPath, "grammar", "", "path to a YAML grammar file (required)")
	cmd.Flags().StringVar(&words, "words", "", "space-separated recognized word sequence (required)")
	cmd.MarkFlagRequired("grammar")
	cmd.MarkFlagRequired("words")
	return cmd
}

func printCapture(cmd *cobra.Command, c stentorian.CaptureTree, depth int) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s%s %s\n", strings.Repeat("  ", depth), c.Name, c.Span)
	for _, child := range c.Children {
		printCapture(cmd, child, depth+1)
	}
}

func openYAMLGrammar(path string) (stentorian.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return stentorian.Grammar{}, fmt.Errorf("open grammar file: %w", err)
	}
	defer f.Close()
	return loadYAMLGrammar(f)
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
