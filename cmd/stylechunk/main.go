package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stylechunk",
		Short: "Structure-aware document chunker",
		Long: `stylechunk splits formatted documents into chunks using the visual
style of their text: tags, font size, decoration and weight.

It reads HTML, Markdown, DOCX, PDF, plain text and pre-extracted token
records (CSV or JSON), and can derive the old and new readings of
amendment documents that mark deletions with strikethrough and
insertions with underline.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("table", "", "Score table YAML file (defaults to SCORE_TABLE or the built-in table)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); defaults to LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(chunkCmd())
	rootCmd.AddCommand(versionsCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(tableCmd())
	return rootCmd
}

func chunkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chunk FILE",
		Short: "Chunk one document",
		Long: `Chunk one document and print the result.

Example:
  stylechunk chunk report.html
  stylechunk chunk report.docx --auto --quantile 0.9 --format json --out report.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			formatStr, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("out")
			return app.chunk(cmd, args[0], formatStr, out)
		},
	}
	addChunkFlags(cmd)
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json, tokens)")
	cmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
	return cmd
}

func versionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions FILE",
		Short: "Write the old and new readings of an amendment document",
		Long: `Derive the text before and after an amendment document's changes and
write them as <name>_old.txt and <name>_new.txt.

By default only the amendments section of a FASB Accounting Standards
Update is read. Use --whole-document for documents that mark changes
throughout, such as AICPA handbooks.

Example:
  stylechunk versions asu-2016-02.html --out versions/
  stylechunk versions handbook.html --whole-document --lines`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			whole, _ := cmd.Flags().GetBool("whole-document")
			lines, _ := cmd.Flags().GetBool("lines")
			keepLegends, _ := cmd.Flags().GetBool("keep-legends")
			out, _ := cmd.Flags().GetString("out")
			return app.versions(cmd, args[0], out, !whole, versionOptions(lines, keepLegends))
		},
	}
	addChunkFlags(cmd)
	cmd.Flags().Bool("whole-document", false, "Read the whole document instead of the amendments section")
	cmd.Flags().Bool("lines", false, "Write one sentence per line instead of chunk blocks")
	cmd.Flags().Bool("keep-legends", false, "Keep glossary legend sentences")
	cmd.Flags().StringP("out", "o", ".", "Output directory")
	return cmd
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch DIR",
		Short: "Chunk every supported document under a directory",
		Long: `Chunk every supported document under DIR concurrently. Documents that
fail are logged and skipped; a summary is printed at the end.

Example:
  stylechunk batch updates/ --out chunks/ --versions --workers 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			return app.batch(cmd, args[0])
		},
	}
	addChunkFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "Output directory (required)")
	cmd.Flags().StringP("format", "f", "text", "Chunk output format (text, json, tokens)")
	cmd.Flags().Int("workers", 4, "Documents processed concurrently")
	cmd.Flags().Bool("versions", false, "Also write old and new readings")
	cmd.Flags().Bool("whole-document", false, "Read the whole document instead of the amendments section")
	cmd.Flags().Bool("lines", false, "Write readings one sentence per line")
	cmd.Flags().Bool("keep-legends", false, "Keep glossary legend sentences")
	cmd.Flags().Bool("json", false, "Print the summary as JSON")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func tableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the effective score table as YAML",
		Long: `Print the score table in use. Redirect the output to a file, edit it,
and pass it back with --table to tune scoring.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			return app.proc.Scorer().Table().WriteYAML(cmd.OutOrStdout())
		},
	}
}

func addChunkFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("cutoff", 7, "Fixed score threshold for chunk boundaries")
	cmd.Flags().Bool("auto", false, "Derive the threshold from the document's score quantile")
	cmd.Flags().Float64("quantile", 0.94, "Quantile used with --auto")
	cmd.Flags().Bool("no-refine", false, "Skip merging of small chunks")
	cmd.Flags().String("metric", "words", "Refinement size metric (words, characters)")
	cmd.Flags().Int("lower", 100, "Chunks smaller than this are merged forward")
	cmd.Flags().Int("upper", 650, "Merges never exceed this size")
}
