package cli

import (
	"fmt"

	"github.com/raphaelgruber/relmap/internal/config"
	"github.com/spf13/cobra"
)

var vocabPath string

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Print the effective vocabulary as YAML",
	Long: `Print the vocabulary the resolver uses: the center, the tokens that
refer to it, the person roles and the pronouns.

Without --vocab (or RELMAP_VOCAB) this is the built-in Korean vocabulary,
which makes a good starting point for a custom file.

Examples:
  relmap vocab > vocab.yaml
  relmap vocab --vocab custom.yaml`,
	Args: cobra.NoArgs,
	RunE: runVocab,
}

func init() {
	vocabCmd.Flags().StringVar(&vocabPath, "vocab", "", "vocabulary YAML file to merge over the defaults")
}

func runVocab(cmd *cobra.Command, args []string) error {
	path := cfg.VocabPath
	if cmd.Flags().Changed("vocab") {
		path = vocabPath
	}

	vocab, err := config.LoadVocabulary(path)
	if err != nil {
		return err
	}
	data, err := config.MarshalVocabulary(vocab)
	if err != nil {
		return fmt.Errorf("encode vocabulary: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
