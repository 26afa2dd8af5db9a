package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Epistemic-Technology/quizbank/internal/documents"
	"github.com/Epistemic-Technology/quizbank/internal/logger"
	"github.com/Epistemic-Technology/quizbank/internal/operations"
	"github.com/Epistemic-Technology/quizbank/models"
)

// newRootCmd builds the CLI. The JSON array is written to out only after
// the whole pipeline succeeded, so a failed run leaves out empty.
func newRootCmd(log logger.Logger, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "quizbank <path>",
		Short: "Extract multiple-choice question groups from an exam document",
		Long: `quizbank reads an exam document (PDF, HTML, Markdown or plain text with
form feeds between pages) and prints the extracted question groups and
standalone reordering questions as a JSON array, with answers filled in
from the answer key on the last page.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := documents.GetData(cmd.Context(), models.SourceInfo{Path: args[0]})
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			bank, err := operations.ExtractBank(cmd.Context(), doc, operations.TimeSequence(), log)
			if err != nil {
				return err
			}
			log.Info("Extracted %d records from %d pages", len(bank.Records), bank.PageCount)

			records := bank.Records
			if records == nil {
				records = []models.Record{}
			}
			data, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode records: %w", err)
			}
			_, err = fmt.Fprintln(out, string(data))
			return err
		},
	}
}
