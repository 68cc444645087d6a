// Package command implements the hbnb verify command for store validation
package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n1rna/hbnb-cli/internal/storage"
)

// skipStoreAnnotation marks commands that must run even when the store
// cannot be loaded
const skipStoreAnnotation = "hbnb/skip-store"

// VerifyCommand handles the hbnb verify command
type VerifyCommand struct{}

// NewVerifyCommand creates a new hbnb verify command
func NewVerifyCommand(groupId string) *cobra.Command {
	vc := &VerifyCommand{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the records file for problems",
		Long: `Check that every record in the records file can be loaded.

This command checks:
- The file is a JSON object of records
- Every record names a known class and carries an id
- Timestamps parse and each record is stored under its own key

Unlike other commands it reports every problem instead of stopping at the first.`,
		Args:        cobra.NoArgs,
		RunE:        vc.Run,
		GroupID:     groupId,
		Annotations: map[string]string{skipStoreAnnotation: "true"},
	}

	return cmd
}

// Run executes the verify command
func (c *VerifyCommand) Run(cmd *cobra.Command, args []string) error {
	cfg := GetConfig(cmd.Context())
	if cfg == nil {
		return fmt.Errorf("configuration not initialized")
	}
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	report, err := storage.NewFileStorage(cfg.FilePath).Check()
	if err != nil {
		printer.Error(err.Error())
		return fmt.Errorf("verification failed: %w", err)
	}

	if !report.Exists {
		printer.Warning(fmt.Sprintf("No records file at %s", cfg.FilePath))
		return nil
	}

	for _, problem := range report.Problems {
		printer.Error(fmt.Sprintf("%s: %v", problem.Key, problem.Err))
	}
	if err := printer.PrintSummary(report.Counts); err != nil {
		return err
	}

	if len(report.Problems) > 0 {
		return fmt.Errorf("verification failed: %d record(s) cannot be loaded", len(report.Problems))
	}

	printer.Success(fmt.Sprintf("%s verification passed", cfg.FilePath))
	return nil
}

// configOnly reports whether cmd runs without opening the store
func configOnly(cmd *cobra.Command) bool {
	return cmd.Annotations[skipStoreAnnotation] == "true"
}
