// Package command contains CLI command implementations.
package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/n1rna/hbnb-cli/internal/models"
	"github.com/n1rna/hbnb-cli/internal/output"
)

// RecordCommand implements the one-shot record operations
type RecordCommand struct{}

// NewRecordCommands creates the create, show, all, count, update and destroy commands
func NewRecordCommands(groupId string) []*cobra.Command {
	rc := &RecordCommand{}

	cmds := []*cobra.Command{
		rc.newCreateCommand(),
		rc.newShowCommand(),
		rc.newAllCommand(),
		rc.newCountCommand(),
		rc.newUpdateCommand(),
		rc.newDestroyCommand(),
	}
	for _, cmd := range cmds {
		cmd.GroupID = groupId
	}
	return cmds
}

func (c *RecordCommand) newCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <class>",
		Short: "Create a record and print its id",
		Long: `Create a new record of the given class, save it and print its id.

Classes: ` + strings.Join(models.Kinds(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: c.runCreate,
	}
}

func (c *RecordCommand) newShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <class> <id>",
		Short: "Show a record",
		Args:  cobra.ExactArgs(2),
		RunE:  c.runShow,
	}

	cmd.Flags().BoolP("mask", "m", false, "Mask sensitive attribute values such as passwords")

	return cmd
}

func (c *RecordCommand) newAllCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all [class]",
		Short: "List every record, or every record of a class",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.runAll,
	}

	cmd.Flags().BoolP("mask", "m", false, "Mask sensitive attribute values such as passwords")

	return cmd
}

func (c *RecordCommand) newCountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count <class>",
		Short: "Count the records of a class",
		Args:  cobra.ExactArgs(1),
		RunE:  c.runCount,
	}
}

func (c *RecordCommand) newUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <class> <id> [attribute value]",
		Short: "Set attributes on a record",
		Long: `Set one attribute from positional arguments, or several with --set.

Examples:
  # One attribute
  hbnb update User 1234 first_name Betty

  # Several attributes at once; nothing is changed if any value is invalid
  hbnb update Place 1234 --set name=Loft --set max_guest=4`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 && len(args) != 4 {
				return fmt.Errorf("accepts <class> <id> followed by an attribute and a value, received %d arg(s)", len(args))
			}
			return nil
		},
		RunE: c.runUpdate,
	}

	cmd.Flags().StringArray("set", []string{}, "Set attribute in format 'name=value'")

	return cmd
}

func (c *RecordCommand) newDestroyCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "destroy <class> <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a record",
		Args:    cobra.ExactArgs(2),
		RunE:    c.runDestroy,
	}
}

func (c *RecordCommand) runCreate(cmd *cobra.Command, args []string) error {
	mgr, err := RequireManager(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	id, err := mgr.CreateNew(args[0])
	if err != nil {
		return err
	}
	return printer.PrintID(args[0], id)
}

func (c *RecordCommand) runShow(cmd *cobra.Command, args []string) error {
	mgr, err := RequireManager(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	record, err := mgr.Find(args[0], args[1])
	if err != nil {
		return err
	}
	return printer.PrintRecord(record)
}

func (c *RecordCommand) runAll(cmd *cobra.Command, args []string) error {
	mgr, err := RequireManager(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	filter := ""
	if len(args) == 1 {
		filter = args[0]
	}
	records, err := mgr.ListAll(filter)
	if err != nil {
		return err
	}
	return printer.PrintRecords(records)
}

func (c *RecordCommand) runCount(cmd *cobra.Command, args []string) error {
	mgr, err := RequireManager(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	n, err := mgr.Count(args[0])
	if err != nil {
		return err
	}
	return printer.PrintCount(args[0], n)
}

func (c *RecordCommand) runUpdate(cmd *cobra.Command, args []string) error {
	mgr, err := RequireManager(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	values := make(map[string]string)
	if len(args) == 4 {
		values[args[2]] = args[3]
	}
	pairs, _ := cmd.Flags().GetStringArray("set")
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return fmt.Errorf("%w: expected name=value, got %q", models.ErrInvalidArgument, pair)
		}
		values[name] = value
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: no attribute given", models.ErrInvalidArgument)
	}

	if err := mgr.UpdateFields(args[0], args[1], values); err != nil {
		return err
	}
	printer.Success(fmt.Sprintf("Updated %s", models.KeyFor(args[0], args[1])))
	return nil
}

func (c *RecordCommand) runDestroy(cmd *cobra.Command, args []string) error {
	mgr, err := RequireManager(cmd.Context())
	if err != nil {
		return err
	}
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	if err := mgr.Remove(args[0], args[1]); err != nil {
		return err
	}
	printer.Success(fmt.Sprintf("Deleted %s", models.KeyFor(args[0], args[1])))
	return nil
}

// newPrinter builds a printer from the persistent --format and --quiet flags
func newPrinter(cmd *cobra.Command) (*output.Printer, error) {
	name, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	quiet, _ := cmd.Flags().GetBool("quiet")
	printer := output.NewPrinterWithWriter(cmd.OutOrStdout(), format, quiet)
	if mask, err := cmd.Flags().GetBool("mask"); err == nil {
		printer.SetMask(mask)
	}
	return printer, nil
}
