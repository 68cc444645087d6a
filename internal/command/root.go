package command

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/n1rna/hbnb-cli/internal/config"
	"github.com/n1rna/hbnb-cli/internal/logger"
	"github.com/n1rna/hbnb-cli/internal/manager"
)

// ErrConfig marks failures to build a usable configuration
var ErrConfig = errors.New("configuration error")

// RootCommand holds the global flags shared by every subcommand
type RootCommand struct {
	configFile string
	filePath   string
	debug      bool
}

// NewRootCommand creates the hbnb root command. Run without a subcommand it
// starts the interactive shell.
func NewRootCommand(version string) *cobra.Command {
	rc := &RootCommand{}

	cmd := &cobra.Command{
		Use:   "hbnb",
		Short: "hbnb - record store and interactive shell",
		Long: `hbnb manages users, places, cities, states, amenities and reviews
stored in a single JSON file.

When run without subcommands, starts the interactive shell.`,
		Version:            version,
		Args:               cobra.NoArgs,
		PersistentPreRunE:  rc.setup,
		PersistentPostRunE: rc.teardown,
		RunE:               runConsole,
		SilenceUsage:       true, // Don't show usage on RunE errors
		SilenceErrors:      true,
	}

	// Add global flags
	cmd.PersistentFlags().StringVar(&rc.configFile, "config", "",
		"Configuration file (default: "+config.DefaultConfigFile+" if present)")
	cmd.PersistentFlags().StringVar(&rc.filePath, "file", "",
		"JSON file records are stored in (default: $"+config.EnvFilePath+" or "+config.DefaultFilePath+")")
	cmd.PersistentFlags().BoolVar(&rc.debug, "debug", false, "Enable debug output")
	cmd.PersistentFlags().StringP("format", "f", "table", "Output format (table, json)")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")
	cmd.Flags().Bool("plain", false, "Use the line-oriented shell even on a terminal")

	// Add command groups
	cmd.AddGroup(&cobra.Group{
		ID:    "records",
		Title: "Record Commands:",
	})
	cmd.AddGroup(&cobra.Group{
		ID:    "global",
		Title: "Global Commands:",
	})

	cmd.AddCommand(NewRecordCommands("records")...)
	cmd.AddCommand(
		NewConsoleCommand("global"),
		NewVerifyCommand("global"),
	)

	cmd.SetVersionTemplate("hbnb version {{.Version}}\n")

	return cmd
}

// setup loads the configuration, configures logging and opens the store
func (c *RootCommand) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" {
		return nil
	}

	cfg, err := config.LoadConfig(c.configFile)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	// Override settings specified via flags
	if c.filePath != "" {
		cfg.FilePath = c.filePath
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrConfig, err)
		}
	}
	if c.debug {
		cfg.LogLevel = "debug"
	}

	if err := configureLogging(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	ctx := WithConfig(cmd.Context(), cfg)
	if configOnly(cmd) {
		cmd.SetContext(ctx)
		return nil
	}

	mgr, err := manager.NewManager(cfg)
	if err != nil {
		return err
	}
	logger.Debug("using %s", cfg.FilePath)

	cmd.SetContext(WithManager(ctx, mgr))
	return nil
}

// teardown flushes the store after a successful command
func (c *RootCommand) teardown(cmd *cobra.Command, args []string) error {
	defer func() { _ = logger.GetLogger().Sync() }()

	mgr := GetManager(cmd.Context())
	if mgr == nil {
		return nil
	}
	return mgr.Close()
}

func configureLogging(cfg *config.Config) error {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetGlobalLevel(level)

	if cfg.LogFile != "" {
		if err := logger.GetLogger().AddFileOutput(cfg.LogFile); err != nil {
			return err
		}
	}
	return nil
}
