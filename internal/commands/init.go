package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerscan/internal/config"
	"github.com/cleared-dev/ledgerscan/internal/templates"
)

func newInitCommand() *cobra.Command {
	var withTemplates bool
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default ledgerscan.yaml and working directories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, withTemplates, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized ledgerscan workspace at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withTemplates, "templates", false, "also write the built-in template catalog to templates.yaml")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")

	return cmd
}

func runInit(dir string, withTemplates, force bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}

	// Create directory structure.
	dirs := []string{
		"logs",
		"inbox",
		filepath.Join("inbox", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	cfg.Audit.Dir = filepath.Join(dir, "logs")

	if withTemplates {
		catPath := filepath.Join(dir, "templates.yaml")
		if err := templates.SaveCatalog(catPath, templates.BuiltinCatalog()); err != nil {
			return fmt.Errorf("writing templates: %w", err)
		}
		cfg.Templates.Path = catPath
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write .gitignore.
	gitignore := "inbox/\nlogs/\n*.prom\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	return nil
}
