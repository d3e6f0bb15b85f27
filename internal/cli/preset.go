package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pearls/pkg/preset"
)

// presetCommand creates the preset management command.
func (c *CLI) presetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage the default preset",
		Long: `Manage the preset that supplies default settings.

Commands that compose a picture read $XDG_CONFIG_HOME/pearls/preset.toml
(or the file given with --preset). Flags override preset values.`,
	}

	cmd.AddCommand(c.presetInitCommand())
	cmd.AddCommand(c.presetShowCommand())

	return cmd
}

// presetInitCommand creates the "preset init" subcommand.
func (c *CLI) presetInitCommand() *cobra.Command {
	var (
		output string
		force  bool
		flags  optionFlags
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a preset file with the current settings",
		Long: `Write a preset file. Without flags it holds every default value; any
compose flag given is stored instead. A seed is stored only when --seed
is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := output
			if path == "" {
				var err error
				if path, err = presetPath(); err != nil {
					return fmt.Errorf("get config dir: %w", err)
				}
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			p, err := initPreset(cmd, &flags)
			if err != nil {
				return err
			}
			if err := writePreset(path, p); err != nil {
				return err
			}

			printSuccess("Wrote preset")
			printFile(path)
			printNextStep("Edit it, then run", appName+" render")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "preset path (default $XDG_CONFIG_HOME/pearls/preset.toml)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing preset")
	flags.bindCompose(cmd)

	return cmd
}

// initPreset builds the preset to write: the defaults, overridden by any
// compose flag given.
func initPreset(cmd *cobra.Command, flags *optionFlags) (*preset.Preset, error) {
	opts, err := flags.resolveWith(cmd, nil)
	if err != nil {
		return nil, err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	p := preset.FromOptions("default", opts)
	if !cmd.Flags().Changed("seed") {
		p.Grid.Seed = nil
	}
	return p, nil
}

func writePreset(path string, p *preset.Preset) error {
	data, err := p.Marshal()
	if err != nil {
		return fmt.Errorf("encode preset: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write preset: %w", err)
	}
	return nil
}

// presetShowCommand creates the "preset show" subcommand.
func (c *CLI) presetShowCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active preset",
		Long: `Print the preset that generate and render would use, as TOML. When no
preset file exists the built-in defaults are printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := optionFlags{presetPath: path}
			p, err := flags.loadPreset()
			if err != nil {
				return err
			}
			if p == nil {
				p = preset.Default()
				c.Logger.Debug("no preset file, showing defaults")
			}
			return preset.Encode(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().StringVar(&path, "preset", "", "preset file (default $XDG_CONFIG_HOME/pearls/preset.toml)")

	return cmd
}
