// Command wrangle compiles a YAML target description into Go instruction
// info tables.
package main

import (
	"errors"
	"io"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
	log.SetPrefix("wrangle: ")
}

func main() {
	err := rootCommand().Execute()
	if err != nil {
		log.Fatal(err)
	}
}

func rootCommand() *cobra.Command {
	var (
		configFile string
		flags      Config
		dump       bool
		check      bool
	)

	cmd := &cobra.Command{
		Use:   "wrangle [description.yaml]",
		Short: "Generate instruction info tables from a target description",
		Args:  cobra.MaximumNArgs(1),

		SilenceErrors: true,
		SilenceUsage:  true,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			cfg.applyEnv()

			if len(args) > 0 {
				cfg.Input = args[0]
			}
			if cmd.Flags().Changed("out") {
				cfg.Out = flags.Out
			}
			if cmd.Flags().Changed("package") {
				cfg.Package = flags.Package
			}
			if cmd.Flags().Changed("enums") {
				cfg.Enums = flags.Enums
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Verbose = flags.Verbose
			}
			if cfg.Input == "" {
				cmd.Usage()
				return errors.New("no target description given")
			}

			return run(cfg, cmd.OutOrStdout(), dump, check)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	f := cmd.Flags()
	f.StringVar(&configFile, "config", defaultConfigFile, "path to the config file")
	f.StringVar(&flags.Out, "out", "", "directory the Go tables are written to")
	f.StringVar(&flags.Package, "package", "", "package name of the Go tables")
	f.StringVar(&flags.Enums, "enums", "", "path the YAML enumeration listing is written to")
	f.BoolVarP(&flags.Verbose, "verbose", "v", false, "log progress")
	f.BoolVar(&dump, "dump", false, "dump the compiled tables to standard output")
	f.BoolVar(&check, "check", false, "check that the generated files are up to date instead of writing them")

	return cmd
}

func run(cfg *Config, stdout io.Writer, dump, check bool) error {
	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.Default()
	}

	tables, sched, err := loadTables(cfg.Input, logger)
	if err != nil {
		return err
	}

	if dump {
		spew.Fdump(stdout, tables, sched.Classes())
	}

	outputs, err := generate(cfg, tables, check)
	if err != nil {
		return err
	}

	if check {
		return checkOutputs(outputs)
	}
	if err := writeOutputs(outputs); err != nil {
		return err
	}
	for _, out := range outputs {
		logger.Printf("wrote %s", out.Filename)
	}
	return nil
}
