package main

import (
	"github.com/spf13/cobra"
)

// runFlags holds the CLI overrides applied on top of the config file, so an
// unset flag never clobbers a file value.
type runFlags struct {
	configFile string
	profile    string
	workers    int
	batchSize  int
	resume     bool
	dryRun     bool
	verbose    bool
	elZone     bool
	elZoneLog  string
}

func newRootCommand() *cobra.Command {
	flags := &runFlags{}

	rootCmd := &cobra.Command{
		Use:   "stillgen [input_folder [output_folder [frame_csv_folder [lab_ale_folder [silverstack_csv_folder]]]]]",
		Short: "Process film set stills into graded, annotated deliverables",
		Long: `stillgen grades on-set TIFF stills through the production OCIO pipeline,
applies each clip's CDL from the lab ALE, frames the picture to the delivery
canvas and burns in the metadata overlay. Folders default to the numbered
working-directory layout (01_INPUT_STILLS through 05_OUTPUT_STILLS).`,
		Args:          cobra.MaximumNArgs(5),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args, flags)
		},
	}

	rootCmd.Flags().StringVar(&flags.configFile, "config-file", "", "Configuration file (TOML or JSON)")
	rootCmd.Flags().StringVar(&flags.profile, "profile", "", "Processing profile: preview or final")
	rootCmd.Flags().IntVar(&flags.workers, "workers", 0, "Worker count (default: CPU count)")
	rootCmd.Flags().IntVar(&flags.batchSize, "batch-size", 0, "Jobs per batch")
	rootCmd.Flags().BoolVar(&flags.resume, "resume", false, "Skip stills whose deliverable already exists")
	rootCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Plan the run without processing")
	rootCmd.Flags().BoolVar(&flags.verbose, "verbose", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&flags.elZone, "el-zone", false, "Also render the exposure analysis panel per still")
	rootCmd.Flags().StringVar(&flags.elZoneLog, "el-zone-log", "", "Source log format for exposure analysis: logc4, slog3, apple_log, redlog3, linear")

	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newDepsCommand())

	return rootCmd
}
