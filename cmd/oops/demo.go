package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"oops"
	"oops/internal/config"
	"oops/internal/trace"
	"oops/internal/version"
)

const demoMessage = "OMG EVERYTHING IS ON FIRE!!!"

var demoDir string

func init() {
	demoCmd.Flags().StringVar(&demoDir, "dir", "", "store the report here instead of the temporary directory")
}

var demoCmd = &cobra.Command{
	Use:   "demo [message]",
	Short: "Install the crash handler and panic",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		meta, opts, err := demoSettings(cmd)
		if err != nil {
			return err
		}
		oops.Setup(meta, opts...)
		defer oops.Recover()

		message := demoMessage
		if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
			message = args[0]
		}

		fmt.Fprintln(cmd.OutOrStdout(), "A normal log message")
		oops.Breadcrumb("demo", "about to panic")
		panic(message)
	},
}

// demoSettings builds the handler configuration from --config, --color and
// the tracing flags.
func demoSettings(cmd *cobra.Command) (oops.Metadata, []oops.Option, error) {
	meta := oops.Metadata{
		Name:       "The oops demo",
		ShortName:  "oops",
		Version:    version.Version,
		Repository: "https://github.com/oops-rs/oops",
		Messages:   oops.DefaultMessages(),
	}
	var opts []oops.Option

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return meta, nil, err
	}
	colorMode, err := config.ParseColorMode(colorFlag)
	if err != nil {
		return meta, nil, err
	}

	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return meta, nil, err
	}
	if path != "" {
		file, err := config.Load(path)
		if err != nil {
			return meta, nil, err
		}
		if meta, err = file.Metadata(); err != nil {
			return meta, nil, err
		}
		format, err := file.ReportFormat()
		if err != nil {
			return meta, nil, err
		}
		opts = append(opts, oops.WithFormat(format))
		if file.Dir != "" {
			opts = append(opts, oops.WithReportDir(file.Dir))
		}
		if !cmd.Root().PersistentFlags().Changed("color") && file.Color != "" {
			if colorMode, err = config.ParseColorMode(file.Color); err != nil {
				return meta, nil, err
			}
		}
	}
	opts = append(opts, oops.WithColor(colorMode), oops.WithStyle(oops.DefaultStyle()))

	if demoDir != "" {
		opts = append(opts, oops.WithReportDir(demoDir))
	}
	if tr := trace.FromContext(cmd.Context()); tr.Enabled() {
		opts = append(opts, oops.WithTracer(tr))
	}
	return meta, opts, nil
}
