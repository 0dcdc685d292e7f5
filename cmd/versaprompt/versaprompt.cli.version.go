package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version   = ""
	commit    = ""
	buildTime = ""
)

// versionConfig holds parsed version command configuration
type versionConfig struct {
	format string
}

// versionOutput represents JSON output for version
type versionOutput struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

func newVersionCmd(cli *cliContext) *cobra.Command {
	cfg := &versionConfig{}

	cmd := &cobra.Command{
		Use:   CmdNameVersion,
		Short: HelpVersionShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(cfg.format, OutputFormatText, OutputFormatJSON); err != nil {
				return err
			}
			return outputVersion(getVersionInfo(), cfg.format, cli)
		},
	}

	cmd.Flags().StringVarP(&cfg.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, HelpFlagFormatTJ)

	return cmd
}

func getVersionInfo() versionOutput {
	info := versionOutput{
		Version:   orUnknown(version),
		Commit:    orUnknown(commit),
		BuildTime: orUnknown(buildTime),
		GoVersion: runtime.Version(),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if buildTime == "" {
				info.BuildTime = s.Value
			}
		}
	}
	return info
}

func orUnknown(s string) string {
	if s == "" {
		return VersionUnknown
	}
	return s
}

func outputVersion(v versionOutput, format string, cli *cliContext) error {
	if format == OutputFormatJSON {
		data, err := marshalJSON(v)
		if err != nil {
			return newExitError(ExitCodeError, ErrMsgWriteOutputFailed, err)
		}
		_, _ = cli.stdout.Write(data)
		return nil
	}

	fmt.Fprintf(cli.stdout, VersionTextTemplate+FmtNewline, v.Version, v.Commit, v.BuildTime, v.GoVersion)
	return nil
}
