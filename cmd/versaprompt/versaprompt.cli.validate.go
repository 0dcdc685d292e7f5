package main

import (
	"fmt"
	"strings"

	"github.com/itsatony/go-versaprompt"
	"github.com/spf13/cobra"
)

// validateConfig holds parsed validate command configuration
type validateConfig struct {
	templatePath string
	format       string
}

// validationOutput represents JSON output for validation
type validationOutput struct {
	Valid        bool     `json:"valid"`
	Name         string   `json:"name,omitempty"`
	Messages     int      `json:"messages"`
	Placeholders []string `json:"placeholders,omitempty"`
	Unbound      []string `json:"unbound,omitempty"`
	Error        string   `json:"error,omitempty"`
}

func newValidateCmd(cli *cliContext) *cobra.Command {
	cfg := &validateConfig{}

	cmd := &cobra.Command{
		Use:     CmdNameValidate,
		Short:   HelpValidateShort,
		Example: HelpValidateExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cli, cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.templatePath, FlagTemplate, FlagTemplateShort, "", HelpFlagTemplate)
	cmd.Flags().StringVarP(&cfg.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, HelpFlagFormatTJ)

	return cmd
}

func runValidate(cli *cliContext, cfg *validateConfig) error {
	if cfg.templatePath == "" {
		return usageError(ErrMsgMissingTemplate)
	}
	if err := validateFormat(cfg.format, OutputFormatText, OutputFormatJSON); err != nil {
		return err
	}

	source, err := readInput(cfg.templatePath, cli.stdin)
	if err != nil {
		return newExitError(ExitCodeInputError, ErrMsgReadFileFailed, err)
	}

	output := validationOutput{}
	doc, err := versaprompt.ParseDocument(source)
	if err != nil {
		output.Error = err.Error()
	} else {
		output.Valid = true
		output.Name = doc.Name
		output.Messages = len(doc.Messages)
		if output.Placeholders, err = doc.Placeholders(); err != nil {
			return newExitError(ExitCodeError, ErrMsgPlaceholderScan, err)
		}
		output.Unbound = unboundPlaceholders(output.Placeholders, doc.Variables)
	}

	if cfg.format == OutputFormatJSON {
		data, err := marshalJSON(output)
		if err != nil {
			return newExitError(ExitCodeError, ErrMsgWriteOutputFailed, err)
		}
		_, _ = cli.stdout.Write(data)
	} else {
		outputValidationText(output, cli)
	}

	if !output.Valid {
		return newExitError(ExitCodeValidationError, "", nil)
	}
	return nil
}

func outputValidationText(output validationOutput, cli *cliContext) {
	if !output.Valid {
		fmt.Fprintln(cli.stdout, ValidationTextInvalid)
		fmt.Fprintln(cli.stdout, output.Error)
		return
	}

	fmt.Fprintln(cli.stdout, ValidationTextSuccess)
	fmt.Fprintf(cli.stdout, ValidationTextSummary+FmtNewline, output.Messages, len(output.Placeholders))
	if len(output.Unbound) > 0 {
		fmt.Fprintf(cli.stdout, ValidationTextUnbound+FmtNewline, strings.Join(output.Unbound, ListSeparator))
	}
}
