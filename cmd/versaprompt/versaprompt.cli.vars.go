package main

import (
	"fmt"
	"strings"

	"github.com/itsatony/go-versaprompt"
	"github.com/spf13/cobra"
)

// varsConfig holds parsed vars command configuration
type varsConfig struct {
	templatePath string
	format       string
}

// varsOutput represents JSON output for the vars command
type varsOutput struct {
	Name         string              `json:"name"`
	Messages     []messageVarsOutput `json:"messages"`
	Placeholders []string            `json:"placeholders"`
}

type messageVarsOutput struct {
	Index        int              `json:"index"`
	Role         versaprompt.Role `json:"role"`
	Placeholders []string         `json:"placeholders"`
}

func newVarsCmd(cli *cliContext) *cobra.Command {
	cfg := &varsConfig{}

	cmd := &cobra.Command{
		Use:     CmdNameVars,
		Short:   HelpVarsShort,
		Example: HelpVarsExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVars(cli, cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.templatePath, FlagTemplate, FlagTemplateShort, "", HelpFlagTemplate)
	cmd.Flags().StringVarP(&cfg.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, HelpFlagFormatTJ)

	return cmd
}

func runVars(cli *cliContext, cfg *varsConfig) error {
	if cfg.templatePath == "" {
		return usageError(ErrMsgMissingTemplate)
	}
	if err := validateFormat(cfg.format, OutputFormatText, OutputFormatJSON); err != nil {
		return err
	}

	doc, err := readDocument(cfg.templatePath, cli.stdin)
	if err != nil {
		return err
	}

	output := varsOutput{Name: doc.Name, Messages: make([]messageVarsOutput, 0, len(doc.Messages))}
	for i, m := range doc.PromptList().Messages() {
		names, err := versaprompt.Placeholders(m.Text)
		if err != nil {
			return newExitError(ExitCodeError, ErrMsgPlaceholderScan, err)
		}
		if names == nil {
			names = []string{}
		}
		output.Messages = append(output.Messages, messageVarsOutput{Index: i, Role: m.Role(), Placeholders: names})
	}
	if output.Placeholders, err = doc.Placeholders(); err != nil {
		return newExitError(ExitCodeError, ErrMsgPlaceholderScan, err)
	}
	if output.Placeholders == nil {
		output.Placeholders = []string{}
	}

	if cfg.format == OutputFormatJSON {
		data, err := marshalJSON(output)
		if err != nil {
			return newExitError(ExitCodeError, ErrMsgWriteOutputFailed, err)
		}
		_, _ = cli.stdout.Write(data)
		return nil
	}

	for _, m := range output.Messages {
		list := VarsTextNone
		if len(m.Placeholders) > 0 {
			list = strings.Join(m.Placeholders, ListSeparator)
		}
		fmt.Fprintf(cli.stdout, VarsTextMessageFormat+FmtNewline, m.Index, m.Role, list)
	}
	return nil
}
