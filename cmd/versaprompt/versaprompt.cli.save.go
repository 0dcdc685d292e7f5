package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// saveConfig holds parsed save command configuration
type saveConfig struct {
	templatePath string
}

func newSaveCmd(cli *cliContext) *cobra.Command {
	cfg := &saveConfig{}

	cmd := &cobra.Command{
		Use:     CmdNameSave,
		Short:   HelpSaveShort,
		Example: HelpSaveExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(cmd.Context(), cli, cfg)
		},
	}

	cmd.Flags().StringVarP(&cfg.templatePath, FlagTemplate, FlagTemplateShort, "", HelpFlagTemplate)

	return cmd
}

func runSave(ctx context.Context, cli *cliContext, cfg *saveConfig) error {
	if cfg.templatePath == "" {
		return usageError(ErrMsgMissingTemplate)
	}
	if cli.storageDriver == "" {
		return usageError(ErrMsgStorageRequired)
	}

	doc, err := readDocument(cfg.templatePath, cli.stdin)
	if err != nil {
		return err
	}

	engine, err := cli.newEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.Save(ctx, doc); err != nil {
		return newExitError(ExitCodeError, ErrMsgSaveFailed, err)
	}
	versions, err := engine.ListVersions(ctx, doc.Name)
	if err != nil || len(versions) == 0 {
		return newExitError(ExitCodeError, ErrMsgSaveFailed, err)
	}

	fmt.Fprintf(cli.stdout, SaveTextSaved+FmtNewline, doc.Name, versions[0])
	return nil
}
