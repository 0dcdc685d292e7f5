package main

import (
	"context"
	"strings"

	"github.com/itsatony/go-versaprompt"
	"github.com/spf13/cobra"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	templatePath string
	name         string
	vars         []string
	dataFilePath string
	pattern      string
	format       string
	outputPath   string
	join         string
	joinSet      bool
	strict       bool
}

// messageOutput represents one message in JSON output
type messageOutput struct {
	Role     versaprompt.Role      `json:"role"`
	Text     string                `json:"text"`
	Patterns []versaprompt.Pattern `json:"patterns,omitempty"`
}

func newRenderCmd(cli *cliContext) *cobra.Command {
	cfg := &renderConfig{}

	cmd := &cobra.Command{
		Use:     CmdNameRender,
		Short:   HelpRenderShort,
		Example: HelpRenderExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.joinSet = cmd.Flags().Changed(FlagJoin)
			return runRender(cmd.Context(), cli, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.templatePath, FlagTemplate, FlagTemplateShort, "", HelpFlagTemplate)
	flags.StringVarP(&cfg.name, FlagName, FlagNameShort, "", HelpFlagName)
	flags.StringArrayVar(&cfg.vars, FlagVar, nil, HelpFlagVar)
	flags.StringVarP(&cfg.dataFilePath, FlagDataFile, FlagDataFileShort, "", HelpFlagDataFile)
	flags.StringVarP(&cfg.pattern, FlagPattern, FlagPatternShort, "", HelpFlagPattern)
	flags.StringVarP(&cfg.format, FlagFormat, FlagFormatShort, FlagDefaultFormat, HelpFlagFormat)
	flags.StringVarP(&cfg.outputPath, FlagOutput, FlagOutputShort, FlagDefaultOutput, HelpFlagOutput)
	flags.StringVar(&cfg.join, FlagJoin, "", HelpFlagJoin)
	flags.BoolVar(&cfg.strict, FlagStrict, false, HelpFlagStrict)

	return cmd
}

func runRender(ctx context.Context, cli *cliContext, cfg *renderConfig) error {
	if (cfg.templatePath == "") == (cfg.name == "") {
		return usageError(ErrMsgTemplateOrName)
	}
	if cfg.name != "" && cli.storageDriver == "" {
		return usageError(ErrMsgNameNeedsStorage)
	}
	if err := validateFormat(cfg.format, OutputFormatText, OutputFormatJSON, OutputFormatChat); err != nil {
		return err
	}

	bindings, err := loadBindings(cfg.vars, cfg.dataFilePath)
	if err != nil {
		return err
	}

	var doc *versaprompt.Document
	if cfg.templatePath != "" {
		if doc, err = readDocument(cfg.templatePath, cli.stdin); err != nil {
			return err
		}
	}

	var strategy versaprompt.FlattenStrategy = versaprompt.RolePrefixStrategy{}
	if cfg.joinSet {
		strategy = versaprompt.JoinStrategy{Separator: cfg.join}
	}

	engine, err := cli.newEngine(
		versaprompt.WithFlattenStrategy(strategy),
		versaprompt.WithStrictBindings(cfg.strict),
	)
	if err != nil {
		return err
	}
	defer engine.Close()

	name := cfg.name
	if doc != nil {
		if err := engine.Register(doc); err != nil {
			return newExitError(ExitCodeValidationError, ErrMsgParseDocumentFailed, err)
		}
		name = doc.Name
	}

	var msgs []versaprompt.Message
	if cfg.pattern != "" {
		msgs, err = engine.RenderFor(ctx, name, versaprompt.Pattern(cfg.pattern), bindings)
	} else {
		var resolved *versaprompt.ResolvedPromptList
		if resolved, err = engine.Render(ctx, name, bindings); err == nil {
			msgs = resolved.Messages()
		}
	}
	if err != nil {
		return newExitError(ExitCodeError, ErrMsgRenderFailed, err)
	}

	out, err := formatMessages(msgs, cfg.format, strategy)
	if err != nil {
		return newExitError(ExitCodeError, ErrMsgWriteOutputFailed, err)
	}
	if err := writeOutput(cfg.outputPath, out, cli.stdout); err != nil {
		return newExitError(ExitCodeError, ErrMsgWriteOutputFailed, err)
	}
	return nil
}

func formatMessages(msgs []versaprompt.Message, format string, strategy versaprompt.FlattenStrategy) ([]byte, error) {
	switch format {
	case OutputFormatJSON:
		out := make([]messageOutput, len(msgs))
		for i, m := range msgs {
			out[i] = messageOutput{Role: m.Role(), Text: m.Text, Patterns: m.Tags.Patterns()}
		}
		return marshalJSON(out)
	case OutputFormatChat:
		return marshalJSON(versaprompt.ChatMessages(msgs))
	default:
		text := strategy.Flatten(msgs)
		if !strings.HasSuffix(text, FmtNewline) {
			text += FmtNewline
		}
		return []byte(text), nil
	}
}
