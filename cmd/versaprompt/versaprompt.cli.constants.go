package main

// Command names
const (
	CmdNameRender   = "render"
	CmdNameVars     = "vars"
	CmdNameValidate = "validate"
	CmdNameSave     = "save"
	CmdNameVersion  = "version"
	CmdNameHelp     = "help"
)

// Flag names - long form
const (
	FlagTemplate = "template"
	FlagName     = "name"
	FlagVar      = "var"
	FlagDataFile = "data-file"
	FlagPattern  = "pattern"
	FlagFormat   = "format"
	FlagOutput   = "output"
	FlagJoin     = "join"
	FlagStrict   = "strict"
	FlagStorage  = "storage"
	FlagDSN      = "dsn"
	FlagVerbose  = "verbose"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagNameShort     = "n"
	FlagDataFileShort = "f"
	FlagPatternShort  = "p"
	FlagFormatShort   = "F"
	FlagOutputShort   = "o"
	FlagVerboseShort  = "v"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Environment variables
const (
	EnvStorage    = "VERSAPROMPT_STORAGE"
	EnvStorageDSN = "VERSAPROMPT_STORAGE_DSN"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatChat = "chat"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
	StdinPromptName  = "stdin"
)

// Data file extensions
const (
	DataFileExtJSON = ".json"
)

// Binding assignment separator for --var
const (
	VarAssignSeparator = "="
)

// Error messages - ALL must be constants
const (
	ErrMsgMissingTemplate     = "document source required"
	ErrMsgTemplateOrName      = "exactly one of --template or --name is required"
	ErrMsgNameNeedsStorage    = "--name requires --storage"
	ErrMsgStorageRequired     = "--storage is required"
	ErrMsgInvalidVar          = "invalid --var, expected key=value"
	ErrMsgInvalidData         = "invalid data file"
	ErrMsgNonScalarData       = "data values must be scalars"
	ErrMsgReadFileFailed      = "failed to read file"
	ErrMsgWriteOutputFailed   = "failed to write output"
	ErrMsgParseDocumentFailed = "document parsing failed"
	ErrMsgRenderFailed        = "prompt rendering failed"
	ErrMsgSaveFailed          = "prompt save failed"
	ErrMsgInvalidFormat       = "invalid output format"
	ErrMsgOpenStorageFailed   = "failed to open storage"
	ErrMsgEngineFailed        = "failed to create engine"
	ErrMsgPlaceholderScan     = "placeholder scan failed"
)

// Help text
const (
	HelpRootShort = "Compose, render and store LLM prompts with {{placeholders}}"
	HelpRootLong  = `versaprompt renders prompt documents: ordered, role-tagged messages with
{{name}} placeholders, optional model-specific pattern tags and default
variables. Documents are YAML, YAML frontmatter plus a body, or plain text.`

	HelpRenderShort   = "Render a prompt document with bindings"
	HelpRenderExample = `  versaprompt render -t greeting.yaml --var name=Alice
  versaprompt render -t greeting.yaml -f data.json -F chat
  cat prompt.txt | versaprompt render -t - --var topic=go
  versaprompt render -t sentiment.yaml -p model/openai --var input="great day"
  versaprompt render -n greeting --storage filesystem --dsn ./prompts --var name=Bob`

	HelpVarsShort   = "List placeholder names per message"
	HelpVarsExample = `  versaprompt vars -t greeting.yaml
  versaprompt vars -t greeting.yaml -F json`

	HelpValidateShort   = "Validate a prompt document without rendering"
	HelpValidateExample = `  versaprompt validate -t greeting.yaml
  cat prompt.yaml | versaprompt validate -t - -F json`

	HelpSaveShort   = "Store a prompt document as a new version"
	HelpSaveExample = `  versaprompt save -t greeting.yaml --storage filesystem --dsn ./prompts`

	HelpVersionShort = "Show version information"

	HelpFlagTemplate = `Prompt document file (use "-" for stdin)`
	HelpFlagName     = "Name of a stored prompt to render"
	HelpFlagVar      = "Binding as key=value (repeatable)"
	HelpFlagDataFile = "JSON or YAML file with bindings"
	HelpFlagPattern  = "Select messages tagged with a matching pattern"
	HelpFlagFormat   = "Output format: text, json, chat"
	HelpFlagFormatTJ = "Output format: text, json"
	HelpFlagOutput   = "Output file (default: stdout)"
	HelpFlagJoin     = "Join message texts with this separator instead of role prefixes"
	HelpFlagStrict   = "Reject bindings that match no placeholder"
	HelpFlagStorage  = "Storage driver: memory, filesystem, postgres (env " + EnvStorage + ")"
	HelpFlagDSN      = "Storage connection string or directory (env " + EnvStorageDSN + ")"
	HelpFlagVerbose  = "Log engine activity to stderr"
)

// Version output format templates
const (
	VersionTextTemplate = "versaprompt version %s\nCommit: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
)

// Validation and vars output format templates
const (
	ValidationTextSuccess = "Document is valid"
	ValidationTextInvalid = "Document is invalid"
	ValidationTextSummary = "%d message(s), %d placeholder(s)"
	ValidationTextUnbound = "Placeholders without defaults: %s"
	VarsTextMessageFormat = "[%d] %s: %s"
	VarsTextNone          = "-"
	SaveTextSaved         = "saved %s (version %d)"
	ListSeparator         = ", "
)

// CLI metadata
const (
	CLIName = "versaprompt"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
)
