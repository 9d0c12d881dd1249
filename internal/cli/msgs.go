package cli

// Command descriptions
const (
	MsgRootShort = "Convert HTML fragments to Textile with cascading rewrite rules"
	MsgRootLong  = `textilize converts HTML documents to Textile.

Each document is split into marked lines, rewritten by the preprocess rules
found between its directory and the configuration root, converted, and
rewritten again line by line by the postprocess rules.

Run 'textilize help topics' for the rule language and the cascade.`

	MsgConvertShort    = "Convert documents to Textile"
	MsgRulesShort      = "Show the effective rules for a location"
	MsgCheckShort      = "Validate rule files"
	MsgConfigShort     = "Print the effective configuration"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
)

// Output messages
const (
	MsgVersionFormat  = "textilize version %s\n"
	MsgCommitFormat   = "Commit: %s\n"
	MsgBuiltFormat    = "Built:  %s\n"
	MsgNoRules        = "No rules apply."
	MsgRulesHeader    = "%s rules for %s"
	MsgNoRuleFiles    = "No rule files found."
	MsgCheckSummary   = "%d rule files checked, %d malformed"
	MsgNothingToDo    = "no input documents"
	MsgStdoutMultiple = "writing %d documents to standard output"
)

// Flag descriptions
const (
	MsgFlagVerbose           = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig            = "Read configuration from this TOML file"
	MsgFlagColor             = "Color output: auto, always or never"
	MsgFlagStdout            = "Write converted documents to standard output"
	MsgFlagIgnoreSystemRules = "Do not apply the built-in rules"
	MsgFlagRootWrap          = "Wrap each preprocessed document in this element"
	MsgFlagRoot              = "Configuration root; rule lookup stops here"
	MsgFlagRequireRoot       = "Fail when no configuration root marker is found"
	MsgFlagJobs              = "Number of documents converted in parallel"
	MsgFlagEncoding          = "Input encoding label, for example windows-1252"
	MsgFlagExtension         = "Extension of the output files"
	MsgFlagStage             = "Rule stage: preprocess, postprocess or all"
	MsgFlagFormat            = "Output format: table, yaml or toml"
	MsgFlagDefaults          = "Print the built-in defaults with comments"
)
