// Package config loads textilize settings.
//
// Layers are merged from general to specific, each overriding keys of the
// previous one:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. user file, $XDG_CONFIG_HOME/textilize/config.toml
//  3. project file, .textilize.toml in the working directory
//  4. an explicit file given with --config
//  5. environment variables, TEXTILIZE_SECTION__KEY (for example
//     TEXTILIZE_PIPELINE__JOBS=4)
//  6. command-line flag overrides
//
// Missing user and project files are skipped. A missing explicit file is an
// error.
package config
