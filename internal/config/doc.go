// Package config provides configuration loading for the substate CLI.
//
// Values are resolved from, in order of precedence:
//
//  1. command-line flags that were set explicitly
//  2. SUBSTATE_* environment variables
//  3. .env.local, then .env in the working directory
//  4. an optional config file given with --config (yaml, json or toml)
//  5. flag defaults
//
// Flag names map to environment variables by upper-casing them and
// replacing dashes with underscores: --log-level becomes SUBSTATE_LOG_LEVEL.
//
// # Usage
//
//	cmd := &cobra.Command{Use: "replay"}
//	config.BindFlags(cmd)
//
//	cfg, err := config.Load(cmd, ".")
//	if err != nil {
//	    return err
//	}
//	logger := cfg.Logger(os.Stderr)
package config
