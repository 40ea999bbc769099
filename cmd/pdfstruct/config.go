// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdfstruct/pkg/types"
)

// Config keys, shared by the config file, PDFSTRUCT_* environment
// variables and command flags.
const (
	keyInputDir   = "input_dir"
	keyOutputDir  = "output_dir"
	keyMode       = "mode"
	keyBackend    = "backend"
	keyValidate   = "validate"
	keyIndexDir   = "index_dir"
	keyMaxResults = "max_results"
)

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"input-dir":   keyInputDir,
	"output-dir":  keyOutputDir,
	"mode":        keyMode,
	"backend":     keyBackend,
	"validate":    keyValidate,
	"index-dir":   keyIndexDir,
	"max-results": keyMaxResults,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyInputDir, "input")
	v.SetDefault(keyOutputDir, "output")
	v.SetDefault(keyMode, string(types.ModeKeyed))
	v.SetDefault(keyBackend, string(types.BackendLedongthuc))
	v.SetDefault(keyValidate, false)
	v.SetDefault(keyIndexDir, "index")
	v.SetDefault(keyMaxResults, 20)
}

// bindFlags binds the flags cmd defines to their config keys so that an
// explicitly set flag overrides the environment and the config file.
// Binding happens per invocation because several commands share keys.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

func pipelineConfig(v *viper.Viper) types.PipelineConfig {
	return types.PipelineConfig{
		InputDir:  v.GetString(keyInputDir),
		OutputDir: v.GetString(keyOutputDir),
		Mode:      types.OutputMode(v.GetString(keyMode)),
		Backend:   types.Backend(v.GetString(keyBackend)),
		Validate:  v.GetBool(keyValidate),
	}
}

func indexConfig(v *viper.Viper) types.IndexConfig {
	return types.IndexConfig{
		OutputDir:  v.GetString(keyOutputDir),
		IndexDir:   v.GetString(keyIndexDir),
		MaxResults: v.GetInt(keyMaxResults),
	}
}
