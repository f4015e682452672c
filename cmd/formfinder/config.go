// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/formfinder/internal/secrets"
	"github.com/pdiddy/formfinder/pkg/types"
)

// bindFlag ties a viper key to a flag. Each key is bound exactly once.
func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", key, err))
	}
}

func httpConfig() types.HTTPConfig {
	timeout := viper.GetDuration("timeout")
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := viper.GetString("user_agent")
	if ua == "" {
		ua = defaultUserAgent
	}
	return types.HTTPConfig{Timeout: timeout, UserAgent: ua}
}

func formsDir() string {
	if dir := viper.GetString("forms_dir"); dir != "" {
		return dir
	}
	return types.DefaultFormsDir
}

func fetchConfig() types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig:    httpConfig(),
		PageURL:       viper.GetString("page_url"),
		FormsDir:      formsDir(),
		DownloadDelay: viper.GetDuration("delay"),
	}
}

// matchConfig resolves match settings. The API key comes from config or
// FORMFINDER_AI_API_KEY, then .secrets/anthropic-api-key, then
// ANTHROPIC_API_KEY.
func matchConfig() (types.MatchConfig, error) {
	mode, err := types.ParseMode(viper.GetString("mode"))
	if err != nil {
		return types.MatchConfig{}, err
	}
	policy, err := types.ParsePolicy(viper.GetString("policy"))
	if err != nil {
		return types.MatchConfig{}, err
	}
	timeout := viper.GetDuration("ai.timeout")
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return types.MatchConfig{
		AIConfig: types.AIConfig{
			Model:   viper.GetString("ai.model"),
			APIKey:  loadedSecrets.Resolve(viper.GetString("ai.api_key"), secrets.AnthropicAPIKey, "ANTHROPIC_API_KEY"),
			Timeout: timeout,
		},
		FormsDir: formsDir(),
		Mode:     mode,
		Policy:   policy,
	}, nil
}
