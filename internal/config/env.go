package config

import (
	"os"
	"regexp"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} with the variable's value; unset variables are kept as written.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		if v := os.Getenv(name); v != "" {
			return v
		}
		return match
	})
}

// expandConfigEnvVars expands the secret-bearing fields. An empty LLM key falls back
// to the provider's conventional variable.
func expandConfigEnvVars(cfg *Config) {
	cfg.LLM.APIKey = expandEnvVars(cfg.LLM.APIKey)
	cfg.LLM.BaseURL = expandEnvVars(cfg.LLM.BaseURL)
	cfg.Database.Host = expandEnvVars(cfg.Database.Host)
	cfg.Database.User = expandEnvVars(cfg.Database.User)
	cfg.Database.Password = expandEnvVars(cfg.Database.Password)
	cfg.Minio.Endpoint = expandEnvVars(cfg.Minio.Endpoint)
	cfg.Minio.AccessKey = expandEnvVars(cfg.Minio.AccessKey)
	cfg.Minio.SecretKey = expandEnvVars(cfg.Minio.SecretKey)
	for name, key := range cfg.Server.APIKeys {
		cfg.Server.APIKeys[name] = expandEnvVars(key)
	}

	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "gemini":
			cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		default:
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
}
