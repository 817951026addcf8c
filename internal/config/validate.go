package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}

	if len(c.I18N.DefaultLanguage) != 3 {
		return fmt.Errorf("i18n.default_language must be a 3-letter ISO 639-2 code (got %q)",
			c.I18N.DefaultLanguage)
	}

	if c.I18N.RevisionLimit < 1 {
		return fmt.Errorf("i18n.revision_limit must be >= 1 (got %d)", c.I18N.RevisionLimit)
	}

	if c.Bootstrap.Enabled && c.Bootstrap.File == "" {
		return fmt.Errorf("bootstrap.file must be set when bootstrap.enabled is true")
	}

	return nil
}
