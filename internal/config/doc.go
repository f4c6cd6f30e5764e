// Package config manages user-level settings stored at ~/.pal/config.yaml.
// Values may also come from PAL_-prefixed environment variables. They act as
// defaults for the scaffolding flags (author, emails, template name) and
// configure the environment setup command.
package config
