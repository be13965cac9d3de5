package config

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/enumexport/internal/sqlutil"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateSource()...)
	errors = append(errors, c.validateOutput()...)
	errors = append(errors, c.validateSnapshot()...)
	errors = append(errors, c.validateSchema()...)
	errors = append(errors, c.validateExtensions()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateSource() ValidationErrors {
	var errors ValidationErrors

	switch c.Source.Type {
	case SourceManifest, "":
	case SourceMySQL:
		errors = append(errors, c.validateMySQL()...)
	default:
		errors = append(errors, ValidationError{
			Field:   "source.type",
			Message: "type must be 'manifest' or 'mysql'",
		})
	}

	return errors
}

func (c *Config) validateMySQL() ValidationErrors {
	var errors ValidationErrors
	db := &c.Source.MySQL
	prefix := "source.mysql"

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".host",
			Message: "host is required",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.User == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".user",
			Message: "user is required",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   prefix + ".tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if db.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	if db.MaxIdleConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".max_idle_connections",
			Message: "max_idle_connections cannot be negative",
		})
	}

	if len(db.Tables) == 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".tables",
			Message: "at least one table must be listed",
		})
	}
	for i, table := range db.Tables {
		if !sqlutil.IsValidIdentifier(table) {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s.tables[%d]", prefix, i),
				Message: fmt.Sprintf("%q is not a valid identifier", table),
			})
		}
	}

	for field, column := range map[string]string{
		"value_column": db.ValueColumn,
		"label_column": db.LabelColumn,
	} {
		if !sqlutil.IsValidIdentifier(column) {
			errors = append(errors, ValidationError{
				Field:   prefix + "." + field,
				Message: fmt.Sprintf("%q is not a valid identifier", column),
			})
		}
	}

	if db.OrderBy != "" && !sqlutil.IsValidIdentifier(db.OrderBy) {
		errors = append(errors, ValidationError{
			Field:   prefix + ".order_by",
			Message: fmt.Sprintf("%q is not a valid identifier", db.OrderBy),
		})
	}

	return errors
}

func (c *Config) validateOutput() ValidationErrors {
	var errors ValidationErrors

	if c.Output.Database == "" {
		errors = append(errors, ValidationError{
			Field:   "output.database",
			Message: "database path is required",
		})
	}

	return errors
}

func (c *Config) validateSnapshot() ValidationErrors {
	var errors ValidationErrors

	if c.Snapshot.Enabled && c.Snapshot.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "snapshot.path",
			Message: "path is required when snapshot is enabled",
		})
	}

	if c.Snapshot.Enabled && c.Snapshot.Path != "" && c.Snapshot.Path == c.Output.Database {
		errors = append(errors, ValidationError{
			Field:   "snapshot.path",
			Message: "path must differ from output.database",
		})
	}

	validCompression := map[string]bool{CompressionNone: true, CompressionSnappy: true, CompressionZSTD: true, "": true}
	if !validCompression[c.Snapshot.Compression] {
		errors = append(errors, ValidationError{
			Field:   "snapshot.compression",
			Message: "compression must be 'none', 'snappy', or 'zstd'",
		})
	}

	return errors
}

func (c *Config) validateSchema() ValidationErrors {
	var errors ValidationErrors

	seen := make(map[string]bool)
	for i, table := range c.Schema.ExtensionTables {
		field := fmt.Sprintf("schema.extension_tables[%d]", i)
		if !sqlutil.IsValidIdentifier(table) {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%q is not a valid identifier", table),
			})
		}
		if seen[table] {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%q is listed more than once", table),
			})
		}
		seen[table] = true
	}

	return errors
}

func (c *Config) validateExtensions() ValidationErrors {
	var errors ValidationErrors

	tables := make(map[string]bool)
	for _, t := range c.Schema.ExtensionTables {
		tables[t] = true
	}

	for i, e := range c.Extensions {
		prefix := fmt.Sprintf("extensions[%d]", i)
		if !tables[e.Table] {
			errors = append(errors, ValidationError{
				Field:   prefix + ".table",
				Message: fmt.Sprintf("%q is not listed in schema.extension_tables", e.Table),
			})
		}
		if e.Label == "" {
			errors = append(errors, ValidationError{
				Field:   prefix + ".label",
				Message: "label is required",
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
