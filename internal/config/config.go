// Package config provides configuration structures and loading for enumexport.
package config

// Config represents the complete application configuration.
type Config struct {
	Source       SourceConfig       `yaml:"source" mapstructure:"source"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Snapshot     SnapshotConfig     `yaml:"snapshot" mapstructure:"snapshot"`
	Verification VerificationConfig `yaml:"verification" mapstructure:"verification"`
	Schema       SchemaConfig       `yaml:"schema" mapstructure:"schema"`
	Extensions   []ExtensionEntry   `yaml:"extensions" mapstructure:"extensions"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
}

// Source types.
const (
	SourceManifest = "manifest"
	SourceMySQL    = "mysql"
)

// Snapshot compression codecs.
const (
	CompressionNone   = "none"
	CompressionSnappy = "snappy"
	CompressionZSTD   = "zstd"
)

// SourceConfig selects and configures the record source adapter.
type SourceConfig struct {
	Type            string      `yaml:"type" mapstructure:"type"`                         // manifest or mysql
	NamespacePrefix string      `yaml:"namespace_prefix" mapstructure:"namespace_prefix"` // manifest only
	MySQL           MySQLConfig `yaml:"mysql" mapstructure:"mysql"`
}

// MySQLConfig represents a MySQL source connection and the tables to read from it.
// The database name is normally given on the command line.
type MySQLConfig struct {
	Host               string   `yaml:"host" mapstructure:"host"`
	Port               int      `yaml:"port" mapstructure:"port"`
	User               string   `yaml:"user" mapstructure:"user"`
	Password           string   `yaml:"password" mapstructure:"password"`
	Database           string   `yaml:"database" mapstructure:"database"`
	TLS                string   `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	MaxConnections     int      `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int      `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
	Tables             []string `yaml:"tables" mapstructure:"tables"`
	ValueColumn        string   `yaml:"value_column" mapstructure:"value_column"`
	LabelColumn        string   `yaml:"label_column" mapstructure:"label_column"`
	OrderBy            string   `yaml:"order_by" mapstructure:"order_by"`
}

// OutputConfig represents the relational output file.
type OutputConfig struct {
	Database    string `yaml:"database" mapstructure:"database"`
	Transaction bool   `yaml:"transaction" mapstructure:"transaction"`
}

// SnapshotConfig represents the binary snapshot output.
type SnapshotConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	Path        string `yaml:"path" mapstructure:"path"`
	Compression string `yaml:"compression" mapstructure:"compression"` // none, snappy, zstd
	Provenance  string `yaml:"provenance" mapstructure:"provenance"`
}

// VerificationConfig represents post-export verification settings.
type VerificationConfig struct {
	RereadSnapshot bool `yaml:"reread_snapshot" mapstructure:"reread_snapshot"`
}

// SchemaConfig lists the tables that carry the extensionEnum column.
type SchemaConfig struct {
	ExtensionTables []string `yaml:"extension_tables" mapstructure:"extension_tables"`
}

// ExtensionEntry adds or replaces one extension value for a (table, label) pair.
type ExtensionEntry struct {
	Table string `yaml:"table" mapstructure:"table"`
	Label string `yaml:"label" mapstructure:"label"`
	Value string `yaml:"value" mapstructure:"value"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Type:            SourceManifest,
			NamespacePrefix: "ACE.Entity.Enum",
			MySQL: MySQLConfig{
				Port:               3306,
				TLS:                "preferred",
				MaxConnections:     4,
				MaxIdleConnections: 2,
				ValueColumn:        "value",
				LabelColumn:        "label",
			},
		},
		Output: OutputConfig{
			Database:    "enums.db",
			Transaction: false,
		},
		Snapshot: SnapshotConfig{
			Enabled:     true,
			Path:        "enums.snapshot",
			Compression: CompressionNone,
		},
		Verification: VerificationConfig{
			RereadSnapshot: true,
		},
		Schema: SchemaConfig{
			ExtensionTables: []string{"PropertyInt", "PropertyDataId"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// ExtensionOverrides groups the configured extension entries by table.
func (c *Config) ExtensionOverrides() map[string]map[string]string {
	out := make(map[string]map[string]string)
	for _, e := range c.Extensions {
		if out[e.Table] == nil {
			out[e.Table] = make(map[string]string)
		}
		out[e.Table][e.Label] = e.Value
	}
	return out
}
