package types

// Config holds backend selection and parameters for Store.Attach and the
// analysis pipeline.
type Config struct {
	Backend  string `json:"backend" yaml:"backend"`
	DataDir  string `json:"data_dir" yaml:"data_dir"`
	Workers  int    `json:"workers" yaml:"workers"`     // 0 means one worker per CPU.
	LogLevel string `json:"log_level" yaml:"log_level"` // zerolog level name; empty means info.
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Workers < 0 {
		return ErrWorkersInvalid
	}
	return nil
}
