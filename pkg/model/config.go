package model

// Cfg is the ambient configuration for the library. There is no server or
// network layer in this module; Cfg only carries logging settings and a
// default revocation registry capacity.
type Cfg struct {
	Common struct {
		Log struct {
			Level      string `yaml:"level" validate:"required" default:"info"`
			FolderPath string `yaml:"folder_path"`
		} `yaml:"log"`
		Production bool `yaml:"production" default:"false"`
	} `yaml:"common"`

	Issuer struct {
		// DefaultMaximumCredentialCount is loaded and validated with the rest
		// of Cfg, but no code in this module reads it:
		// CreateRevocationRegistryDefinition always takes its capacity as a
		// parameter.
		DefaultMaximumCredentialCount uint32 `yaml:"default_maximum_credential_count" default:"100000"`
	} `yaml:"issuer"`
}
