package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags plus custom rules
// that cannot be expressed in tags.
//
// Log level normalization is handled in ApplyDefaults, not here; validation
// accepts both uppercase and lowercase levels.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	return validateCustomRules(cfg)
}

// validateCustomRules performs validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	// Mount points must be unique: two overlays at the same path would
	// shadow each other in assembly order, which is never what the user
	// meant.
	mountPoints := make(map[string]bool)
	for i, mount := range cfg.Mounts {
		if mountPoints[mount.MountPoint] {
			return fmt.Errorf("mounts[%d]: duplicate mount point %q", i, mount.MountPoint)
		}
		mountPoints[mount.MountPoint] = true
	}

	if err := validateBackendRules(&cfg.Filesystem.BackendConfig, "filesystem"); err != nil {
		return err
	}
	for i := range cfg.Mounts {
		if err := validateBackendRules(&cfg.Mounts[i].Overlay, fmt.Sprintf("mounts[%d].overlay", i)); err != nil {
			return err
		}
	}

	return nil
}

func validateBackendRules(cfg *BackendConfig, section string) error {
	if cfg.Type != "badger" {
		return nil
	}

	inMemory, _ := cfg.Badger["in_memory"].(bool)
	path, _ := cfg.Badger["path"].(string)
	if !inMemory && path == "" {
		return fmt.Errorf("%s: badger backend requires a path unless in_memory is set", section)
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly
// messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
