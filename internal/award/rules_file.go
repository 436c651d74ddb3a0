package award

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"sourcing/internal/models"
)

// FileRules loads the administrator-configured rule set from a local
// YAML file. An absent file is not an error: it means no rule set is
// configured and the engine's implicit default applies.
type FileRules struct {
	Path string
}

func NewFileRules(path string) *FileRules {
	return &FileRules{Path: path}
}

// Load reads the rule file and parses its `rules` list tolerantly.
// Returns (nil, nil) when the file does not exist or configures no
// rules, which callers must treat as "use implicit default".
func (f *FileRules) Load() ([]models.AwardRule, error) {
	if f == nil || f.Path == "" {
		return nil, nil
	}
	if _, err := os.Stat(f.Path); os.IsNotExist(err) {
		return nil, nil
	}

	v := viper.New()
	v.SetConfigFile(f.Path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("award.FileRules.Load: %w", err)
	}

	var raw []map[string]any
	if err := v.UnmarshalKey("rules", &raw); err != nil {
		return nil, fmt.Errorf("award.FileRules.Load: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	return ParseRules(raw), nil
}
