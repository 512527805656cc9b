package restore

import (
	"fmt"
	"strings"
)

// MSBuild property names driving the restore-graph target.
const (
	PropRestoreGraphOutputPath   = "RestoreGraphOutputPath"
	PropRestoreProjectFilterMode = "RestoreProjectFilterMode"
	PropConfiguration            = "Configuration"
	PropPlatform                 = "Platform"
)

// FilterModeExclusionList keeps the restore target from touching projects
// outside the requested set.
const FilterModeExclusionList = "exclusionlist"

// PropertyBag is an insertion-ordered set of uniquely named MSBuild
// properties. Order is irrelevant to the engine but keeps generated
// manifests stable.
type PropertyBag struct {
	names  []string
	values map[string]string
}

func NewPropertyBag() *PropertyBag {
	return &PropertyBag{values: make(map[string]string)}
}

// Set records a property. Re-adding a name is rejected so manifest
// generation never sees conflicting values.
func (b *PropertyBag) Set(name, value string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidProperty)
	}
	if _, exists := b.values[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateProperty, name)
	}
	b.names = append(b.names, name)
	b.values[name] = value
	return nil
}

func (b *PropertyBag) Get(name string) (string, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Names returns property names in insertion order.
func (b *PropertyBag) Names() []string {
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

func (b *PropertyBag) Len() int {
	return len(b.names)
}

// BuildRestoreProperties derives the property bag for one restore-graph
// run. Configuration and platform are optional; the output path is not.
func BuildRestoreProperties(outputPath, configuration, platform string) (*PropertyBag, error) {
	if strings.TrimSpace(outputPath) == "" {
		return nil, ErrMissingOutputPath
	}

	bag := NewPropertyBag()
	if err := bag.Set(PropRestoreGraphOutputPath, outputPath); err != nil {
		return nil, err
	}
	if err := bag.Set(PropRestoreProjectFilterMode, FilterModeExclusionList); err != nil {
		return nil, err
	}
	if configuration != "" {
		if err := bag.Set(PropConfiguration, configuration); err != nil {
			return nil, err
		}
	}
	if platform != "" {
		if err := bag.Set(PropPlatform, platform); err != nil {
			return nil, err
		}
	}
	return bag, nil
}
