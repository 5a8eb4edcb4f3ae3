package deriver

// Option is one choice of an enumerated property such as hive_database.
type Option struct {
	DisplayName string `yaml:"display_name" json:"displayName"`
	Hidden      bool   `yaml:"hidden,omitempty" json:"hidden,omitempty"`
}

// ConfigProperty is a single site configuration entry.
type ConfigProperty struct {
	Name             string `yaml:"name" json:"name"`
	Filename         string `yaml:"filename,omitempty" json:"filename,omitempty"`
	Value            string `yaml:"value" json:"value"`
	RecommendedValue string `yaml:"recommended_value" json:"recommendedValue"`

	// Default holds the stack template the derivation starts from. It is
	// captured from RecommendedValue on the first derivation when unset.
	Default *string `yaml:"default,omitempty" json:"default,omitempty"`

	// Overridden marks Value as set by the user; derivation then only
	// touches RecommendedValue.
	Overridden bool `yaml:"overridden,omitempty" json:"overridden,omitempty"`

	Options         []Option `yaml:"options,omitempty" json:"options,omitempty"`
	Hidden          bool     `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Optional        bool     `yaml:"optional,omitempty" json:"optional,omitempty"`
	RetypedPassword string   `yaml:"retyped_password,omitempty" json:"retypedPassword,omitempty"`
}

// Template returns the stack template, falling back to RecommendedValue.
func (p *ConfigProperty) Template() string {
	if p.Default != nil {
		return *p.Default
	}
	return p.RecommendedValue
}

func (p *ConfigProperty) captureDefault() {
	if p.Default == nil {
		d := p.RecommendedValue
		p.Default = &d
	}
}

// Clone returns a deep copy of p.
func (p *ConfigProperty) Clone() *ConfigProperty {
	c := *p
	if p.Default != nil {
		d := *p.Default
		c.Default = &d
	}
	if p.Options != nil {
		c.Options = append([]Option(nil), p.Options...)
	}
	return &c
}

// Patch is the mutation a strategy computed for a property.
type Patch func(p *ConfigProperty)

// setBoth stores v as recommended value and, unless the user overrode it,
// as value.
func setBoth(v string) Patch {
	return func(p *ConfigProperty) {
		p.RecommendedValue = v
		if !p.Overridden {
			p.Value = v
		}
	}
}
