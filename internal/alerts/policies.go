package alerts

import (
	"fmt"
	"os"
	"strings"

	"github.com/yildizm/go-promptfmt"
	"gopkg.in/yaml.v3"
)

// Policy is one clinic rule the extractor should respect
type Policy struct {
	Name     string `yaml:"name"`
	Rule     string `yaml:"rule"`
	Interval string `yaml:"interval,omitempty"` // e.g. "12 months"
}

// Policies is the policy file layout
type Policies struct {
	Clinic   string   `yaml:"clinic"`
	Species  []string `yaml:"species,omitempty"`
	Policies []Policy `yaml:"policies"`
	Notes    string   `yaml:"notes,omitempty"`
}

// LoadPolicies reads a YAML policy file
func LoadPolicies(path string) (*Policies, error) {
	// #nosec G304 - path is supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policies file: %w", err)
	}

	var p Policies
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse policies file: %w", err)
	}
	if len(p.Policies) == 0 && strings.TrimSpace(p.Notes) == "" {
		return nil, fmt.Errorf("policies file %s defines no policies", path)
	}
	return &p, nil
}

// Text renders the policies as the clinic_policies form value
func (p *Policies) Text() string {
	clinic := p.Clinic
	if clinic == "" {
		clinic = "the clinic"
	}

	pb := promptfmt.New().
		System("Apply the following policies of %s when scheduling reminders. Policies override generic guidance.", clinic).
		User("Clinic policies (%d):", len(p.Policies))

	if len(p.Policies) > 0 {
		var b strings.Builder
		for _, policy := range p.Policies {
			fmt.Fprintf(&b, "- %s: %s", policy.Name, policy.Rule)
			if policy.Interval != "" {
				fmt.Fprintf(&b, " (every %s)", policy.Interval)
			}
			b.WriteString("\n")
		}
		pb.AddContext("policies", b.String())
	}
	if len(p.Species) > 0 {
		pb.AddContext("species", strings.Join(p.Species, ", "))
	}
	if notes := strings.TrimSpace(p.Notes); notes != "" {
		pb.AddContext("notes", notes)
	}

	prompt := pb.Build()
	return strings.TrimSpace(prompt.String())
}

// PoliciesText loads path and renders it. An empty path yields "".
func PoliciesText(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	p, err := LoadPolicies(path)
	if err != nil {
		return "", err
	}
	return p.Text(), nil
}
