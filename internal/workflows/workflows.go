// Package workflows provides named workflow definitions: ordered lists of
// module names executed in sequence by the workflow runner.
//
// Built-in definitions cover the standard automation flows; projects can
// add or replace definitions in .crucible/workflows.yaml.
package workflows

import (
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/crucible-dev/crucible/internal/constants"
	"github.com/crucible-dev/crucible/internal/errors"
)

// Definition is one named workflow.
type Definition struct {
	// Name identifies the workflow.
	Name string `yaml:"name"`

	// Modules is the ordered list of module names to execute.
	Modules []string `yaml:"modules"`
}

// Registry holds workflow definitions keyed by name.
type Registry struct {
	definitions map[string]Definition
}

// Defaults returns a registry populated with the built-in workflows.
func Defaults() *Registry {
	r := &Registry{definitions: make(map[string]Definition)}
	for _, def := range []Definition{
		{
			Name: "full_automation",
			Modules: []string{
				constants.ModuleCodeReview,
				constants.ModuleTestSuite,
				constants.ModuleGitHub,
				constants.ModuleJira,
				constants.ModuleConfluence,
			},
		},
		{
			Name:    "quality_gate",
			Modules: []string{constants.ModuleCodeReview, constants.ModuleTestSuite},
		},
		{
			Name:    "publish",
			Modules: []string{constants.ModuleGitHub, constants.ModuleConfluence},
		},
	} {
		r.definitions[def.Name] = def
	}
	return r
}

// FromDefinitions returns a registry holding exactly the given definitions,
// without the built-ins.
func FromDefinitions(defs []Definition) *Registry {
	r := &Registry{definitions: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		r.definitions[def.Name] = def
	}
	return r
}

// workflowsFile is the on-disk YAML layout.
type workflowsFile struct {
	Workflows []Definition `yaml:"workflows"`
}

// LoadFile merges user-defined workflows from the given YAML file into the
// registry, replacing built-ins with the same name. A missing file is not an
// error.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from project config
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to read workflows file %s", path)
	}

	var file workflowsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return errors.Wrapf(err, "failed to parse workflows file %s", path)
	}

	for _, def := range file.Workflows {
		if def.Name == "" {
			return errors.Wrap(errors.ErrEmptyValue, "workflow name")
		}
		if len(def.Modules) == 0 {
			return errors.Wrapf(errors.ErrWorkflowEmpty, "workflow %q", def.Name)
		}
		r.definitions[def.Name] = def
	}
	return nil
}

// Get returns the definition for the given name.
func (r *Registry) Get(name string) (Definition, error) {
	def, ok := r.definitions[name]
	if !ok {
		return Definition{}, errors.Wrapf(errors.ErrWorkflowNotFound, "%q", name)
	}
	return def, nil
}

// All returns every definition sorted by name. The comprehensive build
// executes workflows in this order so runs are deterministic.
func (r *Registry) All() []Definition {
	defs := make([]Definition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Names returns every workflow name sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
