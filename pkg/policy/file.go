package policy

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/SophieMSL/hubspot-monday-sync/pkg/constants"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/records"
)

// Load reads a policy snapshot from a YAML file. Fields absent from the file
// keep their default owner, so a partial file is valid.
func Load(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	p := Default()
	for field, owner := range raw {
		f := records.Field(field)
		o := Owner(owner)
		if err := p.Set(f, o); err != nil {
			return nil, err
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Save writes the policy to a YAML file, creating parent directories as
// needed.
func (p Policy) Save(path string) error {
	if err := p.Validate(); err != nil {
		return err
	}

	// Marshal through plain strings for a stable, hand-editable file
	raw := make(map[string]string, len(p))
	for f, o := range p {
		raw[f.String()] = o.String()
	}

	data, err := yaml.Marshal(raw)
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
