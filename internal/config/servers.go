package config

import (
	"fmt"
	"slices"

	"github.com/BurntSushi/toml"
)

// ServerDefinition describes how to launch one stdio server.
type ServerDefinition struct {
	Command string            `toml:"command"`
	Args    []string          `toml:"args"`
	Env     map[string]string `toml:"env"`
	Cwd     string            `toml:"cwd"`
}

// serversFile is the on-disk layout:
//
//	[servers.echo]
//	command = "echo-server"
//	args = ["--stdio"]
type serversFile struct {
	Servers map[string]ServerDefinition `toml:"servers"`
}

// LoadServers reads server definitions from a TOML file.
func LoadServers(path string) (map[string]ServerDefinition, error) {
	var file serversFile

	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("decode server file %s: %w", path, err)
	}

	return validateServers(file, meta)
}

// ParseServers reads server definitions from TOML text.
func ParseServers(data string) (map[string]ServerDefinition, error) {
	var file serversFile

	meta, err := toml.Decode(data, &file)
	if err != nil {
		return nil, fmt.Errorf("decode server definitions: %w", err)
	}

	return validateServers(file, meta)
}

func validateServers(file serversFile, meta toml.MetaData) (map[string]ServerDefinition, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown server setting %q", undecoded[0].String())
	}

	names := make([]string, 0, len(file.Servers))
	for name := range file.Servers {
		names = append(names, name)
	}

	slices.Sort(names)

	for _, name := range names {
		if file.Servers[name].Command == "" {
			return nil, fmt.Errorf("server %q: command is required", name)
		}
	}

	if file.Servers == nil {
		return map[string]ServerDefinition{}, nil
	}

	return file.Servers, nil
}

// Apply copies the definition's launch settings onto o.
func (d ServerDefinition) Apply(o *Options) {
	o.Cwd = d.Cwd

	if len(d.Env) == 0 {
		return
	}

	if o.Env == nil {
		o.Env = make(map[string]string, len(d.Env))
	}

	for key, value := range d.Env {
		o.Env[key] = value
	}
}
