package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the CLI's on-disk configuration: a list of named MPD servers
// plus which one to use when -server isn't given on the command line.
// Adapted from direttampd's own config file shape (Target/AddTarget/
// GetPreferredTarget), renamed to this domain's vocabulary.
type Config struct {
	Servers       []Server `yaml:"servers"`
	PreferredName string   `yaml:"preferred_server,omitempty"`
}

// Server is one named MPD endpoint.
type Server struct {
	Name     string `yaml:"name"`
	Address  string `yaml:"address"` // host:port or a unix socket path
	Password string `yaml:"password,omitempty"`
}

// DefaultConfig returns a configuration with a single server named
// "default" at the conventional local MPD listener, used when no config
// file exists yet.
func DefaultConfig() *Config {
	return &Config{
		Servers: []Server{{Name: "default", Address: "localhost:6600"}},
	}
}

// LoadConfig loads a Config from path. A missing file is not an error: it
// yields DefaultConfig, mirroring direttampd's LoadConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("cmd/mpdc: reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cmd/mpdc: parsing config: %w", err)
	}
	return &cfg, nil
}

// AddServer appends a server, making it preferred if it is the first one.
func (c *Config) AddServer(s Server) {
	c.Servers = append(c.Servers, s)
	if len(c.Servers) == 1 {
		c.PreferredName = s.Name
	}
}

// GetServer returns the named server, or nil if there is none by that name.
func (c *Config) GetServer(name string) *Server {
	for i := range c.Servers {
		if c.Servers[i].Name == name {
			return &c.Servers[i]
		}
	}
	return nil
}

// GetPreferredServer returns the preferred server, falling back to the
// first configured one, or nil if none are configured.
func (c *Config) GetPreferredServer() *Server {
	if c.PreferredName != "" {
		if s := c.GetServer(c.PreferredName); s != nil {
			return s
		}
	}
	if len(c.Servers) > 0 {
		return &c.Servers[0]
	}
	return nil
}
