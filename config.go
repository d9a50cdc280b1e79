/*
	Library-level configuration, generalizing the teacher's
	logbase.go LogbaseConfiguration/DefaultConfig/LoadConfig trio: a
	plain struct of named defaults, a constructor for the values used
	when no file is supplied, and a loader that treats a missing file
	as "use the defaults" rather than an error. The teacher loads its
	own unversioned github.com/h00gs/toml; this codec uses
	BurntSushi/toml, the config-file library the wider retrieval pack
	reaches for, since spec.md carries no equivalent of its own.
*/
package gdsii

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// LibraryConfig holds the defaults a caller applies when opening or
// creating a Library that does not otherwise specify them.
type LibraryConfig struct {
	Name         string    `toml:"name"`
	UserUnit     float64   `toml:"userunit"` // meters
	Modify       time.Time `toml:"modify"`
	Access       time.Time `toml:"acc"`
	Verbose      bool      `toml:"verbose"`
	DefaultScale string    `toml:"default_scale"` // "micrometer", "nanometer", "picometer", or "" for none
}

// DefaultLibraryConfig returns the configuration used when no file is
// supplied: library name "GDSIILIB", a one-micrometer user unit and
// database scale (matching spec.md §4.3's "unitless input is treated
// as micrometers" convention), creation/access timestamps of now, and
// verbose logging off.
func DefaultLibraryConfig() LibraryConfig {
	now := time.Now()
	return LibraryConfig{
		Name:         "GDSIILIB",
		UserUnit:     1e-6,
		Modify:       now,
		Access:       now,
		Verbose:      false,
		DefaultScale: "micrometer",
	}
}

// LoadLibraryConfig reads a LibraryConfig from a TOML file at path,
// starting from DefaultLibraryConfig for any field the file omits. A
// missing file is not an error: it yields the defaults, the same way
// the teacher's LoadConfig treats os.IsNotExist.
func LoadLibraryConfig(path string) (LibraryConfig, error) {
	cfg := DefaultLibraryConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return LibraryConfig{}, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return LibraryConfig{}, err
	}
	return cfg, nil
}

// Scale resolves the configured default scale name to a Scale value.
func (c LibraryConfig) Scale() Scale {
	switch c.DefaultScale {
	case "nanometer":
		return Nanometer()
	case "picometer":
		return Picometer()
	case "micrometer", "":
		return Micrometer()
	default:
		return Micrometer()
	}
}

// NewLibrary builds a Library using this configuration's name, user
// unit, database scale, and creation/access timestamps.
func (c LibraryConfig) NewLibrary() *Library {
	lib := NewLibrary(c.Name, c.Scale(), c.UserUnit)
	lib.Created = c.Modify
	lib.Accessed = c.Access
	return lib
}
