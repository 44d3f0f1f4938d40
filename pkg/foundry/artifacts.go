package foundry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/naoina/toml"
)

// Artifact is one compiled contract loaded from a foundry output directory.
type Artifact struct {
	App      string
	Name     string
	ABI      abi.ABI
	RawABI   json.RawMessage
	Bytecode []byte
}

// Project describes a foundry workspace as read from foundry.toml.
type Project struct {
	Root string
	Out  string // compilation output directory, relative to Root
	Src  string // solidity source directory, relative to Root
}

type foundryProfile struct {
	Out string `toml:"out"`
	Src string `toml:"src"`
}

type foundryConfig struct {
	Profile map[string]foundryProfile `toml:"profile"`
}

// artifactFile is the subset of a foundry compilation output this layer reads.
type artifactFile struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode struct {
		Object string `json:"object"`
	} `json:"bytecode"`
	Metadata struct {
		Settings struct {
			CompilationTarget map[string]string `json:"compilationTarget"`
		} `json:"settings"`
	} `json:"metadata"`
}

// OpenProject reads foundry.toml under root. Missing out/src entries fall
// back to the foundry defaults.
func OpenProject(root string) (*Project, error) {
	data, err := os.ReadFile(filepath.Join(root, "foundry.toml"))
	if err != nil {
		return nil, fmt.Errorf("read foundry.toml: %w", err)
	}

	var cfg foundryConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse foundry.toml: %w", err)
	}

	p := &Project{Root: root, Out: "out", Src: "src"}
	if profile, ok := cfg.Profile["default"]; ok {
		if profile.Out != "" {
			p.Out = profile.Out
		}
		if profile.Src != "" {
			p.Src = profile.Src
		}
	}
	return p, nil
}

// LoadArtifact locates the compilation output of the named contract. When
// several artifacts share the name, the solidity source under src/<app> is
// used to disambiguate via the compilation target recorded in the metadata.
func (p *Project) LoadArtifact(app, name string) (*Artifact, error) {
	candidates, err := p.globArtifacts(name)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("cannot locate a unique %s in %s: no compilation output", name, app)
	}

	var raw artifactFile
	if len(candidates) == 1 {
		raw = candidates[0].file
	} else {
		target, err := p.uniqueSource(app, name)
		if err != nil {
			return nil, err
		}
		matches := make([]artifactFile, 0, 1)
		for _, c := range candidates {
			if _, ok := c.file.Metadata.Settings.CompilationTarget[target]; ok {
				matches = append(matches, c.file)
			}
		}
		if len(matches) != 1 {
			return nil, fmt.Errorf("cannot locate a unique compilation output for target %s: found %d outputs", target, len(matches))
		}
		raw = matches[0]
	}

	parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("parse abi of %s: %w", name, err)
	}

	return &Artifact{
		App:      app,
		Name:     name,
		ABI:      parsed,
		RawABI:   raw.ABI,
		Bytecode: common.FromHex(raw.Bytecode.Object),
	}, nil
}

type candidate struct {
	path string
	file artifactFile
}

// globArtifacts collects every <name>.json under the output directory.
func (p *Project) globArtifacts(name string) ([]candidate, error) {
	outDir := filepath.Join(p.Root, p.Out)
	want := name + ".json"

	var candidates []candidate
	err := filepath.WalkDir(outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != want {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		var file artifactFile
		if err := json.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("parse artifact %s: %w", path, err)
		}
		candidates = append(candidates, candidate{path: path, file: file})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", outDir, err)
	}
	return candidates, nil
}

// uniqueSource finds the single <name>.sol under src/<app> and returns its
// path relative to the project root, the form used as compilation target key.
func (p *Project) uniqueSource(app, name string) (string, error) {
	srcDir := filepath.Join(p.Root, p.Src, app)
	want := name + ".sol"

	var sources []string
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == want {
			rel, err := filepath.Rel(p.Root, path)
			if err != nil {
				return err
			}
			sources = append(sources, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", srcDir, err)
	}
	if len(sources) != 1 {
		return "", fmt.Errorf("cannot locate a unique %s in %s: found %d sources", name, app, len(sources))
	}
	return sources[0], nil
}

// cacheKey identifies an artifact within a registry.
func cacheKey(app, name string) string {
	return strings.Join([]string{app, name}, "/")
}
