package foundry

import (
	"sync"
)

// Registry caches loaded artifacts for a project. Unlike a process-global
// memoized loader, the cache is owned by whoever constructs the registry and
// can be invalidated entry by entry (e.g. after recompiling).
type Registry struct {
	project *Project

	mu        sync.Mutex
	artifacts map[string]*Artifact
}

// NewRegistry creates an artifact registry over the foundry project at root.
func NewRegistry(root string) (*Registry, error) {
	project, err := OpenProject(root)
	if err != nil {
		return nil, err
	}
	return &Registry{
		project:   project,
		artifacts: make(map[string]*Artifact),
	}, nil
}

// Project returns the underlying foundry project.
func (r *Registry) Project() *Project {
	return r.project
}

// Load returns the artifact for app/name, reading it from disk on first use.
func (r *Registry) Load(app, name string) (*Artifact, error) {
	key := cacheKey(app, name)

	r.mu.Lock()
	cached, ok := r.artifacts[key]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	artifact, err := r.project.LoadArtifact(app, name)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.artifacts[key] = artifact
	r.mu.Unlock()
	return artifact, nil
}

// Invalidate drops the cached artifact for app/name, forcing the next Load
// to re-read it from disk.
func (r *Registry) Invalidate(app, name string) {
	r.mu.Lock()
	delete(r.artifacts, cacheKey(app, name))
	r.mu.Unlock()
}
