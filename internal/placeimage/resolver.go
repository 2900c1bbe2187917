// Package placeimage maps the imagen_principal path stored on a place to an
// image bundled with the clients.
package placeimage

import (
	_ "embed"
	"fmt"
	"net/url"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed manifest.yaml
var defaultManifest []byte

type Manifest struct {
	Placeholder string            `yaml:"placeholder"`
	Images      map[string]string `yaml:"images"`
}

type Resolver struct {
	placeholder string
	images      map[string]string
	baseURL     string
}

// New loads the bundled manifest. baseURL prefixes the URLs returned by URL.
func New(baseURL string) (*Resolver, error) {
	return FromYAML(defaultManifest, baseURL)
}

func FromYAML(raw []byte, baseURL string) (*Resolver, error) {
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse image manifest: %w", err)
	}
	if strings.TrimSpace(m.Placeholder) == "" {
		return nil, fmt.Errorf("image manifest has no placeholder")
	}
	images := make(map[string]string, len(m.Images))
	for k, v := range m.Images {
		images[normalizePath(k)] = v
	}
	return &Resolver{
		placeholder: m.Placeholder,
		images:      images,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}, nil
}

// Resolve returns the bundled asset for a stored image path. Unknown and
// empty paths get the placeholder.
func (r *Resolver) Resolve(imagePath string) string {
	if asset, ok := r.Lookup(imagePath); ok {
		return asset
	}
	return r.placeholder
}

func (r *Resolver) Lookup(imagePath string) (string, bool) {
	asset, ok := r.images[normalizePath(imagePath)]
	return asset, ok
}

func (r *Resolver) Placeholder() string { return r.placeholder }

// URL is the public address of the resolved asset. Absolute http(s) paths
// are already URLs and pass through.
func (r *Resolver) URL(imagePath string) string {
	p := strings.TrimSpace(imagePath)
	if u, err := url.Parse(p); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return p
	}
	asset := r.Resolve(imagePath)
	if r.baseURL == "" {
		return "/assets/" + asset
	}
	return r.baseURL + "/" + asset
}

func normalizePath(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	if p == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(path.Clean("/"+p), "/"))
}
