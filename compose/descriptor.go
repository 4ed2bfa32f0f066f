package compose

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"globalstack/types"
)

// Descriptor is the in-memory model of the shared-tier compose file.
type Descriptor struct {
	Services       []types.ServiceSpec
	CreatedVolumes []types.ExternalVolume
	Networks       []string // external networks referenced by services
}

// Service returns the service called name.
func (d *Descriptor) Service(name string) (types.ServiceSpec, bool) {
	for _, s := range d.Services {
		if s.Name == name {
			return s, true
		}
	}
	return types.ServiceSpec{}, false
}

// Renderer turns a Descriptor into file contents.
type Renderer interface {
	Render(d *Descriptor) ([]byte, error)
}

// YAMLRenderer renders compose YAML, keeping service order as modeled.
type YAMLRenderer struct{}

type externalRef struct {
	External bool   `yaml:"external"`
	Name     string `yaml:"name"`
}

func (YAMLRenderer) Render(d *Descriptor) ([]byte, error) {
	services := mapping()
	for _, s := range d.Services {
		var n yaml.Node
		if err := n.Encode(s); err != nil {
			return nil, fmt.Errorf("failed to encode service %s: %w", s.Name, err)
		}
		services.Content = append(services.Content, scalar(s.Name), &n)
	}

	root := mapping()
	root.Content = append(root.Content, scalar("services"), services)

	if len(d.CreatedVolumes) > 0 {
		vols := mapping()
		for _, v := range d.CreatedVolumes {
			var n yaml.Node
			if err := n.Encode(externalRef{External: true, Name: v.DockerName()}); err != nil {
				return nil, fmt.Errorf("failed to encode volume %s: %w", v.Name, err)
			}
			vols.Content = append(vols.Content, scalar(v.Name), &n)
		}
		root.Content = append(root.Content, scalar("volumes"), vols)
	}

	if len(d.Networks) > 0 {
		nets := mapping()
		for _, name := range d.Networks {
			var n yaml.Node
			if err := n.Encode(externalRef{External: true, Name: name}); err != nil {
				return nil, fmt.Errorf("failed to encode network %s: %w", name, err)
			}
			nets.Content = append(nets.Content, scalar(name), &n)
		}
		root.Content = append(root.Content, scalar("networks"), nets)
	}

	doc := &yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: "Generated by globalstack. Remove this file to have it regenerated.",
		Content:     []*yaml.Node{root},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to render descriptor: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to render descriptor: %w", err)
	}
	return buf.Bytes(), nil
}

// File is the subset of a compose file read back for status reporting.
type File struct {
	Services map[string]struct {
		ContainerName string   `yaml:"container_name"`
		Image         string   `yaml:"image"`
		Ports         []string `yaml:"ports"`
	} `yaml:"services"`
	Volumes map[string]externalRef `yaml:"volumes"`
}

// Parse reads a rendered descriptor.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor: %w", err)
	}
	if len(f.Services) == 0 {
		return nil, fmt.Errorf("no services defined in descriptor")
	}
	return &f, nil
}

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
