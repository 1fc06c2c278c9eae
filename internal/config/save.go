package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/atelier-dev/atelier/internal/shell"
)

// SaveLayout updates the layout section in the config file. Comments and
// formatting in other sections are preserved by editing the yaml.Node tree
// rather than re-marshaling the whole config.
func SaveLayout(configPath string, layout shell.Layout) error {
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	layoutNode, err := buildLayoutNode(layout)
	if err != nil {
		return fmt.Errorf("building layout node: %w", err)
	}

	if doc.Kind == 0 {
		// Empty or new file
		doc = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{
					Kind: yaml.MappingNode,
					Content: []*yaml.Node{
						{Kind: yaml.ScalarNode, Value: "layout"},
						layoutNode,
					},
				},
			},
		}
	} else if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root := doc.Content[0]
		if root.Kind == yaml.MappingNode {
			found := false
			for i := 0; i < len(root.Content)-1; i += 2 {
				if root.Content[i].Value == "layout" {
					root.Content[i+1] = layoutNode
					found = true
					break
				}
			}
			if !found {
				root.Content = append(root.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Value: "layout"},
					layoutNode,
				)
			}
		}
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// LoadLayout reads the layout section from the config file. Reports false
// when the file or the section is absent.
func LoadLayout(configPath string) (shell.Layout, bool, error) {
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return shell.Layout{}, false, nil
	}
	if err != nil {
		return shell.Layout{}, false, fmt.Errorf("reading config: %w", err)
	}

	var wrapper struct {
		Layout *shell.Layout `yaml:"layout"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return shell.Layout{}, false, fmt.Errorf("parsing config: %w", err)
	}
	if wrapper.Layout == nil {
		return shell.Layout{}, false, nil
	}
	return *wrapper.Layout, true, nil
}

// buildLayoutNode creates a yaml.Node representing the layout snapshot.
func buildLayoutNode(layout shell.Layout) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "current"},
		&yaml.Node{Kind: yaml.ScalarNode, Value: layout.Current},
	)

	areasNode := &yaml.Node{Kind: yaml.MappingNode}
	for _, area := range []shell.Area{shell.AreaMain, shell.AreaLeft, shell.AreaRight, shell.AreaStatus} {
		ids := layout.Areas[area]
		if len(ids) == 0 {
			continue
		}
		idsNode := &yaml.Node{Kind: yaml.SequenceNode}
		for _, id := range ids {
			idsNode.Content = append(idsNode.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: id})
		}
		areasNode.Content = append(areasNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(area)},
			idsNode,
		)
	}
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "areas"},
		areasNode,
	)

	return node, nil
}

// writeAtomic writes data to path via a temp file and rename.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".atelier.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
