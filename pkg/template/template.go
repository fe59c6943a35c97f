// Package template loads the cluster CloudFormation template and assembles
// the body and parameters sent to CreateStack.
package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yasmagic/elasticrtc-tools/pkg/logger"
	"github.com/yasmagic/elasticrtc-tools/pkg/models"
	"sigs.k8s.io/yaml"
)

const (
	mappingsKey   = "Mappings"
	parametersKey = "Parameters"
	regionMapKey  = "RegionMap"
	imageIDKey    = "KmsImageId"
)

// Template is a decoded CloudFormation template.
type Template struct {
	doc map[string]interface{}
}

// ResolvePath returns path when set. Otherwise the default template is looked
// up next to the executable, then in the working directory.
func ResolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}

	var candidates []string
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), models.DefaultTemplateFile))
	}
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, models.DefaultTemplateFile))
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			logger.Get().Debugf("Using CloudFormation template %s", c)
			return c, nil
		}
	}
	return "", fmt.Errorf("cloudformation template file not found: %s", models.DefaultTemplateFile)
}

// Read returns the raw template body at path, resolving the default
// location when path is empty.
func Read(path string) ([]byte, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}
	body, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("unable to open cloudformation template file: %s: %w", resolved, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty cloudformation template body, verify file exists: %s", resolved)
	}
	return body, nil
}

// Parse decodes a JSON or YAML template.
func Parse(body []byte) (*Template, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("malformed cloudformation template: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("malformed cloudformation template: empty document")
	}
	return &Template{doc: doc}, nil
}

// Load reads and parses the template at path.
func Load(path string) (*Template, error) {
	body, err := Read(path)
	if err != nil {
		return nil, err
	}
	return Parse(body)
}

// InjectImage replaces the template mappings with a single region entry
// pointing at imageID.
func (t *Template) InjectImage(region, imageID string) {
	t.doc[mappingsKey] = map[string]interface{}{
		regionMapKey: map[string]interface{}{
			region: map[string]interface{}{
				imageIDKey: imageID,
			},
		},
	}
}

// Body renders the template as JSON.
func (t *Template) Body() (string, error) {
	data, err := json.Marshal(t.doc)
	if err != nil {
		return "", fmt.Errorf("failed to render CloudFormation template: %w", err)
	}
	return string(data), nil
}

// HasParameter reports whether the template declares parameter name.
func (t *Template) HasParameter(name string) bool {
	params, ok := t.doc[parametersKey].(map[string]interface{})
	if !ok {
		return false
	}
	_, ok = params[name]
	return ok
}

// ImageID returns the image mapped for region, if any.
func (t *Template) ImageID(region string) string {
	mappings, _ := t.doc[mappingsKey].(map[string]interface{})
	regions, _ := mappings[regionMapKey].(map[string]interface{})
	entry, _ := regions[region].(map[string]interface{})
	id, _ := entry[imageIDKey].(string)
	return id
}
