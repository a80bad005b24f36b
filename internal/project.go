package internal

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const DefaultPort = 3000

// Project describes one generated Express service.
type Project struct {
	Name     string     `yaml:"name" validate:"required"`
	Database string     `yaml:"database" validate:"required"`
	Port     int        `yaml:"port" validate:"min=1,max=65535"`
	Models   []Resource `yaml:"models" validate:"required,min=1,unique=Name,dive"`
}

// File is one generated file, its path relative to the project root.
type File struct {
	Path    string
	Content string
}

// NewValidator returns a validator that knows the jsident rule.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("jsident", func(fl validator.FieldLevel) bool {
		return ValidateIdentifier(fl.Field().String()) == nil
	})
	return v
}

func (p *Project) Validate() error {
	if err := NewValidator().Struct(p); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// LoadProject reads a YAML project file. A missing port falls back to
// DefaultPort.
func LoadProject(filePath string) (*Project, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}
	if p.Port == 0 {
		p.Port = DefaultPort
	}
	return &p, nil
}

// ParseModelFlag parses "posts:title=String,views=Number".
func ParseModelFlag(value string) (Resource, error) {
	name, rest, _ := strings.Cut(value, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return Resource{}, fmt.Errorf("model %q: %w", value, ErrEmptyName)
	}
	r := Resource{Name: name}
	if strings.TrimSpace(rest) == "" {
		return r, nil
	}
	for _, pair := range strings.Split(rest, ",") {
		field, typ, ok := strings.Cut(pair, "=")
		if !ok {
			return Resource{}, fmt.Errorf("model %s: field %q is not name=Type", name, pair)
		}
		r.Fields = append(r.Fields, Field{Name: strings.TrimSpace(field), Type: strings.TrimSpace(typ)})
	}
	return r, nil
}

// ModelNames returns the resource names in declaration order.
func (p *Project) ModelNames() []string {
	names := make([]string, len(p.Models))
	for i, m := range p.Models {
		names[i] = m.Name
	}
	return names
}

// UnmappedFields lists "model.field (Type)" for every field whose type has
// no swagger mapping.
func (p *Project) UnmappedFields() []string {
	var unmapped []string
	for _, m := range p.Models {
		for _, f := range m.Fields {
			if _, ok := SwaggerType(f.Type); !ok {
				unmapped = append(unmapped, m.Name+"."+f.Name+" ("+f.Type+")")
			}
		}
	}
	return unmapped
}

// Generate validates p and renders every file of the project tree.
func Generate(p *Project, meta Meta) ([]File, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	manifest, err := PackageTemplate(p.Name, meta)
	if err != nil {
		return nil, err
	}
	server, err := ServerTemplate(ServerOptions{
		MongoURL: p.Database,
		Models:   p.ModelNames(),
		Port:     p.Port,
	}, meta)
	if err != nil {
		return nil, err
	}
	home, err := HomeRouteTemplate(meta)
	if err != nil {
		return nil, err
	}

	files := []File{
		{Path: "package.json", Content: manifest},
		{Path: "server.js", Content: server},
		{Path: path.Join("api", "routes", "homeRoute.js"), Content: home},
	}
	for _, m := range p.Models {
		routes, err := RoutesTemplate(m)
		if err != nil {
			return nil, err
		}
		controller, err := ControllerTemplate(m.Name)
		if err != nil {
			return nil, err
		}
		model, err := ModelTemplate(m)
		if err != nil {
			return nil, err
		}
		files = append(files,
			File{Path: path.Join("api", "routes", m.Name+"Route.js"), Content: routes},
			File{Path: path.Join("api", "controllers", m.Name+"Controller.js"), Content: controller},
			File{Path: path.Join("api", "models", m.Name+"Model.js"), Content: model},
		)
	}
	return files, nil
}
