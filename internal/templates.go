package internal

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/valyala/bytebufferpool"
)

const (
	ServerTemplateName     = "server"
	ControllerTemplateName = "controller"
	HomeRouteTemplateName  = "homeRoute"
	RoutesTemplateName     = "routes"
	ModelTemplateName      = "model"
)

// DefaultReserved is the number of leading entries the route list builders
// skip when callers follow the home/posts/comments list convention.
const DefaultReserved = 3

var RawTemplates = map[string]string{
	ServerTemplateName:     ServerRawTemplate,
	ControllerTemplateName: ControllerRawTemplate,
	HomeRouteTemplateName:  HomeRouteRawTemplate,
	RoutesTemplateName:     RoutesRawTemplate,
	ModelTemplateName:      ModelRawTemplate,
}

var templateFuncs = template.FuncMap{
	"js":     jsString,
	"result": renderResult,
}

// Meta carries facts about the generator itself into generated files.
type Meta struct {
	Version string
}

type Field struct {
	Name string `yaml:"name" validate:"jsident,ne=createdAt,ne=_id"`
	Type string `yaml:"type" validate:"jsident"`
}

// Resource is one CRUD entity: its name doubles as the URL path segment.
type Resource struct {
	Name   string  `yaml:"name" validate:"jsident"`
	Fields []Field `yaml:"fields" validate:"unique=Name,dive"`
}

func (r Resource) Attributes() []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return names
}

func (r Resource) Types() []string {
	types := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		types[i] = f.Type
	}
	return types
}

// NewResource pairs attributes with types by index.
func NewResource(name string, attributes, types []string) (Resource, error) {
	if err := ValidateIdentifier(name); err != nil {
		return Resource{}, fmt.Errorf("resource: %w", err)
	}
	if len(attributes) != len(types) {
		return Resource{}, fmt.Errorf("resource %s: %d attributes but %d types", name, len(attributes), len(types))
	}
	r := Resource{Name: name, Fields: make([]Field, len(attributes))}
	for i := range attributes {
		r.Fields[i] = Field{Name: attributes[i], Type: types[i]}
	}
	return r, nil
}

func (r Resource) validate() error {
	if err := ValidateIdentifier(r.Name); err != nil {
		return fmt.Errorf("resource: %w", err)
	}
	for _, f := range r.Fields {
		if err := ValidateIdentifier(f.Name); err != nil {
			return fmt.Errorf("resource %s field: %w", r.Name, err)
		}
		if err := ValidateIdentifier(f.Type); err != nil {
			return fmt.Errorf("resource %s field %s type: %w", r.Name, f.Name, err)
		}
	}
	return nil
}

type ServerOptions struct {
	MongoURL string
	Models   []string
	Port     int
	Reserved int
}

type serverContext struct {
	Requires string
	Mounts   string
	Swagger  string
	Port     int
	MongoURL string
}

type controllerContext struct {
	ControllerOperations
	Model string
	Name  string
}

type homeRouteContext struct {
	Banner string
}

type routesContext struct {
	ControllerOperations
	Model      string
	Name       string
	Param      string
	PathParam  string
	IDParam    string
	BodyParam  string
	ItemResult string
	Typedef    string
}

type modelContext struct {
	Model  string
	Name   string
	Fields []Field
}

type packageManifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Description  string            `json:"description"`
	Main         string            `json:"main"`
	Scripts      packageScripts    `json:"scripts"`
	Author       string            `json:"author"`
	License      string            `json:"license"`
	Dependencies map[string]string `json:"dependencies"`
}

type packageScripts struct {
	Start string `json:"start"`
	Test  string `json:"test"`
}

type swaggerOptions struct {
	SwaggerDefinition swaggerDefinition `json:"swaggerDefinition"`
	Files             []string          `json:"files"`
}

type swaggerDefinition struct {
	Info                swaggerInfo                   `json:"info"`
	Host                string                        `json:"host"`
	BasePath            string                        `json:"basePath"`
	Produces            []string                      `json:"produces"`
	Schemes             []string                      `json:"schemes"`
	SecurityDefinitions map[string]securityDefinition `json:"securityDefinitions"`
}

type swaggerInfo struct {
	Description string `json:"description"`
	Title       string `json:"title"`
	Version     string `json:"version"`
}

type securityDefinition struct {
	Type        string `json:"type"`
	In          string `json:"in"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var parsedTemplates = func() map[string]*template.Template {
	parsed := make(map[string]*template.Template, len(RawTemplates))
	for name, text := range RawTemplates {
		parsed[name] = template.Must(template.New(name).Funcs(templateFuncs).Parse(text))
	}
	return parsed
}()

// jsString encodes s as a JavaScript string literal. JSON string syntax is
// a subset of it, and encoding/json also escapes U+2028 and U+2029.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func renderTemplate(name string, context any) (string, error) {
	tmpl, ok := parsedTemplates[name]
	if !ok {
		return "", fmt.Errorf("template doesn't exist: %s", name)
	}
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := tmpl.Execute(buf, context); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// RouteRequires emits one require line per model at index >= reserved.
func RouteRequires(models []string, reserved int) (string, error) {
	var b strings.Builder
	for i := max(reserved, 0); i < len(models); i++ {
		if err := ValidateIdentifier(models[i]); err != nil {
			return "", fmt.Errorf("route %d: %w", i, err)
		}
		fmt.Fprintf(&b, "const %sRoute = require('./api/routes/%sRoute');\n", models[i], models[i])
	}
	return b.String(), nil
}

// RouteMounts emits one app.use line per model at index >= reserved.
func RouteMounts(models []string, reserved int) (string, error) {
	var b strings.Builder
	for i := max(reserved, 0); i < len(models); i++ {
		if err := ValidateIdentifier(models[i]); err != nil {
			return "", fmt.Errorf("route %d: %w", i, err)
		}
		fmt.Fprintf(&b, "app.use('/%s', %sRoute);\n", models[i], models[i])
	}
	return b.String(), nil
}

// PackageTemplate returns package.json for appName.
func PackageTemplate(appName string, meta Meta) (string, error) {
	manifest := packageManifest{
		Name:        appName,
		Version:     "1.0.0",
		Description: appName,
		Main:        "server.js",
		Scripts: packageScripts{
			Start: "node server.js",
			Test:  "echo 'Error: no test specified' && exit 1",
		},
		Author:  strings.TrimSpace("expressgen " + meta.Version),
		License: "ISC",
		Dependencies: map[string]string{
			"body-parser":               "*",
			"dotenv":                    "*",
			"express":                   "*",
			"mongoose":                  "*",
			"morgan":                    "*",
			"express-swagger-generator": "*",
		},
	}
	b, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("package manifest: %w", err)
	}
	return string(b) + "\n", nil
}

func ServerTemplate(opts ServerOptions, meta Meta) (string, error) {
	requires, err := RouteRequires(opts.Models, opts.Reserved)
	if err != nil {
		return "", err
	}
	mounts, err := RouteMounts(opts.Models, opts.Reserved)
	if err != nil {
		return "", err
	}
	swagger, err := json.MarshalIndent(swaggerOptions{
		SwaggerDefinition: swaggerDefinition{
			Info: swaggerInfo{
				Description: "Documents api",
				Title:       "Documents",
				Version:     meta.Version,
			},
			Host:     fmt.Sprintf("localhost:%d", opts.Port),
			BasePath: "",
			Produces: []string{"application/json", "application/xml"},
			Schemes:  []string{"http", "https"},
			SecurityDefinitions: map[string]securityDefinition{
				"JWT": {Type: "apiKey", In: "header", Name: "Authorization"},
			},
		},
		Files: []string{"./api/routes/*.js"},
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("swagger options: %w", err)
	}
	return renderTemplate(ServerTemplateName, serverContext{
		Requires: requires,
		Mounts:   mounts,
		Swagger:  string(swagger),
		Port:     opts.Port,
		MongoURL: opts.MongoURL,
	})
}

func ControllerTemplate(model string) (string, error) {
	if err := ValidateIdentifier(model); err != nil {
		return "", fmt.Errorf("controller: %w", err)
	}
	return renderTemplate(ControllerTemplateName, controllerContext{
		ControllerOperations: NewControllerOperations(model),
		Model:                model,
		Name:                 CapitalizeFirst(model),
	})
}

func HomeRouteTemplate(meta Meta) (string, error) {
	return renderTemplate(HomeRouteTemplateName, homeRouteContext{
		Banner: "API running version " + meta.Version,
	})
}

// RoutesTemplate returns the router for r together with its
// express-swagger-generator annotations.
func RoutesTemplate(r Resource) (string, error) {
	if err := r.validate(); err != nil {
		return "", err
	}
	name := CapitalizeFirst(r.Name)
	param := r.Name + "Id"
	return renderTemplate(RoutesTemplateName, routesContext{
		ControllerOperations: NewControllerOperations(r.Name),
		Model:                r.Name,
		Name:                 name,
		Param:                param,
		PathParam:            "{" + param + "}",
		IDParam:              fmt.Sprintf("{string} %s.path.required", param),
		BodyParam:            fmt.Sprintf("{%s.model} %s.body.required", name, r.Name),
		ItemResult:           "{" + name + ".model}",
		Typedef:              typedef(name, r.Fields),
	})
}

// typedef renders the schema block of the route annotations. Fields whose
// type has no swagger mapping get an empty type.
func typedef(name string, fields []Field) string {
	var b strings.Builder
	fmt.Fprintf(&b, " * @typedef %s\n", name)
	for _, f := range fields {
		t, _ := SwaggerType(f.Type)
		fmt.Fprintf(&b, " * @property {%s} %s.required\n", t, f.Name)
	}
	return b.String()
}

func ModelTemplate(r Resource) (string, error) {
	if err := r.validate(); err != nil {
		return "", err
	}
	return renderTemplate(ModelTemplateName, modelContext{
		Model:  r.Name,
		Name:   CapitalizeFirst(r.Name),
		Fields: r.Fields,
	})
}
