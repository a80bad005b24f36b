package internal

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

var goSchemaTypes = map[string]string{
	"string":  "String",
	"bool":    "Boolean",
	"int":     "Number",
	"int8":    "Number",
	"int16":   "Number",
	"int32":   "Number",
	"int64":   "Number",
	"uint":    "Number",
	"uint8":   "Number",
	"uint16":  "Number",
	"uint32":  "Number",
	"uint64":  "Number",
	"float32": "Number",
	"float64": "Number",
}

// reservedFields are struct fields the generated schema already owns.
var reservedFields = map[string]string{
	"CreatedAt": "added by the schema",
	"ID":        "MongoDB owns _id",
	"Id":        "MongoDB owns _id",
}

// LoadGoModels reads all .go files from modelsDir and turns every exported
// top-level struct into a Resource. Embedded fields, fields the schema
// owns and fields whose Go type has no schema counterpart are skipped and
// reported in the returned warnings.
func LoadGoModels(modelsDir string) ([]Resource, []string, error) {
	var (
		resources []Resource
		warnings  []string
	)
	fileSet := token.NewFileSet()

	files, err := os.ReadDir(modelsDir)
	if err != nil {
		return nil, nil, err
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".go") || strings.HasSuffix(file.Name(), "_test.go") {
			continue
		}

		filePath := filepath.Join(modelsDir, file.Name())
		fileDst, err := decorator.ParseFile(fileSet, filePath, nil, parser.AllErrors)
		if err != nil {
			return nil, nil, err
		}

		for _, decl := range fileDst.Decls {
			genDecl, ok := decl.(*dst.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}

			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*dst.TypeSpec)
				if !ok || typeSpec.Name == nil || !token.IsExported(typeSpec.Name.Name) {
					continue
				}
				structType, ok := typeSpec.Type.(*dst.StructType)
				if !ok {
					continue
				}
				r, skipped := structResource(typeSpec.Name.Name, structType)
				resources = append(resources, r)
				warnings = append(warnings, skipped...)
			}
		}
	}

	return resources, warnings, nil
}

func structResource(structName string, structType *dst.StructType) (Resource, []string) {
	r := Resource{Name: ToPlural(structName)}
	var skipped []string
	for _, field := range structType.Fields.List {
		if len(field.Names) == 0 {
			skipped = append(skipped, fmt.Sprintf("%s: embedded %s skipped", structName, exprName(field.Type)))
			continue
		}
		typ, ok := schemaType(field.Type)
		for _, ident := range field.Names {
			if !token.IsExported(ident.Name) {
				continue
			}
			if reason, reserved := reservedFields[ident.Name]; reserved {
				skipped = append(skipped, fmt.Sprintf("%s.%s: %s", structName, ident.Name, reason))
				continue
			}
			if !ok {
				skipped = append(skipped, fmt.Sprintf("%s.%s: unsupported type", structName, ident.Name))
				continue
			}
			r.Fields = append(r.Fields, Field{Name: LowerFirst(ident.Name), Type: typ})
		}
	}
	return r, skipped
}

func exprName(expr dst.Expr) string {
	switch t := expr.(type) {
	case *dst.Ident:
		if t.Path != "" {
			return path.Base(t.Path) + "." + t.Name
		}
		return t.Name
	case *dst.SelectorExpr:
		return exprName(t.X) + "." + t.Sel.Name
	case *dst.StarExpr:
		return "*" + exprName(t.X)
	}
	return fmt.Sprintf("%T", expr)
}

func schemaType(expr dst.Expr) (string, bool) {
	switch t := expr.(type) {
	case *dst.Ident:
		// With a resolver, dst turns qualified identifiers into Ident with Path set.
		if t.Path == "time" && t.Name == "Time" {
			return "Date", true
		}
		if t.Path != "" {
			return "", false
		}
		s, ok := goSchemaTypes[t.Name]
		return s, ok
	case *dst.SelectorExpr:
		if pkg, ok := t.X.(*dst.Ident); ok && pkg.Name == "time" && t.Sel.Name == "Time" {
			return "Date", true
		}
	case *dst.StarExpr:
		return schemaType(t.X)
	}
	return "", false
}
