package uielement

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/arenaplug/internal/ctxlog"
	"github.com/specialistvlad/arenaplug/internal/fsutil"
	"github.com/specialistvlad/arenaplug/internal/hclutil"
)

// ManifestExtension is the file extension of UI element manifests.
const ManifestExtension = ".hcl"

// manifestRoot decodes the top level of a manifest file.
type manifestRoot struct {
	Elements []*hclElement `hcl:"ui_element,block"`
}

type hclElement struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

var elementBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "movie"},
		{Name: "description"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "function", LabelNames: []string{"name"}},
		{Type: "event", LabelNames: []string{"name"}},
	},
}

var callableBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "param", LabelNames: []string{"name"}},
	},
}

var paramBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type", Required: true},
		{Name: "description"},
	},
}

// Loader reads UI element manifests from a fixed set of paths. It is itself
// a Source over the elements of the last successful load.
type Loader struct {
	Library
	paths []string
}

// NewLoader creates a loader over the given files or directories.
func NewLoader(paths ...string) *Loader {
	return &Loader{paths: paths}
}

// checkPaths fails when no configured path exists, which usually means the
// UI path was mistyped.
func (l *Loader) checkPaths(ctx context.Context) error {
	if len(l.paths) == 0 {
		return fmt.Errorf("no UI manifest paths configured")
	}
	var missing []string
	for _, p := range l.paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			missing = append(missing, p)
		}
	}
	if len(missing) == len(l.paths) {
		return fmt.Errorf("none of the UI manifest paths exist: %s", strings.Join(missing, ", "))
	}
	if len(missing) > 0 {
		ctxlog.FromContext(ctx).Warn("Some UI manifest paths do not exist.", "missing", missing)
	}
	return nil
}

// Paths returns the configured manifest paths.
func (l *Loader) Paths() []string {
	return l.paths
}

// Load (re)reads every manifest. Paths that do not exist are skipped with a
// warning, but at least one of them must exist. On error the previously
// loaded elements are kept.
func (l *Loader) Load(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading UI element manifests.", "paths", l.paths)

	if err := l.checkPaths(ctx); err != nil {
		return err
	}

	files, err := fsutil.FindFiles(ManifestExtension, l.paths...)
	if err != nil {
		return fmt.Errorf("failed to discover UI manifests: %w", err)
	}
	if len(files) == 0 {
		logger.Warn("No UI element manifests found.", "paths", l.paths)
	}

	parser := hclparse.NewParser()
	var elements []*Element
	seen := make(map[string]string)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		parsed, diags := ParseManifest(hclFile, file)
		if diags.HasErrors() {
			return fmt.Errorf("failed to decode UI manifest %s: %w", file, diags)
		}

		for _, el := range parsed {
			if prev, dup := seen[el.ElementName]; dup {
				return fmt.Errorf("UI element %q declared in %s was already declared in %s", el.ElementName, file, prev)
			}
			seen[el.ElementName] = file
			if !el.Valid() {
				logger.Debug("UI element described but not resolvable.", "element", el.ElementName, "problem", el.Problem)
			}
			elements = append(elements, el)
		}
		logger.Debug("Loaded UI manifest.", "file", file, "elements", len(parsed))
	}

	l.replace(elements)
	logger.Info("UI element manifests loaded.", "files", len(files), "elements", len(elements))
	return nil
}

// ParseManifest decodes every ui_element block of a parsed manifest file.
// Movie paths are resolved relative to the manifest's directory.
func ParseManifest(hclFile *hcl.File, filePath string) ([]*Element, hcl.Diagnostics) {
	if hclFile == nil {
		return nil, hcl.Diagnostics{{Severity: hcl.DiagError, Summary: "HCL file is nil"}}
	}

	var root manifestRoot
	diags := gohcl.DecodeBody(hclFile.Body, nil, &root)
	if diags.HasErrors() {
		return nil, diags
	}

	elements := make([]*Element, 0, len(root.Elements))
	for _, block := range root.Elements {
		el, elDiags := parseElement(block, filePath)
		diags = append(diags, elDiags...)
		if el != nil {
			elements = append(elements, el)
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return elements, diags
}

func parseElement(block *hclElement, filePath string) (*Element, hcl.Diagnostics) {
	content, diags := block.Body.Content(elementBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	el := &Element{
		ElementName: block.Name,
		Manifest:    filePath,
		visible:     true,
	}

	if attr, ok := content.Attributes["description"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &el.Description)...)
	}

	var movie string
	if attr, ok := content.Attributes["movie"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &movie)...)
	}

	var functionBlocks, eventBlocks hcl.Blocks
	for _, b := range content.Blocks {
		switch b.Type {
		case "function":
			functionBlocks = append(functionBlocks, b)
		case "event":
			eventBlocks = append(eventBlocks, b)
		}
	}
	diags = append(diags, hclutil.CheckUniqueLabels(functionBlocks, "function")...)
	diags = append(diags, hclutil.CheckUniqueLabels(eventBlocks, "event")...)

	for _, b := range functionBlocks {
		desc, params, d := parseCallable(b)
		diags = append(diags, d...)
		el.Functions = append(el.Functions, Function{Name: b.Labels[0], Description: desc, Params: params})
	}
	for _, b := range eventBlocks {
		desc, params, d := parseCallable(b)
		diags = append(diags, d...)
		el.Events = append(el.Events, Event{Name: b.Labels[0], Description: desc, Params: params})
	}

	if diags.HasErrors() {
		return nil, diags
	}

	el.Movie, el.Problem = resolveMovie(filePath, movie)
	return el, diags
}

func parseCallable(block *hcl.Block) (string, []Param, hcl.Diagnostics) {
	content, diags := block.Body.Content(callableBodySchema)
	if diags.HasErrors() {
		return "", nil, diags
	}

	var description string
	if attr, ok := content.Attributes["description"]; ok {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &description)...)
	}

	diags = append(diags, hclutil.CheckUniqueLabels(content.Blocks, "param")...)

	params := make([]Param, 0, len(content.Blocks))
	for _, pb := range content.Blocks {
		pc, pDiags := pb.Body.Content(paramBodySchema)
		diags = append(diags, pDiags...)
		if pDiags.HasErrors() {
			continue
		}
		p := Param{Name: pb.Labels[0]}
		typ, tDiags := hclutil.TypeExprToCty(pc.Attributes["type"].Expr)
		diags = append(diags, tDiags...)
		p.Type = typ
		if attr, ok := pc.Attributes["description"]; ok {
			diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &p.Description)...)
		}
		params = append(params, p)
	}
	return description, params, diags
}

// resolveMovie returns the movie path relative to the manifest and, when the
// element cannot be used, the reason why.
func resolveMovie(manifestPath, movie string) (string, string) {
	if movie == "" {
		return "", "no movie declared"
	}
	path := movie
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(manifestPath), movie)
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return path, fmt.Sprintf("movie %s not found", path)
		}
		return path, fmt.Sprintf("movie %s not accessible: %v", path, err)
	}
	if info.IsDir() {
		return path, fmt.Sprintf("movie %s is a directory", path)
	}
	return path, ""
}
