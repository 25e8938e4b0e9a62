package catalog

import (
	_ "embed"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/go-faster/errors"
)

//go:embed schema.cue
var schemaCUE string

//go:embed catalog.cue
var catalogCUE []byte

// EmbeddedFilename is the name reported for positions in the shipped catalog.
const EmbeddedFilename = "catalog.cue"

// Issue is a single problem found while checking a catalog definition.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

// LoadError reports every issue found in a catalog definition.
type LoadError struct {
	Filename string
	Issues   []Issue
}

func (e *LoadError) Error() string {
	if len(e.Issues) == 1 {
		return e.Filename + ": " + e.Issues[0].Message
	}
	var b strings.Builder
	b.WriteString(e.Filename)
	b.WriteString(": ")
	for i, is := range e.Issues {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(is.Message)
	}
	return b.String()
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog.
// The embedded definition is covered by tests, so an error here means the
// binary was built from a broken tree.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(catalogCUE, EmbeddedFilename)
	})
	return defaultCat, defaultErr
}

// MustDefault is Default for callers that cannot proceed without a catalog.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Embedded returns a copy of the shipped catalog definition.
func Embedded() []byte {
	return append([]byte(nil), catalogCUE...)
}

// LoadFile reads and checks a catalog definition from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog")
	}
	return Parse(data, path)
}

// Parse checks data against the catalog schema and builds a Catalog.
// Schema violations are returned as a *LoadError listing every issue.
func Parse(data []byte, filename string) (*Catalog, error) {
	products, issues := decode(data, filename)
	if len(issues) > 0 {
		return nil, &LoadError{Filename: filename, Issues: issues}
	}
	return New(products)
}

// Validate checks data against the catalog schema without building a
// Catalog. An empty result means the definition is usable.
func Validate(data []byte, filename string) []Issue {
	products, issues := decode(data, filename)
	if len(issues) > 0 {
		return issues
	}
	if _, err := New(products); err != nil {
		return []Issue{{Message: err.Error()}}
	}
	return nil
}

// decode unifies data with #Catalog and converts the concrete result to
// products. CUE numbers go through JSON so prices keep their exact decimal
// digits.
func decode(data []byte, filename string) ([]Product, []Issue) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, issuesFrom(err)
	}

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, issuesFrom(err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Catalog")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, issuesFrom(err)
	}

	raw, err := unified.MarshalJSON()
	if err != nil {
		return nil, issuesFrom(err)
	}

	var doc struct {
		Products []Product `json:"products"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, []Issue{{Message: "decode products: " + err.Error()}}
	}
	if len(doc.Products) == 0 {
		return nil, []Issue{{Path: "products", Message: "catalog defines no products"}}
	}
	return doc.Products, nil
}

// issuesFrom flattens a CUE error list into Issues.
func issuesFrom(err error) []Issue {
	var issues []Issue
	for _, e := range cueerrors.Errors(err) {
		is := Issue{
			Path:    strings.Join(e.Path(), "."),
			Message: e.Error(),
		}
		if pos := e.Position(); pos.IsValid() {
			is.Line = pos.Line()
		}
		issues = append(issues, is)
	}
	if len(issues) == 0 {
		issues = append(issues, Issue{Message: err.Error()})
	}
	return issues
}
