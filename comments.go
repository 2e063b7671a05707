package apidoc

import (
	"go/doc"
	"go/parser"
	"go/token"
	"os"
	"runtime"
	"strings"
)

// CommentParser reads Go doc comments of types and functions so that
// handler and model documentation can flow into the spec.
type CommentParser struct {
	TypeDocs map[string]string // type name -> doc
	FuncDocs map[string]string // "Func" or "Type.Method" -> doc
}

// NewCommentParser creates an empty parser.
func NewCommentParser() *CommentParser {
	return &CommentParser{
		TypeDocs: make(map[string]string),
		FuncDocs: make(map[string]string),
	}
}

// ParseDir parses the Go files of a single directory.
func (cp *CommentParser) ParseDir(root string) error {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, root, func(fi os.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}, parser.ParseComments)
	if err != nil {
		return err
	}

	for _, pkg := range pkgs {
		d := doc.New(pkg, root, doc.AllDecls)
		for _, f := range d.Funcs {
			cp.FuncDocs[f.Name] = strings.TrimSpace(f.Doc)
		}
		for _, t := range d.Types {
			cp.TypeDocs[t.Name] = strings.TrimSpace(t.Doc)
			for _, f := range t.Funcs {
				cp.FuncDocs[f.Name] = strings.TrimSpace(f.Doc)
			}
			for _, m := range t.Methods {
				cp.FuncDocs[t.Name+"."+m.Name] = strings.TrimSpace(m.Doc)
			}
		}
	}
	return nil
}

// funcName turns a runtime function name into the key used by FuncDocs:
//
//	github.com/acme/api.(*Users).Get-fm -> Users.Get
//	github.com/acme/api.listUsers       -> listUsers
func funcName(pc uintptr) string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	name := fn.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if _, rest, ok := strings.Cut(name, "."); ok {
		name = rest
	}
	name = strings.TrimSuffix(name, "-fm")
	return strings.NewReplacer("(*", "", "(", "", ")", "").Replace(name)
}
