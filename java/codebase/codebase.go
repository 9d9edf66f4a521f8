// Package codebase keeps a workspace of Java sources resolvable: every
// change reparses the file and rebuilds the pool the resolver queries.
package codebase

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/whatis/java/classpath"
	"github.com/dhamidi/whatis/java/entry"
	"github.com/dhamidi/whatis/java/javadoc"
	"github.com/dhamidi/whatis/java/mapper"
	"github.com/dhamidi/whatis/java/resolve"
	"github.com/dhamidi/whatis/java/tree"
)

var log = commonlog.GetLogger("whatis.codebase")

var ErrUnknownFile = errors.New("file not in codebase")

// Codebase is safe for concurrent use. The pool it hands out is never
// mutated; a change builds a new one.
type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	base    *entry.Pool
	files   map[string]*FileInfo
	sources *classpath.SourceSet
	pool    *entry.Pool
}

type FileInfo struct {
	Path    string
	Content []byte
	Unit    *tree.CompilationUnit
	// SyntaxErrors counts the error nodes the parser recovered from.
	SyntaxErrors int
	ParseErr     error
}

// New returns an empty codebase rooted at rootDir. Source classes are
// layered over base, which is never modified; a nil base starts empty.
func New(rootDir string, base *entry.Pool) *Codebase {
	if base == nil {
		base = entry.NewPool()
	}
	return &Codebase{
		rootDir: rootDir,
		base:    base,
		files:   make(map[string]*FileInfo),
		sources: classpath.NewSourceSet(),
		pool:    base.Copy(),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// ScanAll reads every .java file under the root, skipping hidden
// directories, and rebuilds the pool once at the end.
func (c *Codebase) ScanAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := filepath.WalkDir(c.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warningf("scan %s: %s", path, err)
			return nil
		}
		if d.IsDir() {
			if path != c.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".java" {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			log.Warningf("scan %s: %s", path, err)
			return nil
		}
		c.parseLocked(path, content)
		return nil
	})
	c.rebuildLocked()
	return err
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.UpdateFile(path, content)
}

func (c *Codebase) UpdateFile(path string, content []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := c.parseLocked(path, content)
	c.rebuildLocked()
	return f.ParseErr
}

func (c *Codebase) parseLocked(path string, content []byte) *FileInfo {
	m := mapper.New()
	unit, err := m.Parse(content)
	f := &FileInfo{
		Path:         path,
		Content:      content,
		Unit:         unit,
		SyntaxErrors: len(m.SyntaxErrors()),
		ParseErr:     err,
	}
	c.files[path] = f
	if unit != nil {
		c.sources.Add(path, unit)
	} else {
		c.sources.Remove(path)
	}
	log.Debugf("parsed %s: %d syntax errors", path, f.SyntaxErrors)
	return f
}

func (c *Codebase) rebuildLocked() {
	pool := c.base.Copy()
	if err := c.sources.Build(pool); err != nil {
		log.Warningf("building source classes: %s", err)
	}
	c.pool = pool
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
	c.sources.Remove(path)
	c.rebuildLocked()
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths lists the files in the codebase in sorted order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for p := range c.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Pool is the current pool: base classes plus every source class.
func (c *Codebase) Pool() *entry.Pool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pool
}

// Resolver returns a resolver for the file at path over the current pool.
func (c *Codebase) Resolver(path string, opts ...resolve.Option) (*resolve.Resolver, error) {
	c.mu.RLock()
	f, pool := c.files[path], c.pool
	c.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFile)
	}
	if f.Unit == nil {
		return nil, fmt.Errorf("%s: %w", path, f.ParseErr)
	}
	return resolve.New(f.Unit, pool, opts...)
}

// ResolveAt resolves the symbol at a byte offset of the file at path.
func (c *Codebase) ResolveAt(path string, offset int) (resolve.Resolution, error) {
	r, err := c.Resolver(path)
	if err != nil {
		return nil, err
	}
	return r.ResolveAt(offset), nil
}

// Definition reports where the entry a resolution denotes is declared.
// Only classes built from the codebase's sources have a location; for a
// set of overloads the first declared one is used.
func (c *Codebase) Definition(res resolve.Resolution) (classpath.Location, bool) {
	d := resolve.EntryOf(res)
	switch r := res.(type) {
	case resolve.MultiMemberResolution:
		if len(r.Members) > 0 {
			d = r.Members[0]
		}
	case resolve.MultiClassResolution:
		if len(r.Classes) > 0 {
			d = r.Classes[0]
		}
	}
	if d == nil {
		return classpath.Location{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sources.Location(d)
}

// Doc renders the documentation comment of the declaration a resolution
// denotes as Markdown. It is empty for entries without a source location
// or without a comment.
func (c *Codebase) Doc(res resolve.Resolution) string {
	loc, ok := c.Definition(res)
	if !ok {
		return ""
	}
	f := c.GetFile(loc.Path)
	if f == nil {
		return ""
	}
	comment, ok := javadoc.Before(f.Content, loc.Range.Begin)
	if !ok {
		return ""
	}
	return javadoc.Markdown(javadoc.Parse(comment))
}

// Describe renders a resolution as hover text: the resolution itself and,
// for classes and members, their modifiers and supertypes.
func Describe(res resolve.Resolution) string {
	var b strings.Builder
	switch r := res.(type) {
	case resolve.ClassResolution:
		writeModifiers(&b, r.Class.Access().Modifiers())
		b.WriteString(r.String())
		if s := r.Class.Super(); s != nil && !r.Class.IsInterface() {
			b.WriteString("\nextends " + s.String())
		}
		if ifaces := r.Class.Interfaces(); len(ifaces) > 0 {
			names := make([]string, len(ifaces))
			for i, iface := range ifaces {
				names[i] = iface.String()
			}
			keyword := "implements "
			if r.Class.IsInterface() {
				keyword = "extends "
			}
			b.WriteString("\n" + keyword + strings.Join(names, ", "))
		}
	case resolve.FieldResolution:
		writeModifiers(&b, r.Field.Access().Modifiers())
		b.WriteString(r.String())
	case resolve.MethodResolution:
		writeModifiers(&b, r.Method.Access().Modifiers())
		b.WriteString(r.String())
	case resolve.MultiMemberResolution:
		b.WriteString(r.String())
		for _, m := range r.Members {
			b.WriteString("\n  " + m.String())
		}
	default:
		if res == nil {
			return resolve.Unknown{}.String()
		}
		b.WriteString(res.String())
	}
	return b.String()
}

func writeModifiers(b *strings.Builder, mods string) {
	if mods != "" {
		b.WriteString(mods + " ")
	}
}

type CompletionKind int

const (
	CompletionKindMethod CompletionKind = iota
	CompletionKindField
	CompletionKindClass
	CompletionKindPackage
)

type CompletionItem struct {
	Label      string
	Kind       CompletionKind
	Detail     string
	InsertText string
}

// CompletionsAt lists the members reachable through the expression that
// ends right before the dot at offset: members of its type, classes and
// sub-packages of a package, or length for arrays.
func (c *Codebase) CompletionsAt(path string, dot int) ([]CompletionItem, error) {
	r, err := c.Resolver(path)
	if err != nil {
		return nil, err
	}
	res := r.ResolveAt(dot - 1)
	if pkg, ok := res.(resolve.PackageResolution); ok {
		return packageCompletions(r.Pool(), pkg.Name), nil
	}
	switch t := r.ValueType(res).(type) {
	case *entry.ClassEntry:
		return memberCompletions(t), nil
	case *entry.ArrayEntry:
		return []CompletionItem{{Label: "length", Kind: CompletionKindField, Detail: "int", InsertText: "length"}}, nil
	}
	return nil, nil
}

func memberCompletions(cls *entry.ClassEntry) []CompletionItem {
	var items []CompletionItem
	seen := make(map[string]bool)
	for _, owner := range cls.Hierarchy() {
		for _, m := range owner.Methods() {
			key := entry.MemberKey(m)
			if seen[key] || m.IsConstructor() || m.IsStaticInitializer() || !visible(cls, owner, m) {
				continue
			}
			seen[key] = true
			items = append(items, CompletionItem{
				Label:      m.Name(),
				Kind:       CompletionKindMethod,
				Detail:     formatMethodSignature(m),
				InsertText: formatMethodInsert(m),
			})
		}
		for _, f := range owner.Fields() {
			key := entry.MemberKey(f)
			if seen[key] || !visible(cls, owner, f) {
				continue
			}
			seen[key] = true
			items = append(items, CompletionItem{
				Label:      f.Name(),
				Kind:       CompletionKindField,
				Detail:     entry.TypeName(f.Descriptor()),
				InsertText: f.Name(),
			})
		}
	}
	return items
}

// visible hides private members of supertypes; the class's own private
// members stay since completion usually happens inside it.
func visible(cls, owner *entry.ClassEntry, m entry.Member) bool {
	return owner == cls || !m.Access().IsPrivate()
}

func packageCompletions(pool *entry.Pool, pkg string) []CompletionItem {
	var items []CompletionItem
	subpackages := make(map[string]bool)
	for _, cls := range pool.Classes() {
		name := cls.Name()
		if !strings.HasPrefix(name, pkg+"/") {
			continue
		}
		rest := strings.TrimPrefix(name, pkg+"/")
		if sub, _, nested := strings.Cut(rest, "/"); nested {
			if !subpackages[sub] {
				subpackages[sub] = true
				items = append(items, CompletionItem{Label: sub, Kind: CompletionKindPackage, Detail: entry.SourceName(pkg + "/" + sub), InsertText: sub})
			}
			continue
		}
		if strings.Contains(rest, "$") {
			continue
		}
		items = append(items, CompletionItem{Label: rest, Kind: CompletionKindClass, Detail: cls.SourceName(), InsertText: rest})
	}
	return items
}

func formatMethodSignature(m *entry.MethodEntry) string {
	params := make([]string, len(m.Parameters()))
	for i, p := range m.Parameters() {
		params[i] = entry.TypeName(p)
	}
	return entry.TypeName(m.ReturnType()) + " " + m.Name() + "(" + strings.Join(params, ", ") + ")"
}

func formatMethodInsert(m *entry.MethodEntry) string {
	if len(m.Parameters()) == 0 {
		return m.Name() + "()"
	}
	placeholders := make([]string, len(m.Parameters()))
	for i, p := range m.Parameters() {
		placeholders[i] = "${" + strconv.Itoa(i+1) + ":" + entry.TypeName(p) + "}"
	}
	return m.Name() + "(" + strings.Join(placeholders, ", ") + ")"
}
