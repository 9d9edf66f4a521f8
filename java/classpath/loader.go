// Package classpath fills entry pools: from compiled classes in
// directories and archives, and from Java sources via SourceSet.
package classpath

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/whatis/classfile"
	"github.com/dhamidi/whatis/java/entry"
)

var log = commonlog.GetLogger("whatis.classpath")

var ErrUnsupported = errors.New("unsupported classpath entry")

// Loader reads class files and links them into a pool. Reading and
// linking are separate so that supertypes can be resolved regardless of
// the order classes were found in.
type Loader struct {
	files  []*classfile.ClassFile
	errors []error
}

func NewLoader() *Loader {
	return &Loader{}
}

// Add reads a directory tree, a .class file, or a .jar/.zip archive.
// Unreadable entries inside directories and archives are recorded and
// reported by Errors; only a path that cannot be read at all fails.
func (l *Loader) Add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("classpath entry: %w", err)
	}
	if info.IsDir() {
		return l.addDirectory(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".class":
		cf, err := classfile.ParseFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		l.files = append(l.files, cf)
		return nil
	case ".jar", ".zip":
		r, err := zip.OpenReader(path)
		if err != nil {
			return fmt.Errorf("open archive %s: %w", path, err)
		}
		defer r.Close()
		l.addArchive(path, &r.Reader)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupported, path)
}

// AddReader reads a single class file from r; name is used in errors.
func (l *Loader) AddReader(name string, r io.Reader) error {
	cf, err := classfile.Parse(r)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	l.files = append(l.files, cf)
	return nil
}

func (l *Loader) Errors() []error {
	return l.errors
}

func (l *Loader) fail(err error) {
	log.Warningf("%s", err)
	l.errors = append(l.errors, err)
}

func (l *Loader) addDirectory(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			l.fail(fmt.Errorf("walk %s: %w", p, err))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".class", ".jar":
			if err := l.Add(p); err != nil {
				l.fail(err)
			}
		}
		return nil
	})
}

func (l *Loader) addArchive(name string, zr *zip.Reader) {
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(f.Name)) {
		case ".class":
			if strings.HasSuffix(f.Name, "module-info.class") {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				l.fail(fmt.Errorf("open %s in %s: %w", f.Name, name, err))
				continue
			}
			err = l.AddReader(name+"!"+f.Name, rc)
			rc.Close()
			if err != nil {
				l.fail(err)
			}
		case ".jar":
			l.addNestedArchive(name, f)
		}
	}
}

func (l *Loader) addNestedArchive(outer string, f *zip.File) {
	rc, err := f.Open()
	if err != nil {
		l.fail(fmt.Errorf("open jar %s in %s: %w", f.Name, outer, err))
		return
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		l.fail(fmt.Errorf("read jar %s in %s: %w", f.Name, outer, err))
		return
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		l.fail(fmt.Errorf("open jar %s in %s as zip: %w", f.Name, outer, err))
		return
	}
	l.addArchive(outer+"!"+f.Name, zr)
}

// Link registers every class read so far in pool, then resolves their
// supertypes and adds their members. Synthetic and bridge members are
// skipped. Supertypes missing from the pool are left unset.
func (l *Loader) Link(pool *entry.Pool) error {
	var errs []error
	linked := make([]*entry.ClassEntry, len(l.files))
	for i, cf := range l.files {
		if cf.IsModule() {
			continue
		}
		c, err := entry.NewClass(cf.ClassName(), cf.AccessFlags)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pool.Register(c)
		linked[i] = c
	}
	for i, cf := range l.files {
		c := linked[i]
		if c == nil {
			continue
		}
		if name := cf.SuperClassName(); name != "" {
			if super := pool.Class(name); super != nil && acyclic(c, super) {
				c.SetSuper(super)
			} else if super != nil {
				log.Debugf("%s: cyclic superclass %s", c.Name(), name)
				c.SetSuper(pool.Class("java/lang/Object"))
			} else {
				log.Debugf("%s: superclass %s not on classpath", c.Name(), name)
			}
		}
		for _, name := range cf.InterfaceNames() {
			if iface := pool.Class(name); iface != nil && acyclic(c, iface) {
				c.AddInterface(iface)
			} else if iface != nil {
				log.Debugf("%s: cyclic interface %s", c.Name(), name)
			}
		}
		for _, m := range cf.Fields {
			if m.AccessFlags.IsSynthetic() {
				continue
			}
			f, err := entry.NewField(m.Name, m.Descriptor, m.AccessFlags)
			if err == nil {
				err = c.AddField(f)
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", c.Name(), err))
			}
		}
		for _, m := range cf.Methods {
			if m.AccessFlags.IsSynthetic() || m.AccessFlags.IsBridge() {
				continue
			}
			me, err := entry.NewMethod(m.Name, m.Descriptor, m.AccessFlags)
			if err == nil {
				err = c.AddMethod(me)
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", c.Name(), err))
			}
		}
	}
	log.Debugf("linked %d class files", len(l.files))
	return errors.Join(errs...)
}

// Load returns the bootstrap pool with the class files found under paths
// linked on top; classes read from paths replace stubs of the same name.
// The pool is returned together with any entry errors so that a partly
// broken classpath still resolves what it can.
func Load(paths ...string) (*entry.Pool, error) {
	pool, err := Bootstrap()
	if err != nil {
		return nil, err
	}
	l := NewLoader()
	var errs []error
	for _, p := range paths {
		if err := l.Add(p); err != nil {
			log.Warningf("%s", err)
			errs = append(errs, err)
		}
	}
	if err := l.Link(pool); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, l.Errors()...)
	return pool, errors.Join(errs...)
}
