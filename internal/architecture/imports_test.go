package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// layers lists, per directory under internal/, the internal packages it
// must not import. Test files are exempt: integration tests wire across
// layers on purpose.
var layers = []struct {
	dir        string
	disallowed []string
}{
	{"domain", []string{"validation", "data", "services", "http", "app", "observability", "platform"}},
	{"validation", []string{"data", "services", "http", "app"}},
	{"data", []string{"services", "http", "app"}},
	{"services", []string{"http", "app"}},
	{"platform", []string{"domain", "data", "services", "http", "app"}},
	{"observability", []string{"data", "services", "http", "app"}},
	{"pkg", []string{"services", "http", "app"}},
	{"http", []string{"app", "data"}},
}

// gormAllowed are the only trees that may talk to gorm directly.
var gormAllowed = []string{
	"internal/app/",
	"internal/data/",
	"internal/domain/",
	"internal/pkg/dbctx/",
}

type goFile struct {
	rel     string
	imports []string
}

func TestImportBoundaries(t *testing.T) {
	modulePath, files := loadInternal(t)

	var violations []string
	for _, f := range files {
		if strings.HasSuffix(f.rel, "_test.go") {
			continue
		}
		bad := disallowedFor(modulePath, f.rel)
		for _, imp := range f.imports {
			for _, b := range bad {
				if imp == b || strings.HasPrefix(imp, b+"/") {
					violations = append(violations, fmt.Sprintf("- %s imports %q (disallowed: %q)", f.rel, imp, b))
					break
				}
			}
		}
	}
	report(t, "import boundary violations", violations)
}

func TestGormStaysInStorageLayers(t *testing.T) {
	_, files := loadInternal(t)

	var violations []string
	for _, f := range files {
		if strings.HasSuffix(f.rel, "_test.go") || hasAnyPrefix(f.rel, gormAllowed) {
			continue
		}
		for _, imp := range f.imports {
			if strings.HasPrefix(imp, "gorm.io/") {
				violations = append(violations, fmt.Sprintf("- %s imports %q", f.rel, imp))
			}
		}
	}
	report(t, "gorm imported outside the storage layers (go through a repo)", violations)
}

func disallowedFor(modulePath, rel string) []string {
	for _, l := range layers {
		if !strings.HasPrefix(rel, "internal/"+l.dir+"/") {
			continue
		}
		out := make([]string, 0, len(l.disallowed))
		for _, d := range l.disallowed {
			out = append(out, modulePath+"/internal/"+d)
		}
		return out
	}
	return nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func report(t *testing.T, title string, violations []string) {
	t.Helper()
	if len(violations) == 0 {
		return
	}
	t.Fatalf("%s:\n%s", title, strings.Join(violations, "\n"))
}

func loadInternal(t *testing.T) (string, []goFile) {
	t.Helper()
	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}

	fset := token.NewFileSet()
	var files []goFile
	walkErr := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", "vendor", "node_modules", ".gocache", "testdata":
				return filepath.SkipDir
			default:
				return nil
			}
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		gf := goFile{rel: filepath.ToSlash(rel)}
		for _, spec := range f.Imports {
			if spec == nil || spec.Path == nil {
				continue
			}
			if imp, err := strconv.Unquote(spec.Path.Value); err == nil {
				gf.imports = append(gf.imports, imp)
			}
		}
		files = append(files, gf)
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
	return modulePath, files
}

func findModuleRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found from %s", start)
		}
		dir = parent
	}
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if !strings.HasPrefix(line, "module ") {
			continue
		}
		mp := strings.TrimSpace(strings.TrimPrefix(line, "module "))
		if mp == "" {
			return "", fmt.Errorf("empty module path in %s", goModPath)
		}
		return mp, nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
