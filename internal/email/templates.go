package email

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

const layoutFile = "layout.html"

// TemplateManager реализует TemplateRenderer. Каждый шаблон парсится вместе
// с общим layout, поэтому в нем доступны layout_start/layout_end.
type TemplateManager struct {
	layout    string
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

func NewTemplateManager() *TemplateManager {
	return &TemplateManager{
		templates: make(map[string]*template.Template),
	}
}

// NewDefaultTemplateManager загружает встроенные шаблоны и, если dir не пуст,
// переопределяет их файлами из dir.
func NewDefaultTemplateManager(dir string) (*TemplateManager, error) {
	tm := NewTemplateManager()
	if err := tm.loadFS(embeddedTemplates, "templates"); err != nil {
		return nil, err
	}
	if dir != "" {
		if err := tm.LoadTemplates(dir); err != nil {
			return nil, err
		}
	}
	return tm, nil
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tm.mutex.RLock()
	layout := tm.layout
	tm.mutex.RUnlock()

	tpl := template.New(name)
	if layout != "" {
		if _, err := tpl.Parse(layout); err != nil {
			return fmt.Errorf("failed to parse layout: %w", err)
		}
	}
	if _, err := tpl.Parse(templateStr); err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}

func (tm *TemplateManager) LoadTemplates(dirPath string) error {
	return tm.loadFS(os.DirFS(dirPath), ".")
}

// loadFS читает layout.html первым, затем остальные *.html
func (tm *TemplateManager) loadFS(fsys fs.FS, root string) error {
	if layout, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(root, layoutFile))); err == nil {
		tm.mutex.Lock()
		tm.layout = string(layout)
		tm.mutex.Unlock()
	}

	return fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") || filepath.Base(path) == layoutFile {
			return nil
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		name := strings.TrimSuffix(filepath.Base(path), ".html")
		if err := tm.AddTemplate(name, string(content)); err != nil {
			return fmt.Errorf("failed to add template %s: %w", name, err)
		}
		return nil
	})
}

// TemplateNames возвращает отсортированный список загруженных шаблонов
func (tm *TemplateManager) TemplateNames() []string {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	names := make([]string, 0, len(tm.templates))
	for name := range tm.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
