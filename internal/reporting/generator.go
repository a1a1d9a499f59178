package reporting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uxbench/uxbench/internal/benchmark"
)

// Uploader is the storage surface reports are published through.
// storage.MinIOClient satisfies it.
type Uploader interface {
	UploadReport(ctx context.Context, key string, data []byte) (string, error)
	UploadJSON(ctx context.Context, key string, data []byte) (string, error)
}

// Generator renders benchmark results into a shareable HTML dashboard and a
// machine-readable JSON export.
type Generator struct {
	templates *template.Template
	storage   Uploader
	logger    *zap.Logger
}

// NewGenerator creates a report generator. storage may be nil to only render.
func NewGenerator(storage Uploader, logger *zap.Logger) (*Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tmpl, err := template.New("dashboard").Funcs(template.FuncMap{
		"seconds": func(d time.Duration) string {
			return fmt.Sprintf("%.1fs", d.Seconds())
		},
		"score": func(v float64) string {
			return fmt.Sprintf("%.1f", v)
		},
		"riskClass": func(risk float64) string {
			switch {
			case risk <= 30:
				return "low"
			case risk <= 60:
				return "medium"
			default:
				return "high"
			}
		},
		"join": strings.Join,
	}).Parse(DashboardTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return &Generator{
		templates: tmpl,
		storage:   storage,
		logger:    logger,
	}, nil
}

// RenderHTML generates the HTML dashboard
func (g *Generator) RenderHTML(result *benchmark.Result) (string, error) {
	var buf bytes.Buffer
	if err := g.templates.Execute(&buf, result); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

// RenderJSON generates the JSON export
func (g *Generator) RenderJSON(result *benchmark.Result) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// Publish renders both formats and uploads them, returning the HTML report URI
func (g *Generator) Publish(ctx context.Context, result *benchmark.Result) (string, error) {
	if g.storage == nil {
		return "", fmt.Errorf("no storage configured")
	}

	id := uuid.NewString()[:8]
	stamp := result.Timestamp.UTC().Format("2006-01-02")

	html, err := g.RenderHTML(result)
	if err != nil {
		return "", err
	}
	htmlURI, err := g.storage.UploadReport(ctx, fmt.Sprintf("reports/%s-%s.html", stamp, id), []byte(html))
	if err != nil {
		return "", fmt.Errorf("uploading html report: %w", err)
	}

	raw, err := g.RenderJSON(result)
	if err != nil {
		return "", err
	}
	jsonURI, err := g.storage.UploadJSON(ctx, fmt.Sprintf("reports/%s-%s.json", stamp, id), raw)
	if err != nil {
		return "", fmt.Errorf("uploading json report: %w", err)
	}

	g.logger.Info("report published",
		zap.String("html", htmlURI),
		zap.String("json", jsonURI))

	return htmlURI, nil
}
