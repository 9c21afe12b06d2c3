// Package template renders subscription emails from object storage, falling
// back to the defaults embedded in the binary.
package template

import (
	"bytes"
	"context"
	"embed"
	"errors"
	htmltemplate "html/template"
	"io"
	"log/slog"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/shandysiswandi/newsletter/internal/pkg/instrument"
	"github.com/shandysiswandi/newsletter/internal/pkg/storage"
	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:embed defaults/*
var defaults embed.FS

const maxTemplateBytes = 1 << 20

type parsed struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

type Renderer struct {
	storage storage.Storage
	bucket  string
	prefix  string
	ins     instrument.Instrumentation

	mu    sync.RWMutex
	cache map[entity.EmailTemplate]*parsed
}

// NewRenderer builds a renderer. A nil store serves the embedded defaults only.
func NewRenderer(store storage.Storage, bucket, prefix string, ins instrument.Instrumentation) *Renderer {
	return &Renderer{
		storage: store,
		bucket:  bucket,
		prefix:  prefix,
		ins:     ins,
		cache:   make(map[entity.EmailTemplate]*parsed),
	}
}

func (r *Renderer) Render(ctx context.Context, name entity.EmailTemplate, data entity.EmailData) (content entity.EmailContent, err error) {
	ctx, span := r.ins.Tracer("subscription.outbound.template").Start(ctx, "Render")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("template.name", name.String()))

	tpl, err := r.load(ctx, name)
	if err != nil {
		return entity.EmailContent{}, err
	}

	var html, text bytes.Buffer
	if err := tpl.html.Execute(&html, data); err != nil {
		return entity.EmailContent{}, err
	}
	if err := tpl.text.Execute(&text, data); err != nil {
		return entity.EmailContent{}, err
	}

	return entity.EmailContent{HTML: html.String(), Text: text.String()}, nil
}

func (r *Renderer) load(ctx context.Context, name entity.EmailTemplate) (*parsed, error) {
	r.mu.RLock()
	tpl, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	htmlSrc, err := r.source(ctx, name.String()+".html")
	if err != nil {
		return nil, err
	}
	textSrc, err := r.source(ctx, name.String()+".txt")
	if err != nil {
		return nil, err
	}

	h, err := htmltemplate.New(name.String()).Option("missingkey=zero").Parse(htmlSrc)
	if err != nil {
		return nil, err
	}
	t, err := texttemplate.New(name.String()).Option("missingkey=zero").Parse(textSrc)
	if err != nil {
		return nil, err
	}

	tpl = &parsed{html: h, text: t}

	r.mu.Lock()
	r.cache[name] = tpl
	r.mu.Unlock()

	return tpl, nil
}

func (r *Renderer) source(ctx context.Context, file string) (string, error) {
	if r.storage != nil {
		key := path.Join(r.prefix, file)
		rc, _, err := r.storage.GetObject(ctx, r.bucket, key)
		switch {
		case err == nil:
			defer rc.Close()
			b, err := io.ReadAll(io.LimitReader(rc, maxTemplateBytes))
			if err != nil {
				return "", err
			}
			return string(b), nil
		case errors.Is(err, storage.ErrObjectNotFound):
			slog.WarnContext(ctx, "template not in storage, using default", "bucket", r.bucket, "key", key)
		default:
			slog.ErrorContext(ctx, "failed to get template from storage", "bucket", r.bucket, "key", key, "error", err)
			return "", err
		}
	}

	b, err := defaults.ReadFile("defaults/" + file)
	if err != nil {
		return "", err
	}

	return string(b), nil
}
