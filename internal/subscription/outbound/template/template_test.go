package template

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/newsletter/internal/pkg/instrument"
	"github.com/shandysiswandi/newsletter/internal/pkg/storage"
	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
)

type memStorage struct {
	mu      sync.Mutex
	objects map[string]string
	gets    int
	err     error
}

func (m *memStorage) Close() error { return nil }

func (m *memStorage) PutObject(_ context.Context, bucket, key string, r io.Reader, _ storage.PutOptions) (storage.ObjectInfo, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = string(b)

	return storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(b))}, nil
}

func (m *memStorage) GetObject(_ context.Context, bucket, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gets++
	if m.err != nil {
		return nil, storage.ObjectInfo{}, m.err
	}

	v, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, storage.ObjectInfo{}, storage.ErrObjectNotFound
	}

	return io.NopCloser(bytes.NewBufferString(v)), storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(v))}, nil
}

func (m *memStorage) StatObject(context.Context, string, string) (storage.ObjectInfo, error) {
	return storage.ObjectInfo{}, errors.ErrUnsupported
}

func TestRenderer_Defaults(t *testing.T) {
	r := NewRenderer(nil, "", "", instrument.NewNoop())

	got, err := r.Render(context.Background(), entity.EmailTemplateConfirmation, entity.EmailData{
		Name:             "le <guin>",
		ConfirmationLink: "http://localhost/subscriptions/confirm?subscription_token=abc&x=1",
	})

	require.NoError(t, err)
	assert.Contains(t, got.HTML, `href="http://localhost/subscriptions/confirm?subscription_token=abc&amp;x=1"`)
	assert.Contains(t, got.HTML, "le &lt;guin&gt;")
	assert.Contains(t, got.Text, "Visit http://localhost/subscriptions/confirm?subscription_token=abc&x=1 to confirm")
	assert.Contains(t, got.Text, "Hi le <guin>,")

	got, err = r.Render(context.Background(), entity.EmailTemplateWelcome, entity.EmailData{Name: "le guin"})

	require.NoError(t, err)
	assert.Contains(t, got.HTML, "Your subscription is confirmed")
	assert.Contains(t, got.Text, "Hi le guin,")
}

func TestRenderer_Storage(t *testing.T) {
	t.Run("stored template overrides default and is cached", func(t *testing.T) {
		store := &memStorage{objects: map[string]string{
			"templates/newsletter/welcome.html": "<h1>Hello {{.Name}}</h1>",
		}}
		r := NewRenderer(store, "templates", "newsletter", instrument.NewNoop())

		for range 3 {
			got, err := r.Render(context.Background(), entity.EmailTemplateWelcome, entity.EmailData{Name: "le guin"})

			require.NoError(t, err)
			assert.Equal(t, "<h1>Hello le guin</h1>", got.HTML)
			assert.Contains(t, got.Text, "Your subscription is confirmed")
		}

		assert.Equal(t, 2, store.gets)
	})

	t.Run("storage failure is returned and not cached", func(t *testing.T) {
		store := &memStorage{objects: map[string]string{}, err: errors.New("access denied")}
		r := NewRenderer(store, "templates", "", instrument.NewNoop())

		_, err := r.Render(context.Background(), entity.EmailTemplateWelcome, entity.EmailData{})
		assert.EqualError(t, err, "access denied")

		store.err = nil
		_, err = r.Render(context.Background(), entity.EmailTemplateWelcome, entity.EmailData{})
		assert.NoError(t, err)
	})

	t.Run("broken stored template", func(t *testing.T) {
		store := &memStorage{objects: map[string]string{
			"templates/confirmation.txt": "{{.Name",
		}}
		r := NewRenderer(store, "templates", "", instrument.NewNoop())

		_, err := r.Render(context.Background(), entity.EmailTemplateConfirmation, entity.EmailData{})

		assert.Error(t, err)
	})

	t.Run("unknown template", func(t *testing.T) {
		r := NewRenderer(nil, "", "", instrument.NewNoop())

		_, err := r.Render(context.Background(), entity.EmailTemplate("digest"), entity.EmailData{})

		assert.Error(t, err)
	})
}
