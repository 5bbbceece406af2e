package whatsapp

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingOpener struct {
	m    sync.RWMutex
	urls []string
	err  error
}

func (r *recordingOpener) Open(_ context.Context, url string) error {
	r.m.Lock()
	defer r.m.Unlock()
	r.urls = append(r.urls, url)
	return r.err
}

func (r *recordingOpener) opened() []string {
	r.m.RLock()
	defer r.m.RUnlock()
	return append([]string(nil), r.urls...)
}

func TestDeepLink(t *testing.T) {
	link, err := DeepLink("+91 98765-43210", "Hello%20there")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/919876543210?text=Hello%20there", link)

	_, err = DeepLink(" - ", "x")
	assert.ErrorIs(t, err, ErrNoPhoneNumber)
}

func TestLaunch_OpensLink(t *testing.T) {
	opener := &recordingOpener{}
	l := NewLauncher(opener, nil)

	link, err := l.Launch(context.Background(), "919876543210", "Hi")
	require.NoError(t, err)

	assert.Equal(t, "https://wa.me/919876543210?text=Hi", link)
	assert.Equal(t, []string{link}, opener.opened())
}

func TestLaunch_OpenFailureIsSwallowed(t *testing.T) {
	opener := &recordingOpener{err: errors.New("no browser")}
	l := NewLauncher(opener, nil)

	link, err := l.Launch(context.Background(), "919876543210", "Hi")
	require.NoError(t, err)
	assert.NotEmpty(t, link)
	assert.Len(t, opener.opened(), 1)
}

func TestLaunch_NoDigits(t *testing.T) {
	opener := &recordingOpener{}
	l := NewLauncher(opener, nil)

	_, err := l.Launch(context.Background(), "", "Hi")
	assert.ErrorIs(t, err, ErrNoPhoneNumber)
	assert.Empty(t, opener.opened())
}

func TestNewLauncher_DefaultsToNop(t *testing.T) {
	l := NewLauncher(nil, nil)
	link, err := l.Launch(context.Background(), "123", "x")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/123?text=x", link)
}
