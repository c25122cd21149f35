package reloader_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fiffeek/hyprautolayout/internal/filewatcher"
	"github.com/fiffeek/hyprautolayout/internal/reloader"
	"github.com/fiffeek/hyprautolayout/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calls struct {
	mu    sync.Mutex
	order []string
}

func (c *calls) add(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = append(c.order, name)
}

func (c *calls) get() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.order...)
}

type fakeDetector struct {
	name      string
	reloadErr error
	calls     *calls
}

func (f *fakeDetector) Reload(_ context.Context) error {
	f.calls.add(f.name)
	return f.reloadErr
}

type fakeService struct {
	updateErr error
	calls     *calls
}

func (f *fakeService) UpdateOnce(_ context.Context) error {
	f.calls.add("service")
	return f.updateErr
}

type fakeFilewatcher struct {
	updateErr error
	calls     *calls
	channel   chan filewatcher.Change
}

func (f *fakeFilewatcher) Update() error {
	f.calls.add("filewatcher")
	return f.updateErr
}

func (f *fakeFilewatcher) Listen() <-chan filewatcher.Change {
	return f.channel
}

func TestService_Reload(t *testing.T) {
	ctx := context.Background()
	cfg := testutils.NewTestConfig(t).Get()

	tests := []struct {
		name           string
		lidErr         error
		dockErr        error
		serviceErr     error
		filewatcherErr error
		wantErr        bool
		errContains    string
		expectedCalls  []string
	}{
		{
			name:          "successful reload",
			expectedCalls: []string{"filewatcher", "lid", "dock", "service"},
		},
		{
			name:           "filewatcher update fails",
			filewatcherErr: errors.New("filewatcher error"),
			wantErr:        true,
			errContains:    "cant update filewatcher",
			expectedCalls:  []string{"filewatcher"},
		},
		{
			name:          "lid detector reload fails",
			lidErr:        errors.New("lid detector error"),
			wantErr:       true,
			errContains:   "cant reload detectors",
			expectedCalls: []string{"filewatcher", "lid"},
		},
		{
			name:          "dock detector reload fails",
			dockErr:       errors.New("dock detector error"),
			wantErr:       true,
			errContains:   "dock detector error",
			expectedCalls: []string{"filewatcher", "lid", "dock"},
		},
		{
			name:          "service update fails",
			serviceErr:    errors.New("service error"),
			wantErr:       true,
			errContains:   "cant update layout service",
			expectedCalls: []string{"filewatcher", "lid", "dock", "service"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := &calls{}
			detectors := []reloader.IDetector{
				&fakeDetector{name: "lid", reloadErr: tt.lidErr, calls: calls},
				&fakeDetector{name: "dock", reloadErr: tt.dockErr, calls: calls},
			}
			service := &fakeService{updateErr: tt.serviceErr, calls: calls}
			watcher := &fakeFilewatcher{updateErr: tt.filewatcherErr, calls: calls}

			reloaderService := reloader.NewService(cfg, watcher, detectors, service, false)

			err := reloaderService.Reload(ctx)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedCalls, calls.get())
		})
	}
}

func TestService_Run(t *testing.T) {
	cfg := testutils.NewTestConfig(t).Get()

	tests := []struct {
		name              string
		hotReloadDisabled bool
		expectedCalls     []string
	}{
		{
			name:              "processes events from filewatcher",
			hotReloadDisabled: false,
			expectedCalls:     []string{"filewatcher", "lid", "service"},
		},
		{
			name:              "disabled hot reload",
			hotReloadDisabled: true,
			expectedCalls:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := &calls{}
			detectors := []reloader.IDetector{&fakeDetector{name: "lid", calls: calls}}
			service := &fakeService{calls: calls}
			channel := make(chan filewatcher.Change, 1)
			watcher := &fakeFilewatcher{channel: channel, calls: calls}

			reloaderService := reloader.NewService(cfg, watcher, detectors, service, tt.hotReloadDisabled)

			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			errCh := make(chan error, 1)
			go func() {
				errCh <- reloaderService.Run(ctx)
			}()

			channel <- filewatcher.Change{Paths: []string{"/tmp/config.toml"}}

			time.Sleep(200 * time.Millisecond)

			cancel()

			select {
			case err := <-errCh:
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "context canceled")
			case <-time.After(100 * time.Millisecond):
				t.Fatal("timeout waiting for service to shutdown")
			}

			if tt.expectedCalls == nil {
				assert.Empty(t, calls.get())
				return
			}
			assert.Equal(t, tt.expectedCalls, calls.get())
		})
	}
}
