package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Testing")
	assert.Equal(t, "Testing", s.Label())
	assert.Equal(t, SpinnerPending, s.State())
}

func TestSpinnerStartStop(t *testing.T) {
	var buf strings.Builder
	var mu sync.Mutex

	s := NewSpinner("Test")
	s.SetOutput(func(str string) {
		mu.Lock()
		buf.WriteString(str)
		mu.Unlock()
	})

	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())

	time.Sleep(50 * time.Millisecond)

	s.Stop()

	// Stop halts the animation but doesn't decide an outcome
	assert.Equal(t, SpinnerInProgress, s.State())
}

func TestSpinnerOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		finish func(*Spinner)
		want   SpinnerState
		symbol string
	}{
		{"success", (*Spinner).Success, SpinnerSuccess, SymbolComplete},
		{"fail", (*Spinner).Fail, SpinnerFailed, SymbolFail},
		{"skip", (*Spinner).Skip, SpinnerSkipped, SymbolSkipped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			var mu sync.Mutex

			s := NewSpinner("Test")
			s.SetOutput(func(str string) {
				mu.Lock()
				buf.WriteString(str)
				mu.Unlock()
			})

			s.Start()
			time.Sleep(20 * time.Millisecond)
			tt.finish(s)

			assert.Equal(t, tt.want, s.State())

			mu.Lock()
			output := buf.String()
			mu.Unlock()
			assert.Contains(t, output, tt.symbol)
			assert.Contains(t, output, "Test")
		})
	}
}

func TestSpinnerDoubleStart(t *testing.T) {
	s := NewSpinner("Test")
	s.SetOutput(func(string) {})

	s.Start()
	s.Start() // No-op while running
	s.Stop()

	assert.Equal(t, SpinnerInProgress, s.State())
}

func TestSpinnerElapsed(t *testing.T) {
	s := NewSpinner("Test")
	assert.Equal(t, time.Duration(0), s.Elapsed(), "never started")

	s.SetOutput(func(string) {})
	s.Start()
	time.Sleep(10 * time.Millisecond)
	s.Stop()

	assert.Greater(t, s.Elapsed(), time.Duration(0))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{50 * time.Millisecond, "0.05s"},
		{300 * time.Millisecond, "0.3s"},
		{1200 * time.Millisecond, "1.2s"},
		{10 * time.Second, "10.0s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}

func TestConnectDisplaySuccess(t *testing.T) {
	var buf bytes.Buffer

	cd := NewConnectDisplay(&buf)
	cd.SetQuiet(true)
	cd.Start("deploy@box:22")
	cd.Success("web")

	out := buf.String()
	assert.Contains(t, out, "Connected to web")
	assert.Contains(t, out, "deploy@box:22")
	assert.Contains(t, out, SymbolComplete)
}

func TestConnectDisplayFail(t *testing.T) {
	var buf bytes.Buffer

	cd := NewConnectDisplay(&buf)
	cd.SetQuiet(true)
	cd.Start("deploy@box:22")
	cd.Fail("dial tcp: i/o timeout")

	out := buf.String()
	assert.Contains(t, out, "Connection failed")
	assert.Contains(t, out, "dial tcp: i/o timeout")
	assert.Contains(t, out, SymbolFail)
}

func TestConnectDisplayReconnecting(t *testing.T) {
	var buf bytes.Buffer

	cd := NewConnectDisplay(&buf)
	cd.Reconnecting("deploy@box:22")

	out := buf.String()
	assert.Contains(t, out, "reconnecting")
	assert.Contains(t, out, "deploy@box:22")
}

func TestRenderStatusLine(t *testing.T) {
	line := RenderStatusLine("web", "deploy@box:22", "connected", true)
	assert.Contains(t, line, SymbolComplete)
	assert.Contains(t, line, "web")
	assert.Contains(t, line, "deploy@box:22")
	assert.Contains(t, line, "connected")

	line = RenderStatusLine("db", "admin@db.internal:22", "", false)
	assert.Contains(t, line, SymbolPending)
}

func TestRenderStatusLinePadding(t *testing.T) {
	long := RenderStatusLine(strings.Repeat("x", 30), "t", "s", false)
	// Very long names still get at least two spaces before the target
	assert.Contains(t, long, strings.Repeat("x", 30)+"  t")
}

func TestServerItem(t *testing.T) {
	item := serverItem{server: ServerInfo{
		Name:    "web",
		Target:  "deploy@192.168.1.50:2222",
		Default: true,
	}}

	t.Run("Title", func(t *testing.T) {
		assert.Equal(t, "web (default)", item.Title())
	})

	t.Run("Description", func(t *testing.T) {
		assert.Equal(t, "deploy@192.168.1.50:2222", item.Description())
	})

	t.Run("FilterValue", func(t *testing.T) {
		filter := item.FilterValue()
		assert.Contains(t, filter, "web")
		assert.Contains(t, filter, "192.168.1.50")
	})
}

func TestServerItemNonDefault(t *testing.T) {
	item := serverItem{server: ServerInfo{Name: "db", Target: "admin@db:22"}}
	assert.Equal(t, "db", item.Title())
}

func TestPickServerEmpty(t *testing.T) {
	_, err := PickServer(nil)
	require.Error(t, err)
}

func TestPickServerSingle(t *testing.T) {
	servers := []ServerInfo{{Name: "only", Target: "deploy@box:22"}}

	picked, err := PickServer(servers)
	require.NoError(t, err)
	require.NotNil(t, picked)
	assert.Equal(t, "only", picked.Name)
}

func TestServerPickerModelSelection(t *testing.T) {
	model := NewServerPickerModel([]ServerInfo{
		{Name: "web", Target: "deploy@web:22"},
		{Name: "db", Target: "admin@db:22"},
	})

	assert.Nil(t, model.Selected())
	assert.NotEmpty(t, model.View())
}
