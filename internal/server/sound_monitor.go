package server

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"fieldnote/internal/api"
	"fieldnote/internal/logging"
)

// sndDir is where ALSA exposes device nodes; capture-capable PCM nodes are
// named pcmC<card>D<device>c.
const sndDir = "/dev/snd"

// soundMonitor watches udev for sound subsystem changes so /api/status can
// report whether a capture device is present without probing on every
// request. A failed netlink connect is non-fatal: availability then reflects
// the scan taken at startup.
type soundMonitor struct {
	logger *slog.Logger

	mu        sync.Mutex
	conn      *netlink.UEventConn
	quit      chan struct{}
	running   bool
	available bool
	detail    string
}

func newSoundMonitor(logger *slog.Logger) *soundMonitor {
	return &soundMonitor{logger: logging.NewComponentLogger(logger, "sound-monitor")}
}

// Start scans for capture devices and begins listening for change events.
func (m *soundMonitor) Start(ctx context.Context) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.rescanLocked()

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("failed to connect to netlink socket; device availability is a startup snapshot",
			logging.Error(err))
		return
	}
	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, quit)
	m.logger.Info("sound monitor started", logging.Bool("capture_device", m.available))
}

// Stop shuts the monitor down.
func (m *soundMonitor) Stop() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false
}

// Status reports the last observed device availability.
func (m *soundMonitor) Status() api.DeviceStatus {
	if m == nil {
		return api.DeviceStatus{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return api.DeviceStatus{
		Available:  m.available,
		Monitoring: m.running,
		Detail:     m.detail,
	}
}

func (m *soundMonitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	events := make(chan netlink.UEvent)
	errs := make(chan error)

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return
	}

	action := "add|remove|change"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env:    map[string]string{"SUBSYSTEM": "sound"},
	})

	monitorQuit := conn.Monitor(events, errs, rules)
	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case event := <-events:
			m.mu.Lock()
			m.rescanLocked()
			available := m.available
			m.mu.Unlock()
			m.logger.Info("sound subsystem changed",
				logging.String("action", string(event.Action)),
				logging.Bool("capture_device", available))
		case err := <-errs:
			m.logger.Warn("sound monitor error", logging.Error(err))
		}
	}
}

// rescanLocked checks /dev/snd for capture-capable PCM nodes.
func (m *soundMonitor) rescanLocked() {
	entries, err := os.ReadDir(sndDir)
	if err != nil {
		m.available = false
		m.detail = "cannot read " + sndDir
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "pcmC") && strings.HasSuffix(name, "c") {
			m.available = true
			m.detail = sndDir + "/" + name
			return
		}
	}
	m.available = false
	m.detail = "no capture-capable pcm node"
}
