//go:build linux

package iwd

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/shazow/wifisnap/wifi"
)

const (
	connectionTimeout = 30 * time.Second
	scanSettle        = 2 * time.Second
	agentPath         = dbus.ObjectPath("/com/github/shazow/wifisnap/agent")
)

// Backend implements wifi.Backend by talking to iwd over the system bus.
type Backend struct {
	conn   *dbus.Conn
	logger *slog.Logger

	// mu serializes Connect, since only one agent can be registered at a time.
	mu sync.Mutex
}

var _ wifi.Backend = (*Backend)(nil)

// New connects to iwd, failing with wifi.ErrNotAvailable if it is not running.
func New(logger *slog.Logger) (*Backend, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	b := &Backend{conn: conn, logger: logger}
	if _, err := b.objects(context.Background()); err != nil {
		return nil, fmt.Errorf("iwd is not available: %w", wifi.ErrNotAvailable)
	}
	return b, nil
}

func (b *Backend) objects(ctx context.Context) (managedObjects, error) {
	var objs managedObjects
	err := b.conn.Object(iwdDest, iwdPath).CallWithContext(ctx, objectManager+".GetManagedObjects", 0).Store(&objs)
	return objs, err
}

func (b *Backend) ordered(ctx context.Context, station dbus.ObjectPath) ([]orderedNetwork, error) {
	var ordered []orderedNetwork
	err := b.conn.Object(iwdDest, station).CallWithContext(ctx, iwdStationIface+".GetOrderedNetworks", 0).Store(&ordered)
	return ordered, err
}

// Scan triggers a station scan and returns the networks iwd knows about,
// strongest first. A rejected scan request (one is usually already running)
// still returns the current results.
func (b *Backend) Scan(ctx context.Context) ([]wifi.Network, error) {
	objs, err := b.objects(ctx)
	if err != nil {
		return nil, err
	}
	station, powered, err := objs.station()
	if err != nil {
		return nil, err
	}
	if !powered {
		return nil, wifi.ErrWirelessDisabled
	}

	if err := b.conn.Object(iwdDest, station).CallWithContext(ctx, iwdStationIface+".Scan", 0).Err; err != nil {
		b.logger.Debug("scan request rejected, using cached results", "err", err)
	} else {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(scanSettle):
		}
		// New network objects may have appeared.
		if objs, err = b.objects(ctx); err != nil {
			return nil, err
		}
	}

	ordered, err := b.ordered(ctx, station)
	if err != nil {
		return nil, err
	}
	nets := objs.networks(ordered)
	now := time.Now()
	for i := range nets {
		nets[i].ObservedAt = &now
	}
	b.logger.Debug("scan complete", "networks", len(nets))
	return nets, nil
}

// agent answers iwd's passphrase requests for a single connection attempt.
type agent struct {
	passphrase string
}

func (a *agent) Release() *dbus.Error { return nil }

func (a *agent) RequestPassphrase(network dbus.ObjectPath) (string, *dbus.Error) {
	return a.passphrase, nil
}

func (a *agent) Cancel(reason string) *dbus.Error { return nil }

func (b *Backend) registerAgent(ctx context.Context, passphrase string) (func(), error) {
	if err := b.conn.Export(&agent{passphrase: passphrase}, agentPath, iwdAgentIface); err != nil {
		return nil, err
	}
	mgr := b.conn.Object(iwdDest, iwdAgentManager)
	if err := mgr.CallWithContext(ctx, iwdAgentMgrIface+".RegisterAgent", 0, agentPath).Err; err != nil {
		_ = b.conn.Export(nil, agentPath, iwdAgentIface)
		return nil, err
	}
	return func() {
		_ = mgr.Call(iwdAgentMgrIface+".UnregisterAgent", 0, agentPath).Err
		_ = b.conn.Export(nil, agentPath, iwdAgentIface)
	}, nil
}

// Connect joins ssid, supplying password through a temporary agent. A network
// that is not in range is joined as hidden. isWPA is not needed: iwd already
// knows each network's type.
func (b *Backend) Connect(ctx context.Context, ssid string, password string, isWPA bool) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	objs, err := b.objects(ctx)
	if err != nil {
		return false, err
	}
	station, _, err := objs.station()
	if err != nil {
		return false, err
	}
	ordered, err := b.ordered(ctx, station)
	if err != nil {
		return false, err
	}

	if password != "" {
		unregister, err := b.registerAgent(ctx, password)
		if err != nil {
			return false, fmt.Errorf("failed to register agent: %w", err)
		}
		defer unregister()
	}

	if path := objs.find(ordered, ssid); path != "" {
		err = b.conn.Object(iwdDest, path).CallWithContext(ctx, iwdNetworkIface+".Connect", 0).Err
	} else {
		b.logger.Debug("network not visible, joining as hidden", "ssid", ssid)
		err = b.conn.Object(iwdDest, station).CallWithContext(ctx, iwdStationIface+".ConnectHidden", 0, ssid).Err
	}
	if err != nil {
		if isRejection(err) {
			b.logger.Info("connection failed", "ssid", ssid, "err", err)
			return false, nil
		}
		if ctxErr := ctx.Err(); ctxErr == context.DeadlineExceeded {
			b.logger.Info("connection timed out", "ssid", ssid, "timeout", connectionTimeout)
			return false, nil
		}
		return false, err
	}
	return true, nil
}
