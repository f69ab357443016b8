package iwd

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/shazow/wifisnap/wifi"
)

const (
	iwdDest          = "net.connman.iwd"
	iwdPath          = "/"
	iwdAgentManager  = "/net/connman/iwd"
	iwdDeviceIface   = "net.connman.iwd.Device"
	iwdNetworkIface  = "net.connman.iwd.Network"
	iwdStationIface  = "net.connman.iwd.Station"
	iwdAgentIface    = "net.connman.iwd.Agent"
	iwdAgentMgrIface = "net.connman.iwd.AgentManager"
	objectManager    = "org.freedesktop.DBus.ObjectManager"
)

// managedObjects is the reply of ObjectManager.GetManagedObjects.
type managedObjects map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// orderedNetwork is one entry of Station.GetOrderedNetworks. Signal is in
// hundredths of a dBm.
type orderedNetwork struct {
	Path   dbus.ObjectPath
	Signal int16
}

// station returns the first station device and whether it is powered.
func (objs managedObjects) station() (path dbus.ObjectPath, powered bool, err error) {
	for p, ifaces := range objs {
		if _, ok := ifaces[iwdStationIface]; !ok {
			continue
		}
		if dev, ok := ifaces[iwdDeviceIface]; ok {
			powered, _ = dev["Powered"].Value().(bool)
		}
		return p, powered, nil
	}
	return "", false, fmt.Errorf("no station device found: %w", wifi.ErrNotFound)
}

// networks converts ordered station results to scan results, skipping any
// path the object manager does not describe.
func (objs managedObjects) networks(ordered []orderedNetwork) []wifi.Network {
	nets := make([]wifi.Network, 0, len(ordered))
	for _, o := range ordered {
		props, ok := objs[o.Path][iwdNetworkIface]
		if !ok {
			continue
		}
		name, _ := props["Name"].Value().(string)
		kind, _ := props["Type"].Value().(string)
		nets = append(nets, wifi.Network{
			SSID:         name,
			Capabilities: capabilitiesForType(kind),
			Level:        wifi.DBm(int(o.Signal) / 100),
		})
	}
	return nets
}

// find returns the path of the network named ssid, or "" if none is in range.
func (objs managedObjects) find(ordered []orderedNetwork, ssid string) dbus.ObjectPath {
	for _, o := range ordered {
		if name, _ := objs[o.Path][iwdNetworkIface]["Name"].Value().(string); name == ssid {
			return o.Path
		}
	}
	return ""
}

// capabilitiesForType maps iwd's Network.Type onto capability tokens.
func capabilitiesForType(kind string) string {
	switch kind {
	case "psk":
		return "[RSN-PSK][ESS]"
	case "8021x":
		return "[RSN-EAP][ESS]"
	case "wep":
		return "[WEP][ESS]"
	default:
		return "[ESS]"
	}
}

// isRejection reports whether err is iwd declining the connection rather than
// a transport problem.
func isRejection(err error) bool {
	var dbusErr dbus.Error
	if !errors.As(err, &dbusErr) {
		var p *dbus.Error
		if !errors.As(err, &p) {
			return false
		}
		dbusErr = *p
	}
	switch dbusErr.Name {
	case iwdDest + ".Failed",
		iwdDest + ".Aborted",
		iwdDest + ".InvalidFormat",
		iwdDest + ".NotFound",
		iwdDest + ".NotConfigured":
		return true
	}
	return false
}
