package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// sysfsClimateSource reads temperature and humidity from kernel IIO
// value files. Raw file values are returned as-is; unit conversion
// (e.g. millidegrees to degrees) is the calibration's job.
type sysfsClimateSource struct {
	temperaturePath string
	humidityPath    string
}

func (s *sysfsClimateSource) Sample() (float64, float64, error) {
	temperature, err := readSysfsValue(s.temperaturePath)
	if err != nil {
		return 0, 0, fmt.Errorf("reading temperature: %w", err)
	}
	humidity, err := readSysfsValue(s.humidityPath)
	if err != nil {
		return 0, 0, fmt.Errorf("reading humidity: %w", err)
	}
	return temperature, humidity, nil
}

// sysfsAnalogSource reads a single IIO channel value file.
type sysfsAnalogSource struct {
	path string
}

func (s *sysfsAnalogSource) Sample() (float64, error) {
	return readSysfsValue(s.path)
}

// readSysfsValue reads one numeric value from a sysfs attribute file.
func readSysfsValue(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	return value, nil
}

// wirelessSignalSource reads link strength from /proc/net/wireless.
// An empty interface name matches the first wireless interface found.
type wirelessSignalSource struct {
	iface string
}

const procNetWireless = "/proc/net/wireless"

func (s *wirelessSignalSource) Strength() (int, string, string, error) {
	data, err := os.ReadFile(procNetWireless)
	if err != nil {
		return 0, "", "", err
	}

	iface, rssi, err := parseWireless(string(data), s.iface)
	if err != nil {
		return 0, "", "", err
	}

	return rssi, iface, interfaceAddress(iface), nil
}

// parseWireless extracts the signal level for the named interface from
// /proc/net/wireless content. The first two lines are headers; data
// lines look like:
//
//	wlan0: 0000   54.  -56.  -256        0      0      0      0      0        0
//
// where the third value column is the signal level in dBm.
func parseWireless(content, want string) (string, int, error) {
	for _, line := range strings.Split(content, "\n") {
		name, rest, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" || strings.Contains(name, " ") {
			continue // header line
		}
		if want != "" && name != want {
			continue
		}

		fields := strings.Fields(rest)
		if len(fields) < 3 {
			continue
		}
		level, err := strconv.Atoi(strings.TrimSuffix(fields[2], "."))
		if err != nil {
			continue
		}
		return name, level, nil
	}
	return "", 0, fmt.Errorf("no wireless interface %q in %s", want, procNetWireless)
}

// interfaceAddress returns the interface's first IPv4 address, or an
// empty string if none is assigned.
func interfaceAddress(name string) string {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return ""
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return ""
	}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok {
			if ip4 := ipNet.IP.To4(); ip4 != nil {
				return ip4.String()
			}
		}
	}
	return ""
}

// serialPort wraps a serial device file. A read with no pending bytes
// reports zero bytes immediately instead of waiting, which is the
// contract the PM1006 device expects from its source.
type serialPort struct {
	file *os.File
}

// openSerialPort opens the sensor UART for non-blocking reads.
func openSerialPort(path string) (*serialPort, error) {
	file, err := os.OpenFile(path, os.O_RDONLY|syscall.O_NONBLOCK, 0)
	if err != nil {
		return nil, err
	}
	return &serialPort{file: file}, nil
}

func (p *serialPort) Read(buf []byte) (int, error) {
	// Pollable fds (ttys, fifos) are handled by the runtime poller, which
	// parks the goroutine on a bare Read even when the fd is O_NONBLOCK.
	// An already-expired deadline turns the wait into a poll.
	if err := p.file.SetReadDeadline(time.Now()); err != nil && !errors.Is(err, os.ErrNoDeadline) {
		return 0, err
	}
	n, err := p.file.Read(buf)
	if err != nil && (errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, syscall.EAGAIN)) {
		return n, nil
	}
	return n, err
}

func (p *serialPort) Close() error {
	return p.file.Close()
}
