// Package pm1006 decodes the Cubic PM1006 particulate-matter sensor
// protocol (the sensor inside the IKEA Vindriktning) and exposes it as a
// sensor.Device.
//
// The sensor emits a continuous 9600-baud byte stream containing fixed
// 20-byte frames. Each frame starts with the header 0x16 0x11 0x0B, carries
// the PM2.5 concentration as a big-endian uint16 at offset 5, and ends such
// that the byte-wise sum of the whole frame is zero modulo 256.
//
// The parser is stateless: FindFrame scans a buffer for the first
// checksum-valid frame and Decode extracts the reading. Buffer accumulation,
// compaction after a consumed frame, and the full-buffer recovery reset are
// the Device's concern.
package pm1006
