// Package serialbus implements the bootloader's message transport and
// signal line access over a real serial port.
//
// # Framing
//
// Each bus message becomes one frame:
//
//	[SOP][CODE][LEN_L][LEN_H][PAYLOAD...][SUM_L][SUM_H][EOP]
//
// Where:
//   - SOP = Start of Frame (0x01)
//   - EOP = End of Frame (0x17)
//   - LEN = 16-bit payload length (little-endian)
//   - SUM = 16-bit checksum (little-endian, 2's complement of the byte sum
//     over CODE through PAYLOAD)
//
// Framing and checksumming live here, not in the protocol package: they
// are transport concerns, opaque to the page-transfer logic.
//
// # Signal line
//
// The nodes' shared signal line is wired to the port's DSR pin. GetLineState
// exposes the raw level; the bootloader package owns the active-low
// interpretation.
//
// # Usage
//
//	bus, err := serialbus.Open("/dev/ttyUSB0", 57600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer bus.Close()
//
//	sess, err := bootloader.New(bus, bus, bootloader.WithPageSize(128))
package serialbus
