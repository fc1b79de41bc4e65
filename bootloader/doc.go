// Package bootloader delivers a firmware image to microcontroller nodes
// sharing a half-duplex multidrop serial bus.
//
// # Overview
//
// The bus carries typed messages (see the protocol package) but no per-page
// acknowledgments: the bus is half-duplex and per-node ACKs would require
// addressing. Instead all nodes share one hardware signal line, wired
// active-low, that the host polls. The line answers two questions:
//
//   - are the nodes ready for a run / busy receiving one, and
//   - did any node hit a problem with the page just sent.
//
// A run is a start handshake, a page loop, and a finalization:
//
//  1. Wait for the line to read ready, announce the run with START and the
//     target firmware version, then wait for the nodes to go busy.
//  2. For each page, send PAGE_NUMBER then PAGE_DATA, read the line once,
//     and pause before the next page. A node that failed verification
//     releases the line; the first such page is remembered and, after the
//     pass completes, the whole tail of the image is resent from there.
//     Retry passes are bounded by the configured maximum.
//  3. Send END (twice, against a dropped final message) and finish.
//
// # Basic Usage
//
//	bus, err := serialbus.Open("/dev/ttyUSB0", 57600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer bus.Close()
//
//	sess, err := bootloader.New(bus, bus,
//	    bootloader.WithPageSize(128),
//	    bootloader.WithVersion(1, 4),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	content, _ := os.ReadFile("app.bin") // raw image bytes
//	if err := sess.Program(context.Background(), content); err != nil {
//	    log.Fatal(err)
//	}
//
// # Progress and Errors
//
// Status and error events carry the page count, current page, first failing
// page and retry count; they are informational and never acknowledge
// anything:
//
//	bootloader.WithStatusCallback(func(e bootloader.Event) {
//	    fmt.Printf("%s (%d/%d)\n", e.Message, e.CurrentPage, e.PageCount)
//	})
//
// Terminal failures are distinguishable by reason: ErrMissingPageSize,
// ErrEmptyImage, ErrImageTooLarge, ErrDevicesNotReady, ErrRetryLimit, and
// *TransportError for write failures. Signal line read failures are
// transient: reported as error events, read as busy, never fatal.
//
// # Hardware Independence
//
// The session consumes two small capabilities: a Transport that opens,
// streams and confirms typed messages, and a StatusLineReader that samples
// the control line. The serialbus package implements both over a real
// serial port; tests and simulations supply their own.
package bootloader
