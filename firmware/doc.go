// Package firmware models a raw firmware image as an ordered list of
// fixed-size flash pages.
//
// The page size matches the flash-write granularity of the target devices.
// Splitting is pure computation: no page exceeds the page size, only the
// last page may be shorter, and concatenating all pages in order
// reconstructs the original content exactly.
//
//	img := firmware.Split(content, 128)
//	fmt.Printf("%d pages\n", img.PageCount())
//
// This package does not parse firmware file formats. Extract the raw bytes
// from whatever container is in use (Intel HEX, ELF, plain binary) before
// splitting.
package firmware
