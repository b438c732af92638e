// Package gcode turns decoded design geometry into laser motion programs.
//
// The package has two entry points, selected by the kind of geometry the
// caller decoded upstream:
//
//   - EncodeRaster lowers a grayscale pixel grid into boustrophedon scan
//     lines, mapping inverted pixel brightness to laser power.
//   - EncodeVector lowers normalized line/rect/circle/path primitives into
//     rapid positioning moves followed by powered cutting moves.
//
// Both produce a Program: a fixed header (millimeter units, absolute
// positioning, beam off, move to origin), an ordered instruction sequence,
// and a fixed footer (beam off, return to origin). A program renders to
// line-oriented ASCII G-code, one instruction per line, consumable by any
// GRBL-style controller or downstream operator tool.
//
// The package performs no file parsing. Pixel grids and primitive lists are
// supplied by the decoding layer; see PixelGrid and Document.
package gcode
