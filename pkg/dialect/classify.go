package dialect

import "strings"

// vendorEntry maps a USB vendor/product ID pair to a dialect.
type vendorEntry struct {
	vid  uint16
	pid  uint16
	name string
	lect Dialect
}

// knownVendors lists controller boards commonly found in laser engravers.
var knownVendors = []vendorEntry{
	{0x1A86, 0x7523, "CH340 Serial (Common GRBL)", GRBL},
	{0x2341, 0x0043, "Arduino Uno (GRBL)", GRBL},
	{0x2341, 0x0001, "Arduino Mega (GRBL)", GRBL},
	{0x16C0, 0x0483, "Teensy (Smoothie)", Smoothie},
}

// keywordEntry maps a description substring to a dialect.
// Matching is case-insensitive, first match wins.
type keywordEntry struct {
	keyword string
	lect    Dialect
}

var dialectKeywords = []keywordEntry{
	{"grbl", GRBL},
	{"cnc", GRBL},
	{"laser", GRBL},
	{"marlin", Marlin},
	{"smoothie", Smoothie},
	{"ruida", Ruida},
	// CH340/CH341 USB-serial chips almost always front a GRBL board.
	{"ch340", GRBL},
	{"ch341", GRBL},
}

// Classify determines the dialect of a discovered device from its USB IDs
// and descriptive text. A VID/PID match against the vendor table is
// authoritative; the keyword scan over description and name is only a
// fallback for devices that expose no IDs or unknown ones.
func Classify(vid, pid uint16, description, name string) Dialect {
	if vid != 0 || pid != 0 {
		for _, v := range knownVendors {
			if v.vid == vid && v.pid == pid {
				return v.lect
			}
		}
	}

	haystack := strings.ToLower(description + " " + name)
	for _, k := range dialectKeywords {
		if strings.Contains(haystack, k.keyword) {
			return k.lect
		}
	}

	return Unknown
}

// VendorName returns the table name for a known VID/PID pair, or "" when
// the pair is not in the table.
func VendorName(vid, pid uint16) string {
	for _, v := range knownVendors {
		if v.vid == vid && v.pid == pid {
			return v.name
		}
	}
	return ""
}

// FriendlyName builds a human-readable device name from the classification
// result, falling back to the raw description.
func FriendlyName(d Dialect, description string) string {
	if d != Unknown {
		return d.String() + " Laser Engraver"
	}
	if description != "" {
		return description
	}
	return "Laser Engraver"
}
