package object

import (
	"strconv"
	"strings"
)

// ByteRange is a single inclusive byte span within an object. Multiple
// ranges per request are a known limitation and are rejected as
// malformed; a single range is sufficient for seek and resume.
type ByteRange struct {
	Start int64
	End   int64
}

// Length returns the number of bytes covered by the range.
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ParseRange parses a "bytes=start-end" header against an object of the
// given size. An empty header yields (nil, nil) meaning "whole object".
// Supported forms: "a-b", "a-" and the suffix form "-n".
func ParseRange(header string, size int64) (*ByteRange, error) {
	if header == "" {
		return nil, nil
	}
	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok || strings.Contains(spec, ",") {
		return nil, InvalidRangeError{Header: header}
	}

	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok {
		return nil, InvalidRangeError{Header: header}
	}

	var start, end int64
	switch {
	case startStr == "" && endStr == "":
		return nil, InvalidRangeError{Header: header}

	case startStr == "":
		// Suffix range: last n bytes.
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n <= 0 {
			return nil, InvalidRangeError{Header: header}
		}
		if n > size {
			n = size
		}
		start, end = size-n, size-1

	case endStr == "":
		n, err := strconv.ParseInt(startStr, 10, 64)
		if err != nil {
			return nil, InvalidRangeError{Header: header}
		}
		start, end = n, size-1

	default:
		var err error
		if start, err = strconv.ParseInt(startStr, 10, 64); err != nil {
			return nil, InvalidRangeError{Header: header}
		}
		if end, err = strconv.ParseInt(endStr, 10, 64); err != nil {
			return nil, InvalidRangeError{Header: header}
		}
	}

	if start < 0 || start > end || start >= size || end >= size {
		return nil, RangeNotSatisfiableError{Header: header, Size: size}
	}
	return &ByteRange{Start: start, End: end}, nil
}
