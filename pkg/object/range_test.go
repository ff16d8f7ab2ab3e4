package object

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"vaultfs/pkg/index"

	"github.com/stretchr/testify/suite"
)

// RangeTestSuite tests range parsing and ranged reads.
type RangeTestSuite struct {
	suite.Suite
}

// TestParseRange tests the accepted and rejected header forms.
func (s *RangeTestSuite) TestParseRange() {
	const size = 100

	testCases := []struct {
		header  string
		start   int64
		end     int64
		err     error
		message string
	}{
		{"", 0, 0, nil, "empty header means whole object"},
		{"bytes=0-49", 0, 49, nil, "explicit range"},
		{"bytes=50-99", 50, 99, nil, "range to last byte"},
		{"bytes=10-10", 10, 10, nil, "single byte"},
		{"bytes=90-", 90, 99, nil, "open-ended range"},
		{"bytes=-10", 90, 99, nil, "suffix range"},
		{"bytes=-200", 0, 99, nil, "oversized suffix clamps to whole object"},
		{"bytes=0-0", 0, 0, nil, "first byte"},
		{"units=0-10", 0, 0, InvalidRangeError{}, "wrong unit"},
		{"bytes=0-10,20-30", 0, 0, InvalidRangeError{}, "multiple ranges"},
		{"bytes=-", 0, 0, InvalidRangeError{}, "empty bounds"},
		{"bytes=abc-10", 0, 0, InvalidRangeError{}, "non-numeric start"},
		{"bytes=0-xyz", 0, 0, InvalidRangeError{}, "non-numeric end"},
		{"bytes=-0", 0, 0, InvalidRangeError{}, "zero-length suffix"},
		{"bytes=50-40", 0, 0, RangeNotSatisfiableError{}, "start after end"},
		{"bytes=100-", 0, 0, RangeNotSatisfiableError{}, "start at size"},
		{"bytes=200-300", 0, 0, RangeNotSatisfiableError{}, "start beyond size"},
		{"bytes=0-100", 0, 0, RangeNotSatisfiableError{}, "end at size"},
	}

	for _, tc := range testCases {
		rng, err := ParseRange(tc.header, size)
		switch tc.err.(type) {
		case nil:
			s.Require().NoError(err, tc.message)
			if tc.header == "" {
				s.Nil(rng, tc.message)
				continue
			}
			s.Require().NotNil(rng, tc.message)
			s.Equal(tc.start, rng.Start, tc.message)
			s.Equal(tc.end, rng.End, tc.message)
		case InvalidRangeError:
			s.IsType(InvalidRangeError{}, err, tc.message)
		case RangeNotSatisfiableError:
			s.IsType(RangeNotSatisfiableError{}, err, tc.message)
		}
	}
}

// TestRangeLength tests inclusive length math.
func (s *RangeTestSuite) TestRangeLength() {
	s.Equal(int64(1), ByteRange{Start: 0, End: 0}.Length())
	s.Equal(int64(50), ByteRange{Start: 0, End: 49}.Length())
	s.Equal(int64(10), ByteRange{Start: 90, End: 99}.Length())
}

// TestOpenWithRange tests that ranged reads return exactly the span.
func (s *RangeTestSuite) TestOpenWithRange() {
	root := s.T().TempDir()
	idx, err := index.Open(filepath.Join(root, "index.db"))
	s.Require().NoError(err)
	defer idx.Close()

	store, err := New(root, 0, idx)
	s.Require().NoError(err)

	content := "0123456789abcdefghij"
	key := "storage/alice/abc12345_span.txt"
	_, err = store.Write(key, strings.NewReader(content), int64(len(content)), WriteMeta{OwnerID: "alice"})
	s.Require().NoError(err)

	rc, err := store.Open(key, &ByteRange{Start: 5, End: 9})
	s.Require().NoError(err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	s.Require().NoError(err)
	s.Equal("56789", string(data))

	// Suffix span reaches the last byte.
	rc, err = store.Open(key, &ByteRange{Start: 15, End: 19})
	s.Require().NoError(err)
	defer rc.Close()

	data, err = io.ReadAll(rc)
	s.Require().NoError(err)
	s.Equal("fghij", string(data))
}

func TestRangeTestSuite(t *testing.T) {
	suite.Run(t, new(RangeTestSuite))
}
