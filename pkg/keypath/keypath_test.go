package keypath

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

// KeypathTestSuite tests key encoding, validation and path resolution.
type KeypathTestSuite struct {
	suite.Suite
}

// TestEncodeFormat tests the generated key layout.
func (s *KeypathTestSuite) TestEncodeFormat() {
	key, err := Encode("user@example.com", "", "report.pdf")
	s.Require().NoError(err)

	segments := strings.Split(key, "/")
	s.Require().Len(segments, 3)
	s.Equal("storage", segments[0])
	s.Equal("user@example.com", segments[1])
	s.True(strings.HasSuffix(segments[2], "_report.pdf"))
	s.Len(strings.TrimSuffix(segments[2], "_report.pdf"), 8)
}

// TestEncodeWithFolder tests nested folder segments.
func (s *KeypathTestSuite) TestEncodeWithFolder() {
	key, err := Encode("alice", "projects/2026", "notes.txt")
	s.Require().NoError(err)

	segments := strings.Split(key, "/")
	s.Require().Len(segments, 5)
	s.Equal([]string{"storage", "alice", "projects", "2026"}, segments[:4])
}

// TestEncodeUniqueness tests that identical inputs yield distinct keys.
func (s *KeypathTestSuite) TestEncodeUniqueness() {
	first, err := Encode("alice", "", "same.txt")
	s.Require().NoError(err)
	second, err := Encode("alice", "", "same.txt")
	s.Require().NoError(err)
	s.NotEqual(first, second)
}

// TestEncodeInvalidOwner tests owner id validation.
func (s *KeypathTestSuite) TestEncodeInvalidOwner() {
	_, err := Encode("../evil", "", "file.txt")
	s.Error(err)

	_, err = Encode("user with spaces", "", "file.txt")
	s.Error(err)
}

// TestValidate tests key validation against traversal and malformed keys.
func (s *KeypathTestSuite) TestValidate() {
	testCases := []struct {
		key     string
		valid   bool
		message string
	}{
		{"storage/alice/abc12345_file.txt", true, "plain key"},
		{"storage/alice/docs/abc12345_file.txt", true, "key with folder"},
		{"storage/user@example.com/abc12345_f.bin", true, "email owner"},
		{"", false, "empty key"},
		{"/storage/alice/file.txt", false, "absolute path"},
		{"other/alice/file.txt", false, "wrong prefix"},
		{"storage/alice", false, "too few segments"},
		{"storage/alice/../bob/file.txt", false, "dot-dot segment"},
		{"storage/alice//file.txt", false, "empty segment"},
		{"storage/alice/./file.txt", false, "dot segment"},
		{"storage\\alice\\file.txt", false, "backslash separator"},
		{"storage/alice/file\x00.txt", false, "NUL byte"},
		{"storage/bad owner/file.txt", false, "owner with space"},
	}

	for _, tc := range testCases {
		err := Validate(tc.key)
		if tc.valid {
			s.NoError(err, tc.message)
		} else {
			s.Error(err, tc.message)
			s.IsType(InvalidKeyError{}, err, tc.message)
		}
	}
}

// TestDecodeStaysUnderRoot tests that resolved paths stay inside root.
func (s *KeypathTestSuite) TestDecodeStaysUnderRoot() {
	root := s.T().TempDir()

	path, err := Decode(root, "storage/alice/abc12345_file.txt")
	s.Require().NoError(err)
	s.True(strings.HasPrefix(path, root+string(filepath.Separator)))

	_, err = Decode(root, "storage/alice/../../etc/passwd")
	s.Error(err)
}

// TestKeyAccessors tests OwnerOf, FolderOf and FilenameOf.
func (s *KeypathTestSuite) TestKeyAccessors() {
	key := "storage/alice/docs/2026/abc12345_report.pdf"
	s.Equal("alice", OwnerOf(key))
	s.Equal("docs/2026", FolderOf(key))
	s.Equal("report.pdf", FilenameOf(key))

	flat := "storage/alice/abc12345_plain.txt"
	s.Equal("", FolderOf(flat))
	s.Equal("plain.txt", FilenameOf(flat))
}

// TestValidFilename tests declared filename acceptance.
func (s *KeypathTestSuite) TestValidFilename() {
	s.True(ValidFilename("report.pdf"))
	s.True(ValidFilename("with spaces.txt"))
	s.False(ValidFilename(""))
	s.False(ValidFilename("   "))
	s.False(ValidFilename("../escape.txt"))
	s.False(ValidFilename("a/b.txt"))
	s.False(ValidFilename(`a\b.txt`))
}

// TestSanitizeFilename tests unsafe character replacement.
func (s *KeypathTestSuite) TestSanitizeFilename() {
	testCases := []struct {
		in      string
		out     string
		message string
	}{
		{"normal.txt", "normal.txt", "clean name unchanged"},
		{`a<b>c:d.txt`, "a_b_c_d.txt", "unsafe chars replaced"},
		{"..hidden", "hidden", "leading dots trimmed"},
		{"trailing. ", "trailing", "trailing dot and space trimmed"},
		{"", "unnamed_file", "empty name gets placeholder"},
		{"...", "unnamed_file", "dots-only name gets placeholder"},
	}

	for _, tc := range testCases {
		s.Equal(tc.out, SanitizeFilename(tc.in), tc.message)
	}

	long := strings.Repeat("a", 300) + ".txt"
	sanitized := SanitizeFilename(long)
	s.LessOrEqual(len(sanitized), 255)
	s.True(strings.HasSuffix(sanitized, ".txt"))
}

// TestSplitFolder tests folder segmentation and sanitization.
func (s *KeypathTestSuite) TestSplitFolder() {
	s.Nil(SplitFolder(""))
	s.Equal([]string{"a", "b"}, SplitFolder("a/b"))
	s.Equal([]string{"a", "b"}, SplitFolder("/a//b/"))
	s.Equal([]string{"invalid", "b"}, SplitFolder("../b"))
}

func TestKeypathTestSuite(t *testing.T) {
	suite.Run(t, new(KeypathTestSuite))
}
