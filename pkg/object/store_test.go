package object

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vaultfs/pkg/index"

	"github.com/stretchr/testify/suite"
)

// StoreTestSuite tests object storage, metadata and deletion.
type StoreTestSuite struct {
	suite.Suite
	root  string
	idx   *index.Store
	store *Store
}

// SetupTest runs before each test.
func (s *StoreTestSuite) SetupTest() {
	s.root = s.T().TempDir()
	var err error
	s.idx, err = index.Open(filepath.Join(s.root, "index.db"))
	s.Require().NoError(err)
	s.store, err = New(s.root, 0, s.idx)
	s.Require().NoError(err)
}

// TearDownTest runs after each test.
func (s *StoreTestSuite) TearDownTest() {
	if s.idx != nil {
		s.Require().NoError(s.idx.Close())
	}
}

// write stores content under a fresh key for owner alice.
func (s *StoreTestSuite) write(key, content string) {
	_, err := s.store.Write(key, strings.NewReader(content), int64(len(content)), WriteMeta{
		OriginalName: "file.txt",
		OwnerID:      "alice",
	})
	s.Require().NoError(err)
}

// TestWriteReadRoundtrip tests that stored bytes come back unchanged.
func (s *StoreTestSuite) TestWriteReadRoundtrip() {
	key := "storage/alice/abc12345_file.txt"
	s.write(key, "hello object store")

	rc, err := s.store.Open(key, nil)
	s.Require().NoError(err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	s.Require().NoError(err)
	s.Equal("hello object store", string(data))
}

// TestWriteRecordsMetadata tests sidecar and index agreement.
func (s *StoreTestSuite) TestWriteRecordsMetadata() {
	key := "storage/alice/abc12345_file.txt"
	content := "metadata test content"
	meta, err := s.store.Write(key, strings.NewReader(content), -1, WriteMeta{
		OriginalName: "report.txt",
		Mime:         "text/plain",
		OwnerID:      "alice",
		Folder:       "docs",
	})
	s.Require().NoError(err)
	s.Equal(int64(len(content)), meta.Size)
	s.Equal("text/plain", meta.Mime)
	s.Len(meta.SHA256, 64)

	read, err := s.store.ReadMetadata(key)
	s.Require().NoError(err)
	s.Equal(meta.SHA256, read.SHA256)
	s.Equal("report.txt", read.OriginalName)

	indexed, err := s.idx.Get(key)
	s.Require().NoError(err)
	s.Equal(meta.Size, indexed.Size)
}

// TestWriteMimeFallback tests extension sniffing and the final default.
func (s *StoreTestSuite) TestWriteMimeFallback() {
	meta, err := s.store.Write("storage/alice/abc12345_page.html", strings.NewReader("<html/>"), -1, WriteMeta{
		OriginalName: "page.html",
		OwnerID:      "alice",
	})
	s.Require().NoError(err)
	s.Contains(meta.Mime, "text/html")

	meta, err = s.store.Write("storage/alice/abc12345_blob", strings.NewReader("x"), -1, WriteMeta{
		OriginalName: "blob",
		OwnerID:      "alice",
	})
	s.Require().NoError(err)
	s.Equal("application/octet-stream", meta.Mime)
}

// TestWriteRejectsInvalidKey tests that traversal keys never reach disk.
func (s *StoreTestSuite) TestWriteRejectsInvalidKey() {
	_, err := s.store.Write("storage/alice/../../etc/passwd", strings.NewReader("x"), -1, WriteMeta{OwnerID: "alice"})
	s.Error(err)
}

// TestReadMetadataNotFound tests the missing-object error.
func (s *StoreTestSuite) TestReadMetadataNotFound() {
	_, err := s.store.ReadMetadata("storage/alice/abc12345_missing.txt")
	var notFound KeyNotFoundError
	s.ErrorAs(err, &notFound)
	s.Equal("storage/alice/abc12345_missing.txt", notFound.Key)
}

// TestReadMetadataMissingSidecar tests the synthesized record path.
func (s *StoreTestSuite) TestReadMetadataMissingSidecar() {
	key := "storage/alice/abc12345_orphan.bin"
	s.write(key, "orphan content")

	contentPath, err := s.store.contentPath(key)
	s.Require().NoError(err)
	s.Require().NoError(os.Remove(metaPath(contentPath)))

	meta, err := s.store.ReadMetadata(key)
	s.Require().NoError(err)
	s.Equal("orphan.bin", meta.OriginalName)
	s.Equal("alice", meta.OwnerID)
	s.Equal(int64(len("orphan content")), meta.Size)
}

// TestDelete tests content, sidecar and index removal.
func (s *StoreTestSuite) TestDelete() {
	key := "storage/alice/abc12345_file.txt"
	s.write(key, "to be deleted")

	s.Require().NoError(s.store.Delete(key))

	_, err := s.store.ReadMetadata(key)
	var notFound KeyNotFoundError
	s.ErrorAs(err, &notFound)

	_, err = s.idx.Get(key)
	s.ErrorIs(err, index.ErrObjectNotFound)

	contentPath, err := s.store.contentPath(key)
	s.Require().NoError(err)
	_, err = os.Stat(metaPath(contentPath))
	s.True(os.IsNotExist(err))
}

// TestDeleteNotFound tests deleting an absent object.
func (s *StoreTestSuite) TestDeleteNotFound() {
	err := s.store.Delete("storage/alice/abc12345_missing.txt")
	var notFound KeyNotFoundError
	s.ErrorAs(err, &notFound)
}

// TestReindex tests rebuilding the index from sidecars.
func (s *StoreTestSuite) TestReindex() {
	s.write("storage/alice/abc12345_one.txt", "one")
	s.write("storage/alice/def67890_two.txt", "two")

	// Simulate a lost database.
	s.Require().NoError(s.idx.Delete("storage/alice/abc12345_one.txt"))
	s.Require().NoError(s.idx.Delete("storage/alice/def67890_two.txt"))

	s.Require().NoError(s.store.Reindex())

	objects, err := s.idx.List("alice", "")
	s.Require().NoError(err)
	s.Len(objects, 2)
}

// TestNoPartialFileVisible tests that a failed write leaves nothing at
// the content path.
func (s *StoreTestSuite) TestNoPartialFileVisible() {
	key := "storage/alice/abc12345_partial.bin"
	reader := io.MultiReader(strings.NewReader("some bytes"), errReader{})

	_, err := s.store.Write(key, reader, -1, WriteMeta{OwnerID: "alice"})
	s.Error(err)

	contentPath, pathErr := s.store.contentPath(key)
	s.Require().NoError(pathErr)
	_, statErr := os.Stat(contentPath)
	s.True(os.IsNotExist(statErr))

	// No stray temp files either.
	entries, globErr := filepath.Glob(filepath.Dir(contentPath) + "/*.tmp-*")
	s.Require().NoError(globErr)
	s.Empty(entries)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
