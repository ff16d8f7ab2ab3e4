package signer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// SignerTestSuite tests signature issuance and verification.
type SignerTestSuite struct {
	suite.Suite
	signer *Signer
}

// SetupTest runs before each test.
func (s *SignerTestSuite) SetupTest() {
	s.signer = New("test-secret", time.Hour)
}

// TestSignVerifyRoundtrip tests that a fresh signature verifies.
func (s *SignerTestSuite) TestSignVerifyRoundtrip() {
	exp, sig := s.signer.Sign("storage/alice/abc12345_file.txt", time.Minute)
	s.NoError(s.signer.Verify("storage/alice/abc12345_file.txt", exp, sig))
}

// TestSignDefaultTTL tests that a non-positive ttl uses the default.
func (s *SignerTestSuite) TestSignDefaultTTL() {
	before := time.Now().Add(time.Hour).Unix()
	exp, _ := s.signer.Sign("storage/alice/abc12345_file.txt", 0)
	s.GreaterOrEqual(exp, before)
}

// TestVerifyTamperedSignature tests that any bit flip invalidates.
func (s *SignerTestSuite) TestVerifyTamperedSignature() {
	key := "storage/alice/abc12345_file.txt"
	exp, sig := s.signer.Sign(key, time.Minute)

	flipped := []byte(sig)
	if flipped[0] == 'a' {
		flipped[0] = 'b'
	} else {
		flipped[0] = 'a'
	}

	err := s.signer.Verify(key, exp, string(flipped))
	s.ErrorIs(err, ErrInvalidSignature)
}

// TestVerifyWrongKey tests that a signature is bound to its key.
func (s *SignerTestSuite) TestVerifyWrongKey() {
	exp, sig := s.signer.Sign("storage/alice/abc12345_one.txt", time.Minute)
	err := s.signer.Verify("storage/alice/abc12345_two.txt", exp, sig)
	s.ErrorIs(err, ErrInvalidSignature)
}

// TestVerifyAlteredExpiry tests that extending exp breaks the signature.
func (s *SignerTestSuite) TestVerifyAlteredExpiry() {
	key := "storage/alice/abc12345_file.txt"
	exp, sig := s.signer.Sign(key, time.Minute)
	err := s.signer.Verify(key, exp+3600, sig)
	s.ErrorIs(err, ErrInvalidSignature)
}

// TestVerifyExpired tests that a valid signature past its expiry fails.
func (s *SignerTestSuite) TestVerifyExpired() {
	key := "storage/alice/abc12345_file.txt"
	exp, sig := s.signer.Sign(key, time.Second)

	s.signer.now = func() time.Time {
		return time.Unix(exp+1, 0)
	}
	err := s.signer.Verify(key, exp, sig)
	s.ErrorIs(err, ErrExpired)
}

// TestVerifyWrongSecret tests that signers with different secrets reject
// each other's signatures.
func (s *SignerTestSuite) TestVerifyWrongSecret() {
	key := "storage/alice/abc12345_file.txt"
	exp, sig := s.signer.Sign(key, time.Minute)

	other := New("different-secret", time.Hour)
	err := other.Verify(key, exp, sig)
	s.ErrorIs(err, ErrInvalidSignature)
}

// TestEncodeDecodeKey tests the URL transport encoding.
func (s *SignerTestSuite) TestEncodeDecodeKey() {
	key := "storage/alice/docs/abc12345_file.txt"
	decoded, err := DecodeKey(EncodeKey(key))
	s.Require().NoError(err)
	s.Equal(key, decoded)

	_, err = DecodeKey("not base64!!!")
	s.Error(err)
}

// TestParseExpiry tests expiry parsing.
func (s *SignerTestSuite) TestParseExpiry() {
	exp, err := ParseExpiry("1700000000")
	s.Require().NoError(err)
	s.Equal(int64(1700000000), exp)

	_, err = ParseExpiry("soon")
	s.Error(err)
}

func TestSignerTestSuite(t *testing.T) {
	suite.Run(t, new(SignerTestSuite))
}
