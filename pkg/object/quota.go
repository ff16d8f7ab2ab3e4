package object

// Quota accounting: committed usage comes from the index; in-flight
// declared bytes are reserved in memory so concurrent writes from the
// same owner cannot grossly overshoot the cap.

// Usage returns the committed byte usage for an owner.
func (s *Store) Usage(ownerID string) (int64, error) {
	return s.idx.SumUsage(ownerID)
}

// Quota returns the configured per-owner byte cap (<= 0 is unlimited).
func (s *Store) Quota() int64 {
	return s.quotaBytes
}

// CheckQuota reports whether an owner can store n more bytes. It does
// not reserve anything; Write performs its own reservation.
func (s *Store) CheckQuota(ownerID string, n int64) error {
	if s.quotaBytes <= 0 {
		return nil
	}
	used, err := s.idx.SumUsage(ownerID)
	if err != nil {
		return err
	}

	s.reserveMu.Lock()
	inFlight := s.reserved[ownerID]
	s.reserveMu.Unlock()

	if used+inFlight+n > s.quotaBytes {
		return QuotaExceededError{OwnerID: ownerID, Used: used + inFlight, Quota: s.quotaBytes, Requested: n}
	}
	return nil
}

// reserve claims n declared bytes for an owner for the duration of a
// write. The caller must release the same amount when done.
func (s *Store) reserve(ownerID string, n int64) error {
	if s.quotaBytes <= 0 || n <= 0 {
		return nil
	}
	used, err := s.idx.SumUsage(ownerID)
	if err != nil {
		return err
	}

	s.reserveMu.Lock()
	defer s.reserveMu.Unlock()

	if used+s.reserved[ownerID]+n > s.quotaBytes {
		return QuotaExceededError{OwnerID: ownerID, Used: used + s.reserved[ownerID], Quota: s.quotaBytes, Requested: n}
	}
	s.reserved[ownerID] += n
	return nil
}

func (s *Store) release(ownerID string, n int64) {
	if s.quotaBytes <= 0 || n <= 0 {
		return
	}
	s.reserveMu.Lock()
	defer s.reserveMu.Unlock()

	s.reserved[ownerID] -= n
	if s.reserved[ownerID] <= 0 {
		delete(s.reserved, ownerID)
	}
}
