package params

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrInvalidState is returned for a malformed state blob.
var ErrInvalidState = errors.New("params: invalid state")

const (
	stateMagic   = "MBCP"
	stateVersion = uint32(1)
)

// MarshalBinary encodes every parameter as
//
//	"MBCP" | version u32 | count u32 | { nameLen u16 | name | value f64 }...
//
// in little-endian byte order.
func (s *Store) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(stateMagic)

	if err := binary.Write(&buf, binary.LittleEndian, stateVersion); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(s.params))); err != nil {
		return nil, err
	}

	for _, p := range s.params {
		name := p.Name()
		if len(name) > math.MaxUint16 {
			return nil, fmt.Errorf("params: name too long: %d bytes", len(name))
		}

		if err := binary.Write(&buf, binary.LittleEndian, uint16(len(name))); err != nil {
			return nil, err
		}
		buf.WriteString(name)

		if err := binary.Write(&buf, binary.LittleEndian, p.Get()); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary restores values from a blob written by MarshalBinary.
//
// The whole blob is decoded and checked before any value is written, so a
// corrupt blob leaves the store unchanged. Unknown names are skipped;
// parameters missing from the blob keep their current value. Restored values
// are sanitized like any other Set.
func (s *Store) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	magic := make([]byte, len(stateMagic))
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != stateMagic {
		return fmt.Errorf("%w: bad header", ErrInvalidState)
	}

	var version, count uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if version == 0 || version > stateVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidState, version)
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	// Each entry needs at least 10 bytes, which bounds count before allocating.
	if uint64(count)*10 > uint64(r.Len()) {
		return fmt.Errorf("%w: %d entries do not fit in %d bytes", ErrInvalidState, count, r.Len())
	}

	type entry struct {
		p     *Parameter
		value float64
	}

	pending := make([]entry, 0, count)

	for i := range count {
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return fmt.Errorf("%w: entry %d: %w", ErrInvalidState, i, err)
		}

		name := make([]byte, n)
		if _, err := io.ReadFull(r, name); err != nil {
			return fmt.Errorf("%w: entry %d: %w", ErrInvalidState, i, err)
		}

		var v float64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return fmt.Errorf("%w: entry %d: %w", ErrInvalidState, i, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %q has non-finite value", ErrInvalidState, name)
		}

		if p := s.Get(string(name)); p != nil {
			pending = append(pending, entry{p: p, value: v})
		}
	}

	if r.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrInvalidState, r.Len())
	}

	for _, e := range pending {
		e.p.Set(e.value)
	}

	return nil
}
