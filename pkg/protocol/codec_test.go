package protocol

import (
	"bytes"
	"io"
	"testing"
)

func TestUvarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 16383, 16384, 1<<32 - 1, 1<<63 - 1, 1<<64 - 1}
	for _, v := range values {
		e := NewEncoder()
		e.PutUvarint(v)
		d := NewDecoder(e.Bytes())
		got, err := d.Uvarint()
		if err != nil {
			t.Fatalf("decode %d: %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %d", v, got)
		}
		if !d.EOF() {
			t.Errorf("%d: %d trailing bytes", v, d.Remaining())
		}
	}
}

func TestSvarintRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 2, -2, 63, -64, 1 << 40, -(1 << 40), 1<<63 - 1, -1 << 63}
	for _, v := range values {
		e := NewEncoder()
		e.PutSvarint(v)
		got, err := NewDecoder(e.Bytes()).Svarint()
		if err != nil {
			t.Fatalf("decode %d: %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %d", v, got)
		}
	}
}

func TestZigZagSmallMagnitude(t *testing.T) {
	// Small negative numbers must stay small on the wire.
	e := NewEncoder()
	e.PutSvarint(-1)
	if e.Len() != 1 {
		t.Errorf("-1 took %d bytes, want 1", e.Len())
	}
}

func TestStringAndBytes(t *testing.T) {
	e := NewEncoder()
	e.PutString("héllo")
	e.PutBytes([]byte{0x00, 0xFF})
	e.PutString("")

	d := NewDecoder(e.Bytes())
	s, err := d.String()
	if err != nil || s != "héllo" {
		t.Fatalf("String() = %q, %v", s, err)
	}
	b, err := d.Bytes()
	if err != nil || !bytes.Equal(b, []byte{0x00, 0xFF}) {
		t.Fatalf("Bytes() = %v, %v", b, err)
	}
	empty, err := d.String()
	if err != nil || empty != "" {
		t.Fatalf("empty String() = %q, %v", empty, err)
	}
}

func TestDecoderTruncation(t *testing.T) {
	e := NewEncoder()
	e.PutString("some payload")
	data := e.Bytes()

	for cut := 0; cut < len(data); cut++ {
		d := NewDecoder(data[:cut])
		if _, err := d.String(); err == nil {
			t.Errorf("truncated at %d decoded without error", cut)
		}
	}
}

func TestDecoderAllocationLimit(t *testing.T) {
	e := NewEncoder()
	e.PutUvarint(MaxAllocation + 1)
	_, err := NewDecoder(e.Bytes()).String()
	if err != ErrAllocationTooLarge {
		t.Errorf("err = %v, want ErrAllocationTooLarge", err)
	}
}

func TestDecoderVarintOverflow(t *testing.T) {
	data := bytes.Repeat([]byte{0x80}, 11)
	_, err := NewDecoder(data).Uvarint()
	if err != ErrVarintOverflow {
		t.Errorf("err = %v, want ErrVarintOverflow", err)
	}
}

func TestFloat64RoundTrip(t *testing.T) {
	e := NewEncoder()
	e.PutFloat64(3.5)
	e.PutFloat64(-0.25)
	d := NewDecoder(e.Bytes())
	a, err := d.Float64()
	if err != nil || a != 3.5 {
		t.Fatalf("Float64 = %v, %v", a, err)
	}
	b, err := d.Float64()
	if err != nil || b != -0.25 {
		t.Fatalf("Float64 = %v, %v", b, err)
	}
	if _, err := d.Float64(); err != io.ErrUnexpectedEOF {
		t.Errorf("exhausted decoder err = %v", err)
	}
}

func TestEncoderReset(t *testing.T) {
	e := NewEncoder()
	e.PutString("first")
	e.Reset()
	e.PutUvarint(7)
	if e.Len() != 1 {
		t.Errorf("Len = %d after reset, want 1", e.Len())
	}
}
