package cursor

import (
	"bytes"
	"errors"
	"testing"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	w.PutUint8(0xab)
	w.PutUint16(0x1234)
	w.PutUint32(0xdeadbeef)
	w.PutUint64(0x0102030405060708)
	w.PutBool(true)
	w.PutBool(false)
	w.PutData([]byte("payload"))
	w.PutString("")
	out := w.Out()

	if w.Len() != 0 {
		t.Fatalf("Out did not reset writer")
	}

	r := NewReader(out)
	if v, err := r.GetUint8(); err != nil || v != 0xab {
		t.Fatalf("GetUint8: %v %v", v, err)
	}
	if v, err := r.GetUint16(); err != nil || v != 0x1234 {
		t.Fatalf("GetUint16: %v %v", v, err)
	}
	if v, err := r.GetUint32(); err != nil || v != 0xdeadbeef {
		t.Fatalf("GetUint32: %v %v", v, err)
	}
	if v, err := r.GetUint64(); err != nil || v != 0x0102030405060708 {
		t.Fatalf("GetUint64: %v %v", v, err)
	}
	if v, err := r.GetBool(); err != nil || !v {
		t.Fatalf("GetBool(true): %v %v", v, err)
	}
	if v, err := r.GetBool(); err != nil || v {
		t.Fatalf("GetBool(false): %v %v", v, err)
	}
	if v, err := r.GetData(0); err != nil || string(v) != "payload" {
		t.Fatalf("GetData: %q %v", v, err)
	}
	if v, err := r.GetString(0); err != nil || v != "" {
		t.Fatalf("GetString: %q %v", v, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("Remaining = %d, want 0", r.Remaining())
	}
}

func TestLittleEndianLayout(t *testing.T) {
	w := NewWriter()
	w.PutUint64(1)
	w.PutData([]byte{0xff})
	want := []byte{1, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0xff}
	if got := w.Out(); !bytes.Equal(got, want) {
		t.Fatalf("layout mismatch: got %x want %x", got, want)
	}
}

func TestUnderrun(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	if _, err := r.GetUint64(); !errors.Is(err, ErrUnderrun) {
		t.Fatalf("GetUint64: got %v want ErrUnderrun", err)
	}
	if r.Offset() != 0 {
		t.Fatalf("failed read advanced offset to %d", r.Offset())
	}
	if _, err := NewReader(nil).GetBool(); !errors.Is(err, ErrUnderrun) {
		t.Fatalf("GetBool on empty: got %v want ErrUnderrun", err)
	}
}

func TestGetDataLengthBeyondInput(t *testing.T) {
	w := NewWriter()
	w.PutUint32(100)
	w.PutUint8(1)
	r := NewReader(w.Out())
	if _, err := r.GetData(0); !errors.Is(err, ErrUnderrun) {
		t.Fatalf("got %v want ErrUnderrun", err)
	}
	if r.Offset() != 0 {
		t.Fatalf("failed GetData advanced offset to %d", r.Offset())
	}
}

func TestGetDataCeiling(t *testing.T) {
	w := NewWriter()
	w.PutData(make([]byte, 16))
	b := w.Out()

	if _, err := NewReader(b).GetData(15); !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v want ErrMalformed", err)
	}
	if _, err := NewReader(b).GetData(16); err != nil {
		t.Fatalf("GetData at limit: %v", err)
	}

	huge := []byte{0xff, 0xff, 0xff, 0xff}
	if _, err := NewReader(huge).GetData(0); !errors.Is(err, ErrMalformed) {
		t.Fatalf("adversarial length: got %v want ErrMalformed", err)
	}
}

func TestGetBoolRejectsOtherBytes(t *testing.T) {
	if _, err := NewReader([]byte{2}).GetBool(); !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v want ErrMalformed", err)
	}
}

func TestGetDataCopies(t *testing.T) {
	w := NewWriter()
	w.PutData([]byte{1, 2})
	b := w.Out()
	got, err := NewReader(b).GetData(0)
	if err != nil {
		t.Fatal(err)
	}
	got[0] = 9
	if b[4] != 1 {
		t.Fatalf("GetData aliased the input buffer")
	}
}

func FuzzReader(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{4, 0, 0, 0, 'a', 'b'})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff, 1})
	f.Fuzz(func(t *testing.T, b []byte) {
		r := NewReader(b)
		for r.Remaining() > 0 {
			before := r.Remaining()
			if _, err := r.GetData(64); err != nil {
				if _, err := r.GetUint8(); err != nil {
					t.Fatalf("GetUint8 failed with %d bytes left: %v", r.Remaining(), err)
				}
			}
			if r.Remaining() >= before {
				t.Fatalf("reader made no progress")
			}
		}
	})
}
