package pdf

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"codeberg.org/go-pdf/fpdf"

	"github.com/Sreyas-J-S/CutStack/pkg/errors"
)

// makeTestPDF builds a minimal valid PDF with one page per given size.
func makeTestPDF(t *testing.T, sizes ...Size) []byte {
	t.Helper()

	doc := fpdf.New("P", "pt", "", "")
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetFont("Helvetica", "", 12)
	for i, s := range sizes {
		doc.AddPageFormat("P", fpdf.SizeType{Wd: s.Width, Ht: s.Height})
		doc.Text(10, 20, fmt.Sprintf("page %d", i+1))
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("build fixture: %v", err)
	}
	return buf.Bytes()
}

// makeEncryptedPDF builds a single-page PDF protected with a user password.
func makeEncryptedPDF(t *testing.T, userPass string) []byte {
	t.Helper()

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetProtection(fpdf.CnProtectPrint, userPass, "owner-secret")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 12)
	doc.Text(10, 20, "locked")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("build encrypted fixture: %v", err)
	}
	return buf.Bytes()
}

// pagesOf repeats one size n times, for uniform fixtures.
func pagesOf(n int, w, h float64) []Size {
	sizes := make([]Size, n)
	for i := range sizes {
		sizes[i] = Size{Width: w, Height: h}
	}
	return sizes
}

func sizeNear(got, want Size) bool {
	return math.Abs(got.Width-want.Width) < 0.01 && math.Abs(got.Height-want.Height) < 0.01
}

func TestReadDocument(t *testing.T) {
	tests := []struct {
		name  string
		sizes []Size
	}{
		{"single page", pagesOf(1, A4Width, A4Height)},
		{"several pages", pagesOf(5, A4Width, A4Height)},
		{"small custom pages", pagesOf(3, 200, 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := makeTestPDF(t, tt.sizes...)

			doc, err := ReadDocument(data, "")
			if err != nil {
				t.Fatalf("ReadDocument() error = %v", err)
			}
			if got := doc.PageCount(); got != len(tt.sizes) {
				t.Errorf("PageCount() = %d, want %d", got, len(tt.sizes))
			}
			if !bytes.Equal(doc.Bytes(), data) {
				t.Error("Bytes() should return the original document")
			}
		})
	}
}

func TestReadDocumentPageSizes(t *testing.T) {
	sizes := []Size{
		{Width: A4Width, Height: A4Height},
		{Width: 300, Height: 200},
		{Width: LetterWidth, Height: LetterHeight},
	}
	doc, err := ReadDocument(makeTestPDF(t, sizes...), "")
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}

	for i, want := range sizes {
		got, err := doc.PageSize(i + 1)
		if err != nil {
			t.Fatalf("PageSize(%d) error = %v", i+1, err)
		}
		if !sizeNear(got, want) {
			t.Errorf("PageSize(%d) = %v, want %v", i+1, got, want)
		}
	}
}

func TestReadDocumentPageSizeOutOfRange(t *testing.T) {
	doc, err := ReadDocument(makeTestPDF(t, pagesOf(2, 200, 100)...), "")
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}

	for _, pageNr := range []int{0, -1, 3} {
		if _, err := doc.PageSize(pageNr); !errors.Is(err, errors.ErrCodeUnreadablePage) {
			t.Errorf("PageSize(%d) error = %v, want code %s", pageNr, err, errors.ErrCodeUnreadablePage)
		}
	}
}

func TestReadDocumentMalformed(t *testing.T) {
	valid := makeTestPDF(t, pagesOf(1, 200, 100)...)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a pdf", []byte("definitely not a pdf")},
		{"truncated", valid[:60]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDocument(tt.data, "")
			if err == nil {
				t.Fatal("ReadDocument() expected error, got nil")
			}
			if !errors.Is(err, errors.ErrCodeDocumentMalformed) {
				t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeDocumentMalformed)
			}
		})
	}
}

func TestReadDocumentEncrypted(t *testing.T) {
	data := makeEncryptedPDF(t, "hunter2")

	t.Run("without password", func(t *testing.T) {
		_, err := ReadDocument(data, "")
		if !errors.Is(err, errors.ErrCodeDocumentEncrypted) {
			t.Errorf("error = %v, want code %s", err, errors.ErrCodeDocumentEncrypted)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := ReadDocument(data, "wrong")
		if !errors.Is(err, errors.ErrCodeDocumentEncrypted) {
			t.Errorf("error = %v, want code %s", err, errors.ErrCodeDocumentEncrypted)
		}
	})

	t.Run("correct password", func(t *testing.T) {
		doc, err := ReadDocument(data, "hunter2")
		if err != nil {
			t.Fatalf("ReadDocument() error = %v", err)
		}
		if got := doc.PageCount(); got != 1 {
			t.Errorf("PageCount() = %d, want 1", got)
		}
	})

	t.Run("password on unencrypted document", func(t *testing.T) {
		doc, err := ReadDocument(makeTestPDF(t, pagesOf(1, 200, 100)...), "ignored")
		if err != nil {
			t.Fatalf("ReadDocument() error = %v", err)
		}
		if got := doc.PageCount(); got != 1 {
			t.Errorf("PageCount() = %d, want 1", got)
		}
	})
}

func TestDocumentInfo(t *testing.T) {
	doc, err := ReadDocument(makeTestPDF(t, pagesOf(3, 300, 200)...), "")
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}

	info := doc.Info()
	if info.Pages != 3 {
		t.Errorf("Info().Pages = %d, want 3", info.Pages)
	}
	if len(info.Sizes) != 3 {
		t.Fatalf("Info().Sizes has %d entries, want 3", len(info.Sizes))
	}
	if !sizeNear(info.Sizes[1], Size{Width: 300, Height: 200}) {
		t.Errorf("Info().Sizes[1] = %v, want 300x200", info.Sizes[1])
	}

	// Mutating the returned slice must not affect the document.
	info.Sizes[0] = Size{}
	if got, _ := doc.PageSize(1); !sizeNear(got, Size{Width: 300, Height: 200}) {
		t.Errorf("PageSize(1) = %v after mutating Info copy, want 300x200", got)
	}
}
