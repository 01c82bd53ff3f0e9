package pdf

import (
	"bytes"
	"errors"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	cserrors "github.com/Sreyas-J-S/CutStack/pkg/errors"
)

// Document is a parsed, validated source PDF. It keeps the raw bytes for
// the composition backend and the per-page dimensions for the layout core.
type Document struct {
	data  []byte
	sizes []Size
}

// Info is the cacheable metadata of a source document.
type Info struct {
	Pages int    `json:"pages"`
	Sizes []Size `json:"sizes"`
}

// ReadDocument parses and validates a source PDF. An empty password is
// fine for unencrypted documents; encrypted documents with a wrong or
// missing password fail with ErrCodeDocumentEncrypted.
//
// Every page must yield intrinsic dimensions up front: a page whose size
// cannot be resolved fails the whole job here, before any sheet is
// composed, so a partial output can never escape.
func ReadDocument(data []byte, password string) (*Document, error) {
	if len(data) == 0 {
		return nil, cserrors.New(cserrors.ErrCodeDocumentMalformed, "document is empty")
	}

	conf := model.NewDefaultConfiguration()
	if password != "" {
		conf.UserPW = password
		conf.OwnerPW = password
	}

	ctx, err := pdfapi.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		if errors.Is(err, pdfcpu.ErrWrongPassword) {
			return nil, cserrors.Wrap(cserrors.ErrCodeDocumentEncrypted, err, "document is encrypted")
		}
		return nil, cserrors.Wrap(cserrors.ErrCodeDocumentMalformed, err, "parse document")
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, cserrors.Wrap(cserrors.ErrCodeDocumentMalformed, err, "resolve page count")
	}

	// The composition backend imports object streams directly and cannot
	// decrypt, so protected documents are rewritten as plaintext here. An
	// unnecessary password on a plain document is ignored.
	if password != "" {
		dconf := model.NewDefaultConfiguration()
		dconf.UserPW = password
		dconf.OwnerPW = password
		var plain bytes.Buffer
		if err := pdfapi.Decrypt(bytes.NewReader(data), &plain, dconf); err == nil {
			data = plain.Bytes()
		}
	}

	sizes := make([]Size, 0, ctx.PageCount)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		_, _, inh, err := ctx.PageDict(pageNr, false)
		if err != nil {
			return nil, cserrors.Wrap(cserrors.ErrCodeUnreadablePage, err, "page %d", pageNr)
		}

		// The composition backend imports by MediaBox, so dimensions must
		// come from the same box for placement to match.
		box := inh.MediaBox
		if box == nil {
			box = inh.CropBox
		}
		if box == nil {
			return nil, cserrors.New(cserrors.ErrCodeUnreadablePage, "page %d has no size information", pageNr)
		}
		if box.Width() <= 0 || box.Height() <= 0 {
			return nil, cserrors.New(cserrors.ErrCodeUnreadablePage, "page %d has degenerate size %gx%g", pageNr, box.Width(), box.Height())
		}

		sizes = append(sizes, Size{Width: box.Width(), Height: box.Height()})
	}

	return &Document{data: data, sizes: sizes}, nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int { return len(d.sizes) }

// PageSize returns the intrinsic dimensions of the 1-based page number.
func (d *Document) PageSize(pageNr int) (Size, error) {
	if pageNr < 1 || pageNr > len(d.sizes) {
		return Size{}, cserrors.New(cserrors.ErrCodeUnreadablePage, "page %d out of range 1..%d", pageNr, len(d.sizes))
	}
	return d.sizes[pageNr-1], nil
}

// Info returns the document metadata in its cacheable form.
func (d *Document) Info() Info {
	sizes := make([]Size, len(d.sizes))
	copy(sizes, d.sizes)
	return Info{Pages: len(d.sizes), Sizes: sizes}
}

// Bytes returns the source document for the composition backend, decrypted
// when the document was read with a password.
func (d *Document) Bytes() []byte { return d.data }
