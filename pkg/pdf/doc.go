// Package pdf wraps the PDF backends behind the two capabilities the
// imposition core needs: reading a source document (page count, per-page
// dimensions) and composing an output document (placing scaled source pages
// onto sheets, drawing the cut-guide and page-number overlay).
//
// Reading is done with pdfcpu, which validates the document and resolves
// inherited page attributes. Composition is done with fpdf plus its gofpdi
// bridge, which imports source pages as form XObjects so their content is
// embedded untouched and merely transformed into place.
//
// The layout core speaks PDF-native bottom-up coordinates; [Canvas] owns
// the conversion to fpdf's top-down system. Neither the importer nor the
// fpdf document is safe for concurrent use, so a Canvas must stay confined
// to one goroutine for its lifetime.
package pdf
