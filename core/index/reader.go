package index

import (
	"io"

	"github.com/balzaczyy/gosearch/core/index/model"
)

/*
IndexReader is the read-only view of an inverted index consumed by the
search core. Implementations must tolerate concurrent readers; cursors
they hand out are confined to the caller.
*/
type IndexReader interface {
	io.Closer
	// Returns the number of live documents.
	NumDocs() int
	// Returns one greater than the largest possible document number.
	MaxDoc() int
	IsDeleted(doc int) bool
	// Returns the stored fields of the nth document.
	Document(doc int) (*Document, error)
	// Returns the number of documents containing the term t.
	DocFreq(t model.Term) int
	// Returns an unpositioned postings cursor without positions.
	TermDocs() model.TermDocEnum
	// Returns an unpositioned postings cursor which also reports
	// positions.
	TermPositions() model.TermDocEnum
	// Returns the term dictionary of field, or nil if the field does
	// not exist.
	Terms(field string) model.TermEnum
	// Returns the encoded length norms of field indexed by document, or
	// nil if the field has none.
	Norms(field string) []byte
	FieldInfos() *model.FieldInfos
}
