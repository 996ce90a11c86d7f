// Package resolver turns the references found in a document into absolute
// addresses and classifies them as internal or external.
//
// Resolution honors an in-document <base href> override before falling back
// to the address the document was loaded from.
package resolver
