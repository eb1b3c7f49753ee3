// Package normalisers converts raw document bytes into plain text the
// chunker can work with. Each subpackage handles one family of MIME
// types; the Registry maps an incoming document's MIME type to the
// normaliser that accepts it.
package normalisers
