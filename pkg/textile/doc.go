// Package textile is the default structural converter. It parses the
// preprocessed, marker annotated fragment with etree and renders Textile.
//
// The parser runs in permissive mode with HTML void elements auto-closed, so
// entities it does not know (&nbsp;, &rsquo;) reach the output verbatim and
// stay available to postprocessing rules. Line markers are dropped from the
// output except inside pre blocks, where they restore the source line breaks.
//
// Supported markup:
//
//	p, h1-h6, blockquote, pre (and pre > code), ul/ol (nested), dl, table, hr
//	strong/b, em/i, code/tt/kbd/samp, del/s/strike, ins/u, sup, sub, cite, a, img, br
//
// Unknown elements are treated as containers: their block children are
// rendered as blocks and their inline content is kept.
package textile
