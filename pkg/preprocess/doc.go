// Package preprocess turns an HTML fragment into the single-line, marker
// annotated text the structural converter consumes.
//
// Every retained source line is prefixed with a line marker carrying its
// 1-based physical line number:
//
//	<p>          =>  <line n="1"/><p><line n="2"/>Some prose <line n="3"/>more prose<line n="4"/></p>
//	Some prose
//	more prose
//	</p>
//
// Lines are joined without a separator when either side is markup and with
// one space otherwise, so prose keeps its word boundaries while tags stay
// adjacent. The preprocessing rule set is applied once to the assembled text.
package preprocess
