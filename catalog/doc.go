// Package catalog writes the output of an iconmine run to a directory.
//
// Layout under the root:
//
//	img/<name>.png   one opaque PNG per icon
//	meta/<name>.md   one description page per icon
//	README.md        a table with one row per icon family
//
// With WithPreview the sink also renders every primary icon into a single
// contact sheet PNG.
package catalog
