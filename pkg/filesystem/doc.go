// Package filesystem provides the afero filesystems textilize reads rule files
// and sources from, plus the openers and creators pipeline units use.
//
// Production code uses NewOS; tests build trees in NewMemory.
package filesystem
