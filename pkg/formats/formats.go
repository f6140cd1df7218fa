// Package formats provides parsers for the mesh sources the stripifier reads:
// Ragnarok Online RSM models and Wavefront OBJ files.
package formats
