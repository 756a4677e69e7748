// Package model defines the geometric and content primitives shared by the
// extraction pipeline: rectangles in page space, text blocks, image and
// table primitives, and the layout items handed to renderers.
package model
