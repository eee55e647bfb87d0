// Package grid models the user-facing result grid as pure data
// transformations: reorder and remove are explicit index operations on an
// ordered image list, kept separate from any rendering concern.
package grid

import (
	"errors"

	"github.com/Takeshi-Yoshimura-park/design-ai/internal/analysis"
	"github.com/Takeshi-Yoshimura-park/design-ai/internal/imagesearch/types"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// ResultSet is one search outcome held for display. It lives only for
// the session that created it.
type ResultSet struct {
	Axis   analysis.Axis `json:"axis"`
	Query  string        `json:"query"`
	Images []types.Image `json:"images"`
}

// Move relocates the image at index from to index to, shifting the
// images between them. Implemented as remove-at + insert-at so the
// operation matches a drag-and-drop exactly.
func (rs *ResultSet) Move(from, to int) error {
	n := len(rs.Images)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrIndexOutOfRange
	}
	if from == to {
		return nil
	}

	out := make([]types.Image, 0, n)
	out = append(out, rs.Images[:from]...)
	out = append(out, rs.Images[from+1:]...)

	moved := rs.Images[from]
	out = append(out[:to], append([]types.Image{moved}, out[to:]...)...)

	rs.Images = out
	return nil
}

// Remove drops the image at index i.
func (rs *ResultSet) Remove(i int) error {
	n := len(rs.Images)
	if i < 0 || i >= n {
		return ErrIndexOutOfRange
	}

	out := make([]types.Image, 0, n-1)
	out = append(out, rs.Images[:i]...)
	out = append(out, rs.Images[i+1:]...)

	rs.Images = out
	return nil
}
