package dataset

import (
	"fmt"

	"github.com/born-ml/stax/internal/tensor"
)

// Batch is a window of aligned feature and target rows.
type Batch struct {
	X *tensor.Array
	Y *tensor.Array
}

// Batches cuts x and y into contiguous windows of size rows along the leading
// axis. The last batch may be smaller. A size of 0 yields one full batch.
func Batches(x, y *tensor.Array, size int) ([]Batch, error) {
	xs, ys := x.Shape(), y.Shape()
	if len(xs) == 0 || len(ys) == 0 || xs[0] != ys[0] {
		return nil, &tensor.ShapeError{Op: "dataset.batches", Want: xs, Got: ys, Detail: "row counts differ"}
	}
	if size < 0 {
		return nil, fmt.Errorf("dataset: negative batch size %d", size)
	}

	n := xs[0]
	if size == 0 || size > n {
		size = n
	}
	if n == 0 {
		return nil, ErrEmpty
	}

	batches := make([]Batch, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		bx, err := x.Slice(start, end)
		if err != nil {
			return nil, err
		}
		by, err := y.Slice(start, end)
		if err != nil {
			return nil, err
		}
		batches = append(batches, Batch{X: bx, Y: by})
	}
	return batches, nil
}
