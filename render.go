package docmill

import "context"

// Renderer produces document bytes for one record and operation. The photo
// argument carries the fetched (or placeholder) image for operations that
// embed one and is nil otherwise. Any returned error fails that record
// only. Implementations must be safe for concurrent use: the coordinator
// calls Render from multiple workers.
type Renderer interface {
	Render(ctx context.Context, rec Record, op Operation, photo []byte) ([]byte, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, rec Record, op Operation, photo []byte) ([]byte, error)

// Render implements Renderer.
func (f RendererFunc) Render(ctx context.Context, rec Record, op Operation, photo []byte) ([]byte, error) {
	return f(ctx, rec, op, photo)
}
