package interfaces

import "context"

// ITxManager runs fn inside a database transaction. The transaction handle
// travels in the context, so repository calls made with the inner ctx join it
// automatically. Returning an error rolls back; nil commits.
type ITxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
