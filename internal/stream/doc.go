// Package stream provides the lazy, closeable element sequence returned by
// store queries and rewritten by query hooks.
//
// An Iterator follows the database/sql Rows protocol:
//
//	it, err := st.Query(ctx, q)
//	if err != nil {
//	    return err
//	}
//	defer it.Close()
//	for it.Next() {
//	    e := it.Element()
//	    ...
//	}
//	if err := it.Err(); err != nil {
//	    return err
//	}
//
// Elements are computed on demand as Next is called; nothing is buffered.
// Close releases the resources of the underlying source (cursors,
// connections). Close is idempotent and safe to call before the first Next
// or after iteration was abandoned mid-stream. Iterators are not restartable.
package stream
