/*
Package filesystem presents a flat object store as a hierarchical filesystem.

The backing store understands only string keys and byte blobs; this package
supplies the translation layer: it maps filesystem paths to and from store
keys, simulates directories with zero-byte marker objects, folds flat prefix
listings into one level of hierarchy, and provides buffered file handles that
commit to the store on close.

# Derived-view model

There is no tree structure anywhere. Every hierarchy question — does this
directory exist, what are its children, is this path a file — is recomputed
from prefix queries against the flat namespace on every call. The FS instance
holds nothing but immutable configuration (bucket binding via the backend,
root prefix, default object arguments), so concurrent operations share no
mutable state and external mutation of the bucket is always visible.

# Directory simulation

A directory exists iff it has at least one descendant object or a zero-byte
marker object whose key ends in the delimiter. An empty directory therefore
must have a marker; a directory with children need not. A file object and a
directory marker never occupy the same path: Mkdir refuses where a file key
exists, and file creation refuses where a marker exists.

# Write semantics

File handles stage all writes in a local buffer and commit the full buffer as
one object when closed, so a handle's writes are all-or-nothing at object
granularity. Concurrent writers to the same key race and the last close wins,
matching the consistency model of the store itself.
*/
package filesystem
