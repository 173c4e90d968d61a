/*
Package types provides the core interfaces and data structures shared across s3fs.

The package defines the contract between the filesystem core and the object
storage backend, plus the data model the filesystem exposes to callers.

# Architecture Overview

s3fs presents a flat key/blob store as a hierarchical filesystem:

	┌─────────────────────────────────────────────┐
	│          Filesystem Operations              │
	│          (internal/filesystem)              │
	└─────────────────────────────────────────────┘
	                      │  types.Backend
	┌─────────────────────────────────────────────┐
	│             S3 Storage Client               │
	│           (internal/storage/s3)             │
	└─────────────────────────────────────────────┘

# Core Interfaces

Backend Interface:
Abstracts the object store as a small capability set — put, ranged get,
whole-object download, head, delete, paged prefix listing, server-side copy,
and presigned URL generation. Implementations translate store-native errors
into the pkg/fserrors taxonomy before returning.

# Data Structures

ObjectInfo holds store-native object metadata. Info is the generic filesystem
info record with selectable namespaces (basic, details, s3, urls). NodeType is
the tagged classification {Missing, File, Directory} computed on demand for
any path. UploadArgs and DownloadArgs carry the settable metadata merged from
filesystem-instance defaults and per-call overrides.
*/
package types
